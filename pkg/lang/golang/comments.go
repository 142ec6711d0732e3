package golang

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/klothoplatform/displaygen/pkg/annotation"
	"github.com/klothoplatform/displaygen/pkg/query"
)

// docComments returns the block of consecutive comments directly above node, in source order. A blank line ends the
// block, and a comment trailing code on its own line is never part of it.
func docComments(node *sitter.Node) []*sitter.Node {
	var block []*sitter.Node
	next := node
	for prev := previous(node); prev != nil && prev.Type() == "comment"; prev = previous(prev) {
		if prev.EndPoint().Row+1 < next.StartPoint().Row {
			break
		}
		if before := previous(prev); before != nil && before.EndPoint().Row == prev.StartPoint().Row {
			break
		}
		block = append(block, prev)
		next = prev
	}
	for i, j := 0, len(block)-1; i < j; i, j = i+1, j-1 {
		block[i], block[j] = block[j], block[i]
	}
	return block
}

// previous returns the sibling before n, skipping newline terminators.
func previous(n *sitter.Node) *sitter.Node {
	prev := n.PrevSibling()
	for prev != nil && prev.Type() == "\n" {
		prev = prev.PrevSibling()
	}
	return prev
}

// directivesOf parses the directive comments of a doc block. Ordinary comment text is skipped.
func directivesOf(comments []*sitter.Node, src []byte) annotation.Directives {
	var ds annotation.Directives
	for _, c := range comments {
		start := c.StartPoint()
		if d, ok := annotation.ParseDirective(query.Content(c, src), int(start.Row)+1, int(start.Column)+1); ok {
			ds = append(ds, d)
		}
	}
	return ds
}

// docAnchor is the node whose preceding comments document spec: the spec itself inside a grouped `type (...)`
// declaration, the whole declaration otherwise.
func docAnchor(spec *sitter.Node) *sitter.Node {
	if prev := spec.PrevSibling(); prev != nil && prev.Type() == "type" {
		return spec.Parent()
	}
	return spec
}
