package query

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Content returns the source text of node. src must be the buffer the tree was parsed from.
func Content(node *sitter.Node, src []byte) string {
	start, end := node.StartByte(), node.EndByte()
	if int(end) > len(src) || start > end {
		return ""
	}
	return string(src[start:end])
}

func ContentOrEmpty(node *sitter.Node, src []byte) string {
	if node == nil {
		return ""
	}
	return Content(node, src)
}

func FirstChildOfType(node *sitter.Node, ctype string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		n := node.Child(i)
		if n.Type() == ctype {
			return n
		}
	}
	return nil
}

func ChildrenOfType(node *sitter.Node, ctype string) []*sitter.Node {
	var children []*sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		if n := node.Child(i); n.Type() == ctype {
			children = append(children, n)
		}
	}
	return children
}

func NamedChildren(node *sitter.Node) []*sitter.Node {
	children := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := 0; i < int(node.NamedChildCount()); i++ {
		children = append(children, node.NamedChild(i))
	}
	return children
}

// SameNode reports whether a and b are the same node of a tree.
func SameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}
