package main

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/klothoplatform/displaygen/pkg/query"
)

func newAstCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "ast <file.go>",
		Short:  "Dump the syntax tree of a Go file as YAML",
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "could not read %s", args[0])
			}
			node, err := syntaxTree(cmd.Context(), content)
			if err != nil {
				return err
			}
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(node)
		},
	}
}

func syntaxTree(ctx context.Context, content []byte) (*yaml.Node, error) {
	p := sitter.NewParser()
	p.SetLanguage(golang.GetLanguage())
	tree, err := p.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse")
	}
	return toYAML(tree.RootNode(), content), nil
}

// toYAML maps every named node to a key `(type)`, commented with its source text when that fits on one line.
func toYAML(n *sitter.Node, src []byte) *yaml.Node {
	y := &yaml.Node{}
	if n.NamedChildCount() == 0 {
		y.Kind = yaml.ScalarNode
		y.Tag = "!!null"
		if c := query.Content(n, src); !strings.Contains(c, "\n") {
			y.LineComment = c
		}
		return y
	}

	y.Kind = yaml.MappingNode
	for _, child := range query.NamedChildren(n) {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: "(" + child.Type() + ")"}
		if c := query.Content(child, src); !strings.Contains(c, "\n") {
			key.LineComment = c
		}
		y.Content = append(y.Content, key, toYAML(child, src))
	}
	return y
}
