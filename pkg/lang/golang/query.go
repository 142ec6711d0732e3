package golang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/klothoplatform/displaygen/pkg/query"
)

var language = golang.GetLanguage()

// doQuery is a thin wrapper around `query.Exec` to use go as the Language.
func doQuery(c *sitter.Node, q string) query.NextMatchFunc {
	return query.Exec(language, c, q)
}
