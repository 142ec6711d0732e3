package golang

import (
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/klothoplatform/displaygen/pkg/query"
)

type Import struct {
	// Alias is the explicit package name, `_` or `.`. Empty when the import is not renamed.
	Alias string
	Path  string
}

// String renders the import spec as it appears inside an import block.
func (i Import) String() string {
	if i.Alias != "" {
		return i.Alias + " " + strconv.Quote(i.Path)
	}
	return strconv.Quote(i.Path)
}

func importsIn(root *sitter.Node, src []byte) []Import {
	nextMatch := doQuery(root, findImports)
	var imports []Import
	for {
		match, found := nextMatch()
		if !found {
			break
		}

		path, err := strconv.Unquote(query.Content(match["path"], src))
		if err != nil {
			continue
		}
		imports = append(imports, Import{
			Alias: query.ContentOrEmpty(match["alias"], src),
			Path:  path,
		})
	}
	return imports
}

// UsableImports returns the imports a generated file may need: blank and dot imports are left out.
func (f *File) UsableImports() []Import {
	var usable []Import
	for _, i := range f.Imports {
		if i.Alias == "_" || i.Alias == "." {
			continue
		}
		usable = append(usable, i)
	}
	return usable
}
