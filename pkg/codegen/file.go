package codegen

import (
	"bytes"

	"github.com/pkg/errors"
	"golang.org/x/tools/imports"
)

// Unit is everything generated for one source file.
type Unit struct {
	// Path is the output path. It is only used to resolve imports and in error messages.
	Path            string
	Package         string
	BuildConstraint string
	// Imports are the import specs of the source file as written, such as `stdtime "time"`. Unused ones are pruned.
	Imports   []string
	Fragments []string
}

// File assembles u into a formatted Go file.
func File(u Unit) ([]byte, error) {
	specs := make([]string, 0, len(u.Imports))
	for _, spec := range u.Imports {
		if spec != `"fmt"` {
			specs = append(specs, spec)
		}
	}
	u.Imports = specs

	buf := new(bytes.Buffer)
	if err := templates.ExecuteTemplate(buf, "file.go.tmpl", u); err != nil {
		return nil, errors.Wrapf(err, "could not assemble %s", u.Path)
	}
	out, err := imports.Process(u.Path, buf.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "generated code for %s does not parse:\n%s", u.Path, buf.String())
	}
	return out, nil
}
