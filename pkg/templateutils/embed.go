package templateutils

import (
	"io/fs"
	"text/template"

	sprig "github.com/Masterminds/sprig/v3"
)

// MustTemplate parses every file of fsys matching patterns into one template set, each template named after its file
// base name. Templates are part of the binary, so a parse failure panics.
func MustTemplate(fsys fs.FS, patterns ...string) *template.Template {
	t, err := template.New("").
		Funcs(sprig.HermeticTxtFuncMap()).
		Funcs(Funcs).
		ParseFS(fsys, patterns...)
	if err != nil {
		panic(err)
	}
	return t
}
