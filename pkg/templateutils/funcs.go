package templateutils

import (
	"strconv"
	"strings"
	"text/template"
)

var Funcs = template.FuncMap{
	"joinString": strings.Join,

	// goString renders s as an interpreted Go string literal.
	"goString": strconv.Quote,
}
