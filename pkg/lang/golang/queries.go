package golang

import (
	_ "embed"
)

//go:embed queries/types.scm
var findTypeSpecs string

//go:embed queries/methods.scm
var findMethods string

//go:embed queries/imports.scm
var findImports string
