package golang

import (
	"context"
	"errors"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klothoplatform/displaygen/pkg/diagnostics"
	"github.com/klothoplatform/displaygen/pkg/shape"
)

func parse(t *testing.T, source string) *File {
	t.Helper()
	f, err := ParseFile(context.Background(), "errors.go", []byte(dedent.Dedent(source)))
	require.NoError(t, err)
	return f
}

func TestParseFile_Header(t *testing.T) {
	f := parse(t, `
		//go:build linux && !race

		package netutil

		import (
			"fmt"
			stdtime "time"
			_ "embed"
			. "strings"
		)
		`)

	assert.Equal(t, "netutil", f.Package)
	assert.Equal(t, "//go:build linux && !race", f.BuildConstraint)
	assert.Equal(t, []Import{
		{Path: "fmt"},
		{Alias: "stdtime", Path: "time"},
		{Alias: "_", Path: "embed"},
		{Alias: ".", Path: "strings"},
	}, f.Imports)
	assert.Equal(t, []Import{{Path: "fmt"}, {Alias: "stdtime", Path: "time"}}, f.UsableImports())
	assert.Equal(t, `stdtime "time"`, f.Imports[1].String())
}

func TestParseFile_Struct(t *testing.T) {
	f := parse(t, `
		package netutil

		// ConnError is returned when a dial fails.
		//display("connection to {Host}:{Port} refused")
		//nolint:errname
		type ConnError struct {
			Host       string
			Port, Try  int
			_          struct{}
			*log.Logger
			Context
		}

		type Plain struct{}
		`)

	require.Len(t, f.Types, 2)
	conn := f.Type("ConnError")
	require.NotNil(t, conn)
	assert.Equal(t, shape.Struct, conn.Kind)
	assert.Equal(t, diagnostics.Span{File: "errors.go", Line: 7, Column: 6, Label: "ConnError"}, conn.Span)
	assert.Equal(t, []string{`//display("connection to {Host}:{Port} refused")`, "//nolint:errname"}, conn.Annotations.Texts())
	assert.Equal(t, 5, conn.Annotations[0].Line)
	assert.Equal(t, 1, conn.Annotations[0].Column)
	assert.Equal(t, []shape.Field{
		{Name: "Host", Type: "string"},
		{Name: "Port", Type: "int"},
		{Name: "Try", Type: "int"},
		{Name: "_", Type: "struct{}"},
		{Name: "Logger", Type: "*log.Logger", Embedded: true},
		{Name: "Context", Type: "Context", Embedded: true},
	}, conn.Fields)

	plain := f.Type("Plain")
	assert.Empty(t, plain.Annotations)
	assert.Empty(t, plain.Fields)
	assert.Nil(t, f.Type("Missing"))
}

func TestParseFile_DocComments(t *testing.T) {
	f := parse(t, `
		package netutil

		//display("detached")

		type Detached struct{}

		var x = 1 //display("trailing")
		type Trailing struct{}

		type (
			//display("first")
			First struct{}

			//display("second")
			Second struct{}
		)

		/* display("block") */
		type Block struct{}
		`)

	assert.Empty(t, f.Type("Detached").Annotations)
	assert.Empty(t, f.Type("Trailing").Annotations)
	assert.Equal(t, []string{`//display("first")`}, f.Type("First").Annotations.Texts())
	assert.Equal(t, []string{`//display("second")`}, f.Type("Second").Annotations.Texts())
	assert.Empty(t, f.Type("Block").Annotations)
}

func TestParseFile_SealedInterface(t *testing.T) {
	f := parse(t, `
		package geometry

		//display("some shape")
		type Shape interface {
			isShape()
		}

		//display("circle r={Radius}")
		type Circle struct{ Radius float64 }

		type Origin struct{}

		//display("{0}")
		type Timeout time.Duration

		type NotAVariant struct{}

		type Alias = Circle

		func (Circle) isShape()   {}
		func (*Origin) isShape()  {}
		func (t Timeout) isShape() {}
		func (NotAVariant) isShape() int { return 0 }
		func (Elsewhere) isShape() {}
		`)

	s := f.Type("Shape")
	require.NotNil(t, s)
	assert.Equal(t, shape.Interface, s.Kind)
	assert.Equal(t, "isShape", s.Marker)
	assert.True(t, s.IsSealed())
	assert.Equal(t, []string{`//display("some shape")`}, s.Annotations.Texts())

	require.Len(t, s.Variants, 3)
	circle, origin, timeout := s.Variants[0], s.Variants[1], s.Variants[2]

	assert.Equal(t, "Circle", circle.Name)
	assert.Equal(t, shape.NamedFields, circle.Shape)
	assert.Equal(t, []shape.Field{{Name: "Radius", Type: "float64"}}, circle.Fields)
	assert.Equal(t, []string{`//display("circle r={Radius}")`}, circle.Annotations.Texts())
	assert.Equal(t, "Circle", circle.CaseType())

	assert.Equal(t, shape.NoFields, origin.Shape)
	assert.True(t, origin.Pointer)
	assert.Equal(t, "*Origin", origin.CaseType())

	assert.Equal(t, shape.SingleValue, timeout.Shape)
	assert.Equal(t, "time.Duration", timeout.Underlying)

	assert.Equal(t, []*shape.TypeDescription{s}, f.UnionsOf("Circle"))
	assert.Empty(t, f.UnionsOf("NotAVariant"))

	assert.Equal(t, shape.Other, f.Type("Alias").Kind)
	assert.Equal(t, "an alias", f.Type("Alias").Description)
	assert.Equal(t, "a defined time.Duration type", f.Type("Timeout").Description)
}

func TestParseFile_Generics(t *testing.T) {
	f := parse(t, `
		package tree

		type Tree[K comparable, V any] interface {
			Len() int
			isTree()
		}

		type Leaf[K comparable, V any] struct {
			Key K
			Val V
		}

		type Pair[A, B any] struct{ First A; Second B }

		func (l *Leaf[K, V]) isTree() {}
		`)

	tree := f.Type("Tree")
	assert.Equal(t, "isTree", tree.Marker)
	assert.Equal(t, shape.TypeParams{{Name: "K", Constraint: "comparable"}, {Name: "V", Constraint: "any"}}, tree.TypeParams)
	require.Len(t, tree.Variants, 1)
	assert.Equal(t, "*Leaf[K, V]", tree.Variants[0].CaseType())

	assert.Equal(t, shape.TypeParams{{Name: "A", Constraint: "any"}, {Name: "B", Constraint: "any"}}, f.Type("Pair").TypeParams)
}

func TestParseFile_UnsealedInterface(t *testing.T) {
	f := parse(t, `
		package geometry

		type Sizer interface {
			Size() int
			Reset(hard bool)
		}
		`)
	sizer := f.Type("Sizer")
	assert.Equal(t, shape.Interface, sizer.Kind)
	assert.Empty(t, sizer.Marker)
	assert.False(t, sizer.IsSealed())
}

func TestParseFile_SyntaxError(t *testing.T) {
	_, err := ParseFile(context.Background(), "broken.go", []byte("package broken\n\ntype X struct {\n"))
	require.Error(t, err)

	var d *diagnostics.Diagnostic
	require.True(t, errors.As(err, &d))
	assert.Equal(t, diagnostics.InvalidSource, d.Kind)
	assert.Equal(t, "broken.go", d.Span.File)
}
