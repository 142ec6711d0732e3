package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/klothoplatform/displaygen/pkg/diagnostics"
	displaygen_io "github.com/klothoplatform/displaygen/pkg/io"
)

func TestDescribeFields(t *testing.T) {
	assert := assert.New(t)

	got := DescribeFields([]zap.Field{
		FileField("pkg/errors.go"),
		SpanField(diagnostics.Span{File: "pkg/errors.go", Line: 4, Column: 6, Label: "ConnError"}),
		TypeField("ConnError"),
	}, "file", "span", "node")

	assert.Equal(map[string]string{
		"file": "{path: pkg/errors.go}",
		"span": "{file: pkg/errors.go, line: 4, column: 6, label: ConnError}",
		"node": "!!(MISSING)!!",
	}, got)
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, []string{"a_display.go", "b_display.go"}, FileNames([]displaygen_io.File{
		&displaygen_io.RawFile{FPath: "a_display.go"},
		&displaygen_io.RawFile{FPath: "b_display.go"},
	}))
}
