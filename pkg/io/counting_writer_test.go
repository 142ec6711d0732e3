package io

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountingWriter_WriteFiles(t *testing.T) {
	assert := assert.New(t)

	var sb strings.Builder
	w := CountingWriter{Delegate: &sb}

	err := w.WriteFiles(
		&RawFile{FPath: "a_display.go", Content: []byte("package a\n")},
		&RawFile{FPath: "b_display.go", Content: []byte("package b\n")},
	)
	assert.NoError(err)
	assert.Equal("// a_display.go\npackage a\n\n// b_display.go\npackage b\n", sb.String())
	assert.Equal(int64(sb.Len()), w.BytesWritten)
	assert.Equal(2, w.FilesWritten)
}

func TestCountingWriter_Empty(t *testing.T) {
	var sb strings.Builder
	w := CountingWriter{Delegate: &sb}
	assert.NoError(t, w.WriteFiles())
	assert.Zero(t, w.BytesWritten)
	assert.Empty(t, sb.String())
}
