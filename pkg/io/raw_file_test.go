package io

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputTo(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	unchanged := filepath.Join(dir, "a_display.go")
	require.NoError(t, os.WriteFile(unchanged, []byte("package a\n"), 0644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(unchanged, old, old))

	stale := filepath.Join(dir, "b_display.go")
	require.NoError(t, os.WriteFile(stale, []byte("package b\n\n// a much longer stale body\n"), 0644))

	written, err := OutputTo([]File{
		&RawFile{FPath: "a_display.go", Content: []byte("package a\n")},
		&RawFile{FPath: "b_display.go", Content: []byte("package b\n")},
		&RawFile{FPath: "sub/c_display.go", Content: []byte("package c\n")},
	}, dir)
	require.NoError(t, err)

	sort.Strings(written)
	assert.Equal([]string{stale, filepath.Join(dir, "sub/c_display.go")}, written)

	info, err := os.Stat(unchanged)
	require.NoError(t, err)
	assert.True(info.ModTime().Equal(old), "unchanged output was rewritten")

	content, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.Equal("package b\n", string(content))

	content, err = os.ReadFile(filepath.Join(dir, "sub/c_display.go"))
	require.NoError(t, err)
	assert.Equal("package c\n", string(content))
}

func TestFileRef_ReadAll(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n"), 0644))

	content, err := (&FileRef{FPath: "a.go", RootConfigPath: dir}).ReadAll()
	assert.NoError(err)
	assert.Equal("package a\n", string(content))

	_, err = (&FileRef{FPath: "missing.go", RootConfigPath: dir}).ReadAll()
	assert.ErrorContains(err, "could not read missing.go")
}

func TestFileRef_WriteTo(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.go"), []byte("package a\n"), 0644))

	written, err := OutputTo([]File{&FileRef{FPath: "a.go", RootConfigPath: src}}, dest)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dest, "a.go")}, written)

	content, err := os.ReadFile(filepath.Join(dest, "a.go"))
	require.NoError(t, err)
	assert.Equal(t, "package a\n", string(content))
}
