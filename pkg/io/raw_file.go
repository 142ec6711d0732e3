package io

import (
	"bytes"
	"io"
	"os"
)

type (
	File interface {
		Path() string
		WriteTo(io.Writer) (int64, error)
	}

	// NonOverwritable is implemented by files that decide whether an existing file at their path is replaced.
	NonOverwritable interface {
		Overwrite(existing *os.File) bool
	}
)

// RawFile represents a file with its included `Content`, typically generated code.
// If the content is not needed except to `WriteTo`, then try using [FileRef] instead.
type RawFile struct {
	FPath   string
	Content []byte
}

func (r *RawFile) Path() string {
	return r.FPath
}

func (r *RawFile) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Content)
	return int64(n), err
}

// Overwrite reports whether existing differs from the content, so that up-to-date outputs keep their modification
// time.
func (r *RawFile) Overwrite(existing *os.File) bool {
	current, err := io.ReadAll(existing)
	if err != nil {
		return true
	}
	return !bytes.Equal(current, r.Content)
}
