package io

import (
	"fmt"
	"io"
)

// CountingWriter concatenates files onto Delegate, keeping totals for logging.
type CountingWriter struct {
	Delegate     io.Writer
	BytesWritten int64
	FilesWritten int
}

func (w *CountingWriter) Write(p []byte) (int, error) {
	n, err := w.Delegate.Write(p)
	w.BytesWritten += int64(n)
	return n, err
}

// WriteFiles writes each file after a `// path` line, with a blank line between files. Each file remains a valid Go
// source on its own.
func (w *CountingWriter) WriteFiles(files ...File) error {
	for _, f := range files {
		sep := ""
		if w.FilesWritten > 0 {
			sep = "\n"
		}
		if _, err := fmt.Fprintf(w, "%s// %s\n", sep, f.Path()); err != nil {
			return err
		}
		if _, err := f.WriteTo(w); err != nil {
			return err
		}
		w.FilesWritten++
	}
	return nil
}
