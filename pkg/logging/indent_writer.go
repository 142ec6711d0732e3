package logging

import (
	"io"
	"strings"

	"github.com/fatih/color"
)

// IndentedWriter prefixes every line written through it with Indentation, optionally colouring the line.
type IndentedWriter struct {
	Indentation string
	Writer      io.Writer
	Colour      *color.Color
}

func (w *IndentedWriter) Write(b []byte) (n int, err error) {
	for _, line := range strings.SplitAfter(string(b), "\n") {
		if line == "" {
			continue
		}
		text, newline := strings.CutSuffix(line, "\n")
		if w.Colour != nil {
			text = w.Colour.Sprint(text)
		}
		if newline {
			text += "\n"
		}
		if _, err := io.WriteString(w.Writer, w.Indentation+text); err != nil {
			return n, err
		}
		n += len(line)
	}
	return n, nil
}
