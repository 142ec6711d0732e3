package diagnostics

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	errorColour = color.New(color.FgRed, color.Bold)
	labelColour = color.New(color.FgCyan)
)

// Fprint writes every diagnostic carried by err as `file:line:col: error: message`, one per block. Continuation lines
// of a message are indented under it. Errors without diagnostics are printed as-is.
func Fprint(w io.Writer, err error) {
	if err == nil {
		return
	}
	for _, d := range Of(err) {
		if d.Kind == 0 && d.Span == (Span{}) {
			errorColour.Fprint(w, "error: ")
			fmt.Fprintln(w, d.Message)
			continue
		}
		fmt.Fprintf(w, "%s: ", d.Span)
		errorColour.Fprint(w, "error: ")
		lines := strings.Split(d.Message, "\n")
		fmt.Fprintln(w, lines[0])
		for _, line := range lines[1:] {
			fmt.Fprintf(w, "    %s\n", line)
		}
		if d.Span.Label != "" {
			labelColour.Fprintf(w, "    --> %s (%s)\n", d.Span.Label, d.Kind)
		}
	}
}
