// Package annotation models the comment directives attached to Go declarations.
//
// A directive is a line comment with no space after the slashes, such as
//
//	//display("connection to {Host} refused")
//	//nolint:errname
//
// Directives keep their source order so that the ones a derivation does not consume can be reproduced verbatim.
package annotation

import (
	"strings"

	"github.com/klothoplatform/displaygen/pkg/parseutils"
)

type Form int

const (
	// PathForm is a bare directive name: `//display`.
	PathForm Form = iota
	// CallForm is a name followed by a balanced parenthesised argument list: `//display("...")`.
	CallForm
	// OtherForm is anything else, for example `//display:"..."` or `//display "..."`.
	OtherForm
)

func (f Form) String() string {
	switch f {
	case PathForm:
		return "path"
	case CallForm:
		return "call"
	default:
		return "other"
	}
}

type (
	Directive struct {
		Name string
		Form Form
		// Args is the text between the parentheses for CallForm, and the text after the name otherwise.
		Args string
		// Text is the full comment, slashes included.
		Text   string
		Line   int
		Column int
	}

	Directives []*Directive
)

func isNameByte(c byte) bool {
	return c == '_' || c == '-' || c == '.' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// ParseDirective parses a single `//`-comment. It returns false for block comments and for ordinary comment text
// (a space after the slashes, or no name).
func ParseDirective(comment string, line, column int) (*Directive, bool) {
	comment = strings.TrimRight(comment, " \t\r")
	body, ok := strings.CutPrefix(comment, "//")
	if !ok || body == "" || !isNameByte(body[0]) {
		return nil, false
	}
	end := 0
	for end < len(body) && isNameByte(body[end]) {
		end++
	}

	d := &Directive{
		Name:   body[:end],
		Text:   comment,
		Line:   line,
		Column: column,
	}
	rest := body[end:]
	switch {
	case rest == "":
		d.Form = PathForm

	case rest[0] == '(':
		inner, after, ok := parseutils.ExtractBalanced(rest, '(', ')')
		if ok && strings.TrimSpace(after) == "" {
			d.Form = CallForm
			d.Args = inner
		} else {
			d.Form = OtherForm
			d.Args = rest
		}

	default:
		d.Form = OtherForm
		d.Args = rest
	}
	return d, true
}

// IsToolchain reports whether the directive is interpreted by the Go toolchain (`//go:build`, `//go:generate`,
// `//line`, `//export`, `//extern`). Such directives must never be copied into generated code.
func (d *Directive) IsToolchain() bool {
	switch d.Name {
	case "go":
		return strings.HasPrefix(d.Args, ":")
	case "line", "export", "extern":
		return true
	}
	return false
}

// Take removes the first directive named `name` from ds and returns it. The remaining directives keep their
// relative order. Returns nil if no directive matches; the form of the returned directive is not checked.
func (ds *Directives) Take(name string) *Directive {
	for i, d := range *ds {
		if d.Name == name {
			*ds = append((*ds)[:i:i], (*ds)[i+1:]...)
			return d
		}
	}
	return nil
}

// Clone returns a copy of the list that shares no backing array with ds, so that [Directives.Take] on the clone
// leaves ds untouched.
func (ds Directives) Clone() Directives {
	if ds == nil {
		return nil
	}
	clone := make(Directives, len(ds))
	for i, d := range ds {
		cp := *d
		clone[i] = &cp
	}
	return clone
}

// Texts returns the verbatim comment text of each directive.
func (ds Directives) Texts() []string {
	texts := make([]string, len(ds))
	for i, d := range ds {
		texts[i] = d.Text
	}
	return texts
}

// Has reports whether ds holds a directive named name.
func (ds Directives) Has(name string) bool {
	for _, d := range ds {
		if d.Name == name {
			return true
		}
	}
	return false
}
