package diagnostics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a diagnostic. Shape-level kinds fail fast; template kinds are reported per element and may be
// combined across sibling variants.
type Kind int

const (
	UnsupportedShape Kind = iota + 1
	MissingTemplate
	MissingTemplateSet
	IncompleteVariantTemplates
	MalformedAttributeForm
	EmptyTemplateLiteral
	ExpectedStringLiteral
	UnexpectedTrailingToken
	MismatchedExplicitArguments
	UnknownFieldReference
	TypeNotFound
	InvalidSource
	InvalidFormatSpec
)

var kindNames = map[Kind]string{
	UnsupportedShape:            "unsupported shape",
	MissingTemplate:             "missing template",
	MissingTemplateSet:          "missing template set",
	IncompleteVariantTemplates:  "incomplete variant templates",
	MalformedAttributeForm:      "malformed directive",
	EmptyTemplateLiteral:        "empty template literal",
	ExpectedStringLiteral:       "expected string literal",
	UnexpectedTrailingToken:     "unexpected trailing token",
	MismatchedExplicitArguments: "mismatched explicit arguments",
	UnknownFieldReference:       "unknown field reference",
	TypeNotFound:                "type not found",
	InvalidSource:               "invalid source",
	InvalidFormatSpec:           "invalid format spec",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Span locates the element a diagnostic is about. Line and Column are 1-based; zero means unknown.
type Span struct {
	File   string
	Line   int
	Column int
	// Label names the element, such as a type or a variant.
	Label string
}

func (s Span) String() string {
	sb := new(strings.Builder)
	if s.File != "" {
		sb.WriteString(s.File)
	} else {
		sb.WriteString("<input>")
	}
	if s.Line > 0 {
		fmt.Fprintf(sb, ":%d:%d", s.Line, s.Column)
	}
	return sb.String()
}

type Diagnostic struct {
	Kind    Kind
	Span    Span
	Message string
}

func New(kind Kind, span Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Kind:    kind,
		Span:    span,
		Message: fmt.Sprintf(format, args...),
	}
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Span, d.Message)
}

// List is a combined diagnostic: one failure carrying one labelled span per offending element.
type List []*Diagnostic

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "<nil>"

	case 1:
		return l[0].Error()

	default:
		buf := new(bytes.Buffer)
		fmt.Fprintf(buf, "%d errors occurred:", len(l))
		for _, d := range l {
			fmt.Fprintf(buf, "\n\t* %v", d)
		}
		return buf.String()
	}
}

// Append adds err to the list, flattening nested lists. Will no-op if `err == nil`.
// Errors that carry no diagnostic are recorded with a zero Kind so they are never silently dropped.
func (l *List) Append(err error) {
	switch {
	case l == nil, err == nil:
		return
	}

	var list List
	var d *Diagnostic
	switch {
	case errors.As(err, &list):
		*l = append(*l, list...)

	case errors.As(err, &d):
		*l = append(*l, d)

	default:
		*l = append(*l, &Diagnostic{Message: err.Error()})
	}
}

// Combine merges any number of errors into a single error. The merge is associative and keeps the order of its
// inputs; nil inputs are ignored. Returns nil when nothing failed.
func Combine(errs ...error) error {
	var l List
	for _, err := range errs {
		l.Append(err)
	}
	return l.ErrOrNil()
}

// ErrOrNil converts the list into an [error], avoiding the typed-nil trap. A single diagnostic is returned unwrapped.
func (l List) ErrOrNil() error {
	switch len(l) {
	case 0:
		return nil

	case 1:
		return l[0]

	default:
		return l
	}
}

// Unwrap implements the multi-error interface used by [errors.Is] and [errors.As].
func (l List) Unwrap() []error {
	errs := make([]error, len(l))
	for i, d := range l {
		errs[i] = d
	}
	return errs
}

func (l List) Spans() []Span {
	spans := make([]Span, len(l))
	for i, d := range l {
		spans[i] = d.Span
	}
	return spans
}

// Of returns the diagnostics carried by err, in order.
func Of(err error) List {
	var l List
	l.Append(err)
	return l
}
