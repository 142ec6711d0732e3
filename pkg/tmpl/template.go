// Package tmpl compiles display templates into Go format strings plus an ordered list of field references.
package tmpl

import (
	"fmt"
	"strconv"
	"strings"
)

type ArgKind int

const (
	// Positional refers to a field by its declaration index: `{0}`.
	Positional ArgKind = iota
	// Named refers to a field by name: `{Host}`.
	Named
	// Explicit consumes the next trailing argument expression of the directive: `{}`.
	Explicit
)

func (k ArgKind) String() string {
	switch k {
	case Positional:
		return "positional"
	case Named:
		return "named"
	case Explicit:
		return "explicit"
	}
	return fmt.Sprintf("ArgKind(%d)", int(k))
}

type (
	Arg struct {
		Kind  ArgKind
		Index int
		Name  string
		Expr  string
		// Verb is the fmt verb rendering this argument, such as `%v` or `%#v`.
		Verb string
	}

	// Compiled is a template with its placeholders replaced by fmt verbs. Args holds one entry per placeholder, in the
	// order the placeholders appear in Source.
	Compiled struct {
		Source string
		Format string
		Args   []Arg
	}

	// MismatchError reports a template whose `{}` slots do not line up with its trailing argument expressions.
	MismatchError struct {
		Slots     int
		Arguments int
	}

	// RangeError reports a positional reference too large to be a field index.
	RangeError struct {
		Ref string
	}

	// SpecError reports a format spec fmt cannot express.
	SpecError struct {
		Ref  string
		Spec string
	}
)

func (e *RangeError) Error() string {
	return fmt.Sprintf("positional reference {%s} is out of range", e.Ref)
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("unsupported format spec `%s` in {%s:%s}, expected fmt flags, width and precision followed by a "+
		"verb letter or `?`, as in {%s:08.3f} or {%s:?}", e.Spec, e.Ref, e.Spec, e.Ref, e.Ref)
}
func (e *MismatchError) Error() string {
	return fmt.Sprintf("template has %d `{}` placeholder(s) but %d trailing argument(s)", e.Slots, e.Arguments)
}

// Ref renders the reference the way it was written in the template.
func (a Arg) Ref() string {
	switch a.Kind {
	case Positional:
		return strconv.Itoa(a.Index)
	case Named:
		return a.Name
	}
	return ""
}

// Compile scans literal for placeholders and resolves each one, left to right. Every `{}` slot takes the next entry of
// explicit; the counts must match.
func Compile(literal string, explicit []string) (*Compiled, error) {
	c := &Compiled{Source: literal}
	out := new(strings.Builder)
	slots := 0

	rest := literal
	for {
		p, ok := nextPlaceholder(rest)
		if !ok {
			break
		}
		out.WriteString(escapeText(rest[:p.start]))

		verb, ok := verbFor(p.spec)
		if !ok {
			return nil, &SpecError{Ref: p.ref, Spec: p.spec}
		}
		arg := Arg{Verb: verb}
		switch {
		case p.ref == "":
			arg.Kind = Explicit
			if slots < len(explicit) {
				arg.Expr = explicit[slots]
			}
			slots++

		case isDigits(p.ref):
			index, err := strconv.Atoi(p.ref)
			if err != nil {
				return nil, &RangeError{Ref: p.ref}
			}
			arg.Kind = Positional
			arg.Index = index

		default:
			arg.Kind = Named
			arg.Name = p.ref
		}
		c.Args = append(c.Args, arg)
		out.WriteString(arg.Verb)

		// the remainder is rescanned from its start: everything before it is already resolved
		rest = rest[p.end:]
	}
	out.WriteString(escapeText(rest))
	c.Format = out.String()

	if slots != len(explicit) {
		return nil, &MismatchError{Slots: slots, Arguments: len(explicit)}
	}
	return c, nil
}

// Text returns the rendered text of a template without arguments.
func (c *Compiled) Text() string {
	return strings.ReplaceAll(c.Format, "%%", "%")
}

// References returns the field references (positional and named) in order of appearance.
func (c *Compiled) References() []Arg {
	var refs []Arg
	for _, a := range c.Args {
		if a.Kind != Explicit {
			refs = append(refs, a)
		}
	}
	return refs
}
