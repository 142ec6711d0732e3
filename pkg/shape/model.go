// Package shape classifies annotated type declarations and validates their display templates.
//
// A [TypeDescription] is produced by a language frontend and is never modified by [Analyze]: every analysis works on
// its own [TypeDescription.Clone], so that taking the template directive out of an annotation list cannot leak back
// into the caller's copy.
package shape

import (
	"fmt"

	"github.com/klothoplatform/displaygen/pkg/annotation"
	"github.com/klothoplatform/displaygen/pkg/diagnostics"
)

type Kind int

const (
	// Struct is a `type T struct{...}` declaration.
	Struct Kind = iota + 1
	// Interface is an interface declaration. It is a sealed interface, and therefore a tagged union, only when it has a
	// marker method.
	Interface
	// Other is any declaration displaygen cannot derive for: aliases, defined basic types, func, map and chan types.
	Other
)

func (k Kind) String() string {
	switch k {
	case Struct:
		return "struct"
	case Interface:
		return "interface"
	case Other:
		return "other"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type FieldShape int

const (
	// NoFields is an empty struct variant: `type Closed struct{}`.
	NoFields FieldShape = iota
	// NamedFields is a struct variant with at least one field.
	NamedFields
	// SingleValue is a defined non-struct variant such as `type Timeout time.Duration`. Its value is addressed
	// positionally as `{0}`.
	SingleValue
)

func (s FieldShape) String() string {
	switch s {
	case NoFields:
		return "none"
	case NamedFields:
		return "named"
	case SingleValue:
		return "positional"
	}
	return fmt.Sprintf("FieldShape(%d)", int(s))
}

type (
	TypeDescription struct {
		Name string
		Kind Kind
		// Description says what the type is when it is neither a struct nor a sealed interface, for example "an alias".
		Description string
		Span        diagnostics.Span
		Annotations annotation.Directives
		TypeParams  TypeParams
		// Fields are the declared fields of a Struct, in declaration order.
		Fields []Field
		// Marker is the name of the method sealing an Interface. Empty if the interface has none.
		Marker   string
		Variants []Variant
	}

	Field struct {
		// Name is the selector of the field. Embedded fields are named after their type; blank fields are named `_`.
		Name     string
		Type     string
		Embedded bool
	}

	Variant struct {
		Name        string
		Span        diagnostics.Span
		Annotations annotation.Directives
		Shape       FieldShape
		Fields      []Field
		// Underlying is the type expression a SingleValue variant is declared with.
		Underlying string
		// Pointer is set when the marker method has a pointer receiver.
		Pointer bool
		// TypeArgs are the receiver type arguments of the marker method as written, such as `[K, V]`.
		TypeArgs string
	}
)

// CaseType is the type a dispatch arm switches on, such as `*Leaf[K, V]`.
func (v Variant) CaseType() string {
	t := v.Name + v.TypeArgs
	if v.Pointer {
		return "*" + t
	}
	return t
}

// IsBlank reports whether the field can not be selected.
func (f Field) IsBlank() bool {
	return f.Name == "_" || f.Name == ""
}

// Clone returns a deep copy of t.
func (t *TypeDescription) Clone() *TypeDescription {
	clone := *t
	clone.Annotations = t.Annotations.Clone()
	clone.TypeParams = append(TypeParams(nil), t.TypeParams...)
	clone.Fields = append([]Field(nil), t.Fields...)
	if t.Variants != nil {
		clone.Variants = make([]Variant, len(t.Variants))
		for i, v := range t.Variants {
			v.Annotations = v.Annotations.Clone()
			v.Fields = append([]Field(nil), v.Fields...)
			clone.Variants[i] = v
		}
	}
	return &clone
}

func (t *TypeDescription) describe() string {
	if t.Description != "" {
		return t.Description
	}
	switch t.Kind {
	case Interface:
		return "an interface without a marker method"
	case Struct:
		return "a struct"
	}
	return "neither"
}

// IsSealed reports whether t is an interface with a marker method.
func (t *TypeDescription) IsSealed() bool {
	return t.Kind == Interface && t.Marker != ""
}
