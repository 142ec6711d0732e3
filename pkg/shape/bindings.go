package shape

import (
	"go/token"
	"unicode/utf8"

	"github.com/iancoleman/strcase"

	"github.com/klothoplatform/displaygen/pkg/diagnostics"
	"github.com/klothoplatform/displaygen/pkg/set"
	"github.com/klothoplatform/displaygen/pkg/tmpl"
)

// Binding ties a field reference of a template to the field it selects.
type Binding struct {
	// Ref is the reference as written in the template: a field name or a decimal index.
	Ref   string
	Field Field
	// Local is the name the value is bound to inside a dispatch arm.
	Local string
	// Convert is the type a SingleValue variant is converted to before rendering, so that its own String method is not
	// called recursively. Empty for struct fields.
	Convert string
}

// Lookup returns the binding for a reference.
func Lookup(bindings []Binding, ref string) (Binding, bool) {
	for _, b := range bindings {
		if b.Ref == ref {
			return b, true
		}
	}
	return Binding{}, false
}

// reservedLocals are the names a bound local may not take inside a dispatch arm.
var reservedLocals = set.SetOf("v", "fmt")

type binder struct {
	owner  diagnostics.Span
	label  string
	fields []Field
	// single is set for SingleValue variants
	single  bool
	convert string
}

// bind resolves every field reference of c, once per distinct reference, in order of first appearance. Unknown
// references are reported together.
func (b binder) bind(c *tmpl.Compiled) ([]Binding, error) {
	var bindings []Binding
	var errs diagnostics.List
	taken := make(set.Set[string])
	for _, arg := range c.References() {
		ref := arg.Ref()
		if _, done := Lookup(bindings, ref); done {
			continue
		}
		binding, err := b.resolve(arg)
		if err != nil {
			errs.Append(err)
			continue
		}
		binding.Local = uniqueLocal(binding.Local, taken)
		taken.Add(binding.Local)
		bindings = append(bindings, binding)
	}
	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return bindings, nil
}

func (b binder) resolve(arg tmpl.Arg) (Binding, error) {
	switch arg.Kind {
	case tmpl.Positional:
		if b.single {
			if arg.Index == 0 {
				return Binding{Ref: "0", Local: "field_0", Convert: b.convert}, nil
			}
			return Binding{}, diagnostics.New(diagnostics.UnknownFieldReference, b.owner,
				"no field {%d} in %s, which holds a single value {0}", arg.Index, b.label)
		}
		if arg.Index >= len(b.fields) {
			return Binding{}, diagnostics.New(diagnostics.UnknownFieldReference, b.owner,
				"no field {%d} in %s, which has %d field(s)", arg.Index, b.label, len(b.fields))
		}
		f := b.fields[arg.Index]
		if f.IsBlank() {
			return Binding{}, diagnostics.New(diagnostics.UnknownFieldReference, b.owner,
				"field {%d} of %s is blank and cannot be referenced", arg.Index, b.label)
		}
		return Binding{Ref: arg.Ref(), Field: f, Local: "field_" + arg.Ref()}, nil

	default:
		for _, f := range b.fields {
			if f.Name == arg.Name && !f.IsBlank() {
				return Binding{Ref: arg.Name, Field: f, Local: localName(f.Name)}, nil
			}
		}
		return Binding{}, diagnostics.New(diagnostics.UnknownFieldReference, b.owner,
			"no field `%s` in %s", arg.Name, b.label)
	}
}

// localName derives an arm-local variable name from a field name: `Radius` binds to `radius`.
func localName(field string) string {
	for i := 0; i < len(field); i++ {
		if field[i] >= utf8.RuneSelf {
			return field
		}
	}
	name := strcase.ToLowerCamel(field)
	// keywords are kept: uniqueLocal suffixes them
	if !token.IsIdentifier(name) && !token.IsKeyword(name) {
		return field
	}
	return name
}

func uniqueLocal(name string, taken set.Set[string]) string {
	for token.IsKeyword(name) || reservedLocals.Contains(name) || taken.Contains(name) {
		name += "_"
	}
	return name
}

func checkNoReferences(c *tmpl.Compiled, owner diagnostics.Span, label string) error {
	var errs diagnostics.List
	for _, arg := range c.References() {
		errs.Append(diagnostics.New(diagnostics.UnknownFieldReference, owner,
			"default template of %s cannot reference field {%s}, use an explicit `{}` argument", label, arg.Ref()))
	}
	return errs.ErrOrNil()
}
