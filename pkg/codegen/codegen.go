// Package codegen renders derivations into Go source: a String and an Error method per struct, and a dispatch function
// plus per-variant methods per sealed interface.
package codegen

import (
	"bytes"
	"embed"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/klothoplatform/displaygen/pkg/logging"
	"github.com/klothoplatform/displaygen/pkg/shape"
	"github.com/klothoplatform/displaygen/pkg/templateutils"
	"github.com/klothoplatform/displaygen/pkg/tmpl"
)

//go:embed templates/*.tmpl
var files embed.FS

var templates = templateutils.MustTemplate(files, "templates/*.tmpl")

const DefaultReceiver = "e"

type Options struct {
	// Receiver names the receiver of generated methods. Defaults to [DefaultReceiver].
	Receiver string
}

func (o Options) receiver() string {
	if o.Receiver == "" {
		return DefaultReceiver
	}
	return o.Receiver
}

type (
	local struct {
		Name string
		Expr string
	}

	methods struct {
		Name       string
		Type       string
		Receiver   string
		Attributes []string
		Locals     []local
		Render     string
		Assert     bool
	}

	arm struct {
		CaseType   string
		Attributes []string
		Locals     []local
		Render     string
	}

	dispatch struct {
		Name        string
		Func        string
		Declaration string
		TypeArgs    string
		Attributes  []string
		Uninhabited bool
		BindsValue  bool
		Arms        []arm
		Fallback    string
		Methods     []methods
	}
)

// DispatchName is the name of the function rendering a sealed interface: `formatShape` for `Shape`.
func DispatchName(union string) string {
	return "format" + strcase.ToCamel(union)
}

// Fragment renders the declarations derived for one type.
func Fragment(d *shape.Derivation, opts Options) (string, error) {
	log := zap.L().Named("codegen").With(logging.TypeField(d.Type.Name))

	var name string
	var data any
	switch s := d.Shape.(type) {
	case shape.SingleTemplate:
		name, data = "methods.go.tmpl", structMethods(d, s, opts.receiver())

	case shape.Tagged:
		name, data = "dispatch.go.tmpl", taggedDispatch(d, s, opts.receiver())

	case shape.Uninhabited:
		name, data = "dispatch.go.tmpl", dispatch{
			Name:        d.Type.Name,
			Func:        DispatchName(d.Type.Name),
			Declaration: d.Type.TypeParams.Declaration(),
			TypeArgs:    d.Type.TypeParams.Receiver(),
			Attributes:  d.Attributes().Texts(),
			Uninhabited: true,
		}

	default:
		return "", errors.Errorf("unsupported shape %T for %s", d.Shape, d.Type.Name)
	}

	buf := new(bytes.Buffer)
	if err := templates.ExecuteTemplate(buf, name, data); err != nil {
		return "", errors.Wrapf(err, "could not render %s", d.Type.Name)
	}
	log.Sugar().Debugf("rendered %s", name)
	return buf.String(), nil
}

func structMethods(d *shape.Derivation, s shape.SingleTemplate, receiver string) methods {
	render := renderCall(s.Template, func(a tmpl.Arg) string {
		b, _ := shape.Lookup(s.Bindings, a.Ref())
		return receiver + "." + b.Field.Name
	})
	return methods{
		Name:       d.Type.Name,
		Type:       d.Type.Name + d.Type.TypeParams.Receiver(),
		Receiver:   receiver,
		Attributes: d.Attributes().Texts(),
		Render:     render,
		Assert:     len(d.Type.TypeParams) == 0,
	}
}

func taggedDispatch(d *shape.Derivation, s shape.Tagged, receiver string) dispatch {
	t := d.Type
	out := dispatch{
		Name:        t.Name,
		Func:        DispatchName(t.Name),
		Declaration: t.TypeParams.Declaration(),
		TypeArgs:    t.TypeParams.Receiver(),
		Attributes:  d.Attributes().Texts(),
	}
	generic := len(t.TypeParams) > 0

	var defaultRender string
	if s.Default != nil {
		defaultRender = renderCall(s.Default, nil)
		out.Fallback = defaultRender
		out.BindsValue = usesValue(s.Default, "v")
	} else {
		out.Fallback = `fmt.Sprintf("%T", v)`
		out.BindsValue = true
	}

	for _, a := range s.Arms {
		v := a.Variant
		ar := arm{CaseType: v.CaseType(), Attributes: a.Attributes().Texts(), Render: defaultRender}
		if a.Template != nil {
			ar.Locals = armLocals(a, "v")
			ar.Render = armRender(a)
			if len(ar.Locals) > 0 || usesValue(a.Template, "v") {
				out.BindsValue = true
			}
		}
		out.Arms = append(out.Arms, ar)

		m := methods{
			Name:     v.Name,
			Type:     v.CaseType(),
			Receiver: receiver,
			Assert:   v.TypeArgs == "",
		}
		switch {
		case !generic:
			m.Render = out.Func + "(" + receiver + ")"
		case v.TypeArgs != "":
			m.Render = out.Func + v.TypeArgs + "(" + receiver + ")"
		default:
			// a non-generic variant of a generic union has no type arguments to instantiate the dispatch with
			m.Render, m.Locals = inlineRender(a, defaultRender, receiver)
		}
		out.Methods = append(out.Methods, m)
	}
	return out
}

// inlineRender renders an arm directly inside a variant's String method, with the receiver standing in for `v`.
func inlineRender(a shape.Arm, defaultRender, receiver string) (string, []local) {
	if a.Template == nil {
		if defaultRender == "" {
			return strconv.Quote(a.Variant.Name), nil
		}
		return defaultRender, nil
	}
	locals := armLocals(a, receiver)
	if usesValue(a.Template, "v") {
		locals = append([]local{{Name: "v", Expr: receiver}}, locals...)
	}
	return armRender(a), locals
}

func armLocals(a shape.Arm, value string) []local {
	locals := make([]local, 0, len(a.Bindings))
	for _, b := range a.Bindings {
		expr := value + "." + b.Field.Name
		if a.Variant.Shape == shape.SingleValue {
			v := value
			if a.Variant.Pointer {
				v = "*" + value
			}
			expr = conversion(b.Convert, v)
		}
		locals = append(locals, local{Name: b.Local, Expr: expr})
	}
	return locals
}

func armRender(a shape.Arm) string {
	return renderCall(a.Template, func(arg tmpl.Arg) string {
		b, _ := shape.Lookup(a.Bindings, arg.Ref())
		return b.Local
	})
}

// conversion converts value to typ, parenthesising types that would otherwise not parse as a conversion.
func conversion(typ, value string) string {
	for _, prefix := range []string{"*", "func", "<-", "chan"} {
		if strings.HasPrefix(typ, prefix) {
			return "(" + typ + ")(" + value + ")"
		}
	}
	return typ + "(" + value + ")"
}

// renderCall is the expression rendering c: a string literal when c has no arguments, a fmt.Sprintf call otherwise.
// ref supplies the expression of a field reference; explicit arguments are used as written.
func renderCall(c *tmpl.Compiled, ref func(tmpl.Arg) string) string {
	if len(c.Args) == 0 {
		return strconv.Quote(c.Text())
	}
	args := make([]string, 0, len(c.Args)+1)
	args = append(args, strconv.Quote(c.Format))
	for _, a := range c.Args {
		if a.Kind == tmpl.Explicit {
			args = append(args, a.Expr)
		} else {
			args = append(args, ref(a))
		}
	}
	return "fmt.Sprintf(" + strings.Join(args, ", ") + ")"
}

// usesValue reports whether an explicit argument of c mentions the identifier name.
func usesValue(c *tmpl.Compiled, name string) bool {
	for _, a := range c.Args {
		if a.Kind != tmpl.Explicit {
			continue
		}
		var s scanner.Scanner
		src := []byte(a.Expr)
		s.Init(token.NewFileSet().AddFile("", -1, len(src)), src, nil, 0)
		prev := token.ILLEGAL
		for {
			_, tok, lit := s.Scan()
			if tok == token.EOF {
				break
			}
			// `x.v` selects a field named v, it does not refer to the variable
			if tok == token.IDENT && lit == name && prev != token.PERIOD {
				return true
			}
			prev = tok
		}
	}
	return false
}
