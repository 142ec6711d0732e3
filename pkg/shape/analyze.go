package shape

import (
	"go.uber.org/zap"

	"github.com/klothoplatform/displaygen/pkg/annotation"
	"github.com/klothoplatform/displaygen/pkg/diagnostics"
	"github.com/klothoplatform/displaygen/pkg/logging"
	"github.com/klothoplatform/displaygen/pkg/tmpl"
)

const DefaultTrigger = "display"

type Options struct {
	// Trigger is the directive name carrying templates. Defaults to [DefaultTrigger].
	Trigger string
}

func (o Options) trigger() string {
	if o.Trigger == "" {
		return DefaultTrigger
	}
	return o.Trigger
}

type (
	// Derivation is the validated, generation-ready form of one annotated type.
	Derivation struct {
		// Type is the analyzed copy of the input. Its annotations no longer contain the template directive.
		Type  *TypeDescription
		Shape Shape
	}

	// Shape is one of [SingleTemplate], [Uninhabited] or [Tagged].
	Shape interface {
		isShape()
	}

	SingleTemplate struct {
		Template *tmpl.Compiled
		Bindings []Binding
	}

	// Uninhabited is a sealed interface with no variants: no value can ever be rendered.
	Uninhabited struct{}

	Tagged struct {
		// Default renders every variant without a template of its own. May be nil.
		Default *tmpl.Compiled
		// Arms holds one entry per variant, in declaration order.
		Arms []Arm
	}

	Arm struct {
		// Variant is the analyzed copy of the variant. Its annotations no longer contain the template directive.
		Variant Variant
		// Template is nil when the arm renders the default.
		Template *tmpl.Compiled
		Bindings []Binding
	}
)

func (SingleTemplate) isShape() {}
func (Uninhabited) isShape()    {}
func (Tagged) isShape()         {}

// Attributes returns the directives of d's type that are kept on generated code: everything except the template and
// toolchain directives.
func (d *Derivation) Attributes() annotation.Directives {
	return keep(d.Type.Annotations)
}

// Attributes returns the directives of the arm's variant that are copied onto its dispatch case.
func (a Arm) Attributes() annotation.Directives {
	return keep(a.Variant.Annotations)
}

func keep(ds annotation.Directives) annotation.Directives {
	var kept annotation.Directives
	for _, d := range ds {
		if !d.IsToolchain() {
			kept = append(kept, d)
		}
	}
	return kept
}

// Analyze classifies desc and validates its templates. desc itself is left untouched.
//
// Structural failures ([diagnostics.UnsupportedShape], [diagnostics.MissingTemplate],
// [diagnostics.MissingTemplateSet]) are returned on their own. Template failures on the variants of a sealed interface
// are collected across all variants and returned as one [diagnostics.List].
func Analyze(desc *TypeDescription, opts Options) (*Derivation, error) {
	t := desc.Clone()
	log := zap.L().Named("shape").With(logging.TypeField(t.Name))

	var shape Shape
	var err error
	switch {
	case t.Kind == Struct:
		shape, err = analyzeStruct(t, opts.trigger())

	case t.IsSealed():
		shape, err = analyzeTagged(t, opts.trigger())

	default:
		err = diagnostics.New(diagnostics.UnsupportedShape, t.Span,
			"displaygen only supports structs and sealed interfaces (%s is %s)", t.Name, t.describe())
	}
	if err != nil {
		log.Debug("analysis failed", zap.Error(err))
		return nil, err
	}
	log.Sugar().Debugf("analyzed as %T", shape)
	return &Derivation{Type: t, Shape: shape}, nil
}

func analyzeStruct(t *TypeDescription, trigger string) (Shape, error) {
	attr := t.Annotations.Take(trigger)
	if attr == nil {
		return nil, diagnostics.New(diagnostics.MissingTemplate, t.Span,
			"missing `%s` directive for struct %s", trigger, t.Name)
	}
	c, err := tmpl.Parse(attr, trigger, t.Span)
	if err != nil {
		return nil, err
	}
	bindings, err := binder{owner: attrSpan(attr, t.Span), label: t.Name, fields: t.Fields}.bind(c)
	if err != nil {
		return nil, err
	}
	return SingleTemplate{Template: c, Bindings: bindings}, nil
}

func analyzeTagged(t *TypeDescription, trigger string) (Shape, error) {
	defaultAttr := t.Annotations.Take(trigger)
	if len(t.Variants) == 0 {
		return Uninhabited{}, nil
	}

	arms := make([]Arm, len(t.Variants))
	templated := 0
	var errs diagnostics.List
	for i, v := range t.Variants {
		arm := Arm{Variant: v}
		if attr := arm.Variant.Annotations.Take(trigger); attr != nil {
			templated++
			c, bindings, err := analyzeVariant(attr, v, t.Name, trigger)
			if err != nil {
				errs.Append(err)
			} else {
				arm.Template = c
				arm.Bindings = bindings
			}
		}
		arms[i] = arm
	}

	if defaultAttr != nil {
		def, err := tmpl.Parse(defaultAttr, trigger, t.Span)
		if err != nil {
			return nil, err
		}
		if err := checkNoReferences(def, attrSpan(defaultAttr, t.Span), t.Name); err != nil {
			return nil, err
		}
		if err := errs.ErrOrNil(); err != nil {
			return nil, err
		}
		return Tagged{Default: def, Arms: arms}, nil
	}

	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	if templated == 0 {
		return nil, diagnostics.New(diagnostics.MissingTemplateSet, t.Span,
			"missing `%[1]s` directive for sealed interface %[2]s\n"+
				"add a `%[1]s` directive to at least the whole interface or to all of its variants", trigger, t.Name)
	}
	var missing diagnostics.List
	for _, arm := range arms {
		if arm.Template == nil {
			missing.Append(diagnostics.New(diagnostics.IncompleteVariantTemplates, arm.Variant.Span,
				"missing `%[1]s` directive for variant %[2]s of %[3]s\n"+
					"add a `%[1]s` directive either to the whole interface (as a default) or to the remaining variants",
				trigger, arm.Variant.Name, t.Name))
		}
	}
	// returned as a list even with a single entry
	if len(missing) > 0 {
		return nil, missing
	}
	return Tagged{Arms: arms}, nil
}

func analyzeVariant(attr *annotation.Directive, v Variant, union, trigger string) (*tmpl.Compiled, []Binding, error) {
	c, err := tmpl.Parse(attr, trigger, v.Span)
	if err != nil {
		return nil, nil, err
	}
	b := binder{
		owner:  attrSpan(attr, v.Span),
		label:  "variant " + v.Name + " of " + union,
		fields: v.Fields,
	}
	if v.Shape == SingleValue {
		b.single = true
		b.convert = v.Underlying
	}
	bindings, err := b.bind(c)
	if err != nil {
		return nil, nil, err
	}
	return c, bindings, nil
}

func attrSpan(attr *annotation.Directive, owner diagnostics.Span) diagnostics.Span {
	if attr.Line > 0 {
		owner.Line = attr.Line
		owner.Column = attr.Column
	}
	return owner
}
