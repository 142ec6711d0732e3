// Package golang reads Go source files into the type descriptions displaygen derives from.
package golang

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"

	"github.com/klothoplatform/displaygen/pkg/diagnostics"
	"github.com/klothoplatform/displaygen/pkg/logging"
	"github.com/klothoplatform/displaygen/pkg/query"
	"github.com/klothoplatform/displaygen/pkg/shape"
)

type File struct {
	Path    string
	Package string
	// BuildConstraint is the `//go:build` line of the file, if any.
	BuildConstraint string
	Imports         []Import
	// Types holds every top-level type declaration in source order. Sealed interfaces have their variants resolved
	// among the types of the same file.
	Types []*shape.TypeDescription
}

// Type returns the declaration named name, or nil.
func (f *File) Type(name string) *shape.TypeDescription {
	for _, t := range f.Types {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// UnionsOf returns the sealed interfaces of the file that name is a variant of.
func (f *File) UnionsOf(name string) []*shape.TypeDescription {
	var unions []*shape.TypeDescription
	for _, t := range f.Types {
		for _, v := range t.Variants {
			if v.Name == name {
				unions = append(unions, t)
				break
			}
		}
	}
	return unions
}

// ParseFile parses the Go source src, read from path. Source that does not parse cleanly is reported as a
// [diagnostics.InvalidSource] at the first syntax error.
func ParseFile(ctx context.Context, path string, src []byte) (*File, error) {
	log := logging.GetLogger(ctx).Named("lang.go")

	parser := sitter.NewParser()
	parser.SetLanguage(language)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse %s", path)
	}
	root := tree.RootNode()
	if root.HasError() {
		bad := firstError(root)
		log.Debug("syntax error", logging.NodeField(bad))
		return nil, diagnostics.New(diagnostics.InvalidSource, spanOf(path, bad, ""), "syntax error in %s", path)
	}

	p := &fileParser{
		path:       path,
		src:        src,
		underlying: make(map[string]string),
	}
	f := &File{
		Path:            path,
		Package:         p.packageName(root),
		BuildConstraint: p.buildConstraint(root),
		Imports:         importsIn(root, src),
	}

	for _, spec := range query.Collect(query.Select(doQuery(root, findTypeSpecs), query.ParamNamed("spec"))) {
		f.Types = append(f.Types, p.typeDescription(spec))
	}

	markers := p.markerMethods(root)
	for _, t := range f.Types {
		if !t.IsSealed() {
			continue
		}
		t.Variants = p.variants(t, f.Types, markers[t.Marker])
		log.Debug("resolved sealed interface",
			logging.TypeField(t.Name), zap.Int("variants", len(t.Variants)))
	}
	return f, nil
}

type (
	fileParser struct {
		path string
		src  []byte
		// underlying maps each defined non-struct type to the type expression it is declared with.
		underlying map[string]string
	}

	receiver struct {
		Pointer  bool
		TypeArgs string
	}
)

func (p *fileParser) content(n *sitter.Node) string {
	return query.Content(n, p.src)
}

func spanOf(path string, n *sitter.Node, label string) diagnostics.Span {
	start := n.StartPoint()
	return diagnostics.Span{File: path, Line: int(start.Row) + 1, Column: int(start.Column) + 1, Label: label}
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.HasError() || c.IsMissing() {
			return firstError(c)
		}
	}
	return n
}

func (p *fileParser) packageName(root *sitter.Node) string {
	clause := query.FirstChildOfType(root, "package_clause")
	if clause == nil {
		return ""
	}
	return p.content(query.FirstChildOfType(clause, "package_identifier"))
}

// buildConstraint finds the `//go:build` line among the comments before the package clause.
func (p *fileParser) buildConstraint(root *sitter.Node) string {
	for i := 0; i < int(root.ChildCount()); i++ {
		c := root.Child(i)
		if c.Type() != "comment" {
			break
		}
		if text := strings.TrimSpace(p.content(c)); strings.HasPrefix(text, "//go:build ") {
			return text
		}
	}
	return ""
}

func (p *fileParser) typeDescription(spec *sitter.Node) *shape.TypeDescription {
	name := p.content(spec.ChildByFieldName("name"))
	t := &shape.TypeDescription{
		Name:        name,
		Span:        spanOf(p.path, spec.ChildByFieldName("name"), name),
		Annotations: directivesOf(docComments(docAnchor(spec)), p.src),
	}
	typ := spec.ChildByFieldName("type")

	if spec.Type() == "type_alias" {
		t.Kind = shape.Other
		t.Description = "an alias"
		return t
	}

	if params := spec.ChildByFieldName("type_parameters"); params != nil {
		t.TypeParams = p.typeParams(params)
	}

	switch typ.Type() {
	case "struct_type":
		t.Kind = shape.Struct
		t.Fields = p.fields(typ)

	case "interface_type":
		t.Kind = shape.Interface
		t.Marker = p.marker(typ)

	default:
		underlying := p.content(typ)
		p.underlying[name] = underlying
		t.Kind = shape.Other
		t.Description = "a defined " + underlying + " type"
	}
	return t
}

// typeParams reads a type parameter list such as `[K comparable, V any]`.
func (p *fileParser) typeParams(list *sitter.Node) shape.TypeParams {
	var params shape.TypeParams
	for _, decl := range query.NamedChildren(list) {
		switch decl.Type() {
		case "parameter_declaration", "type_parameter_declaration":
		default:
			continue
		}
		constraint := decl.ChildByFieldName("type")
		for i := 0; i < int(decl.ChildCount()); i++ {
			c := decl.Child(i)
			if query.SameNode(c, constraint) {
				break
			}
			if c.Type() == "identifier" {
				params = append(params, shape.TypeParam{Name: p.content(c), Constraint: query.ContentOrEmpty(constraint, p.src)})
			}
		}
	}
	return params
}

func (p *fileParser) fields(structType *sitter.Node) []shape.Field {
	list := query.FirstChildOfType(structType, "field_declaration_list")
	if list == nil {
		return nil
	}
	var fields []shape.Field
	for _, decl := range query.ChildrenOfType(list, "field_declaration") {
		typ := decl.ChildByFieldName("type")
		names := query.ChildrenOfType(decl, "field_identifier")
		if len(names) == 0 {
			typeText := p.content(typ)
			if query.FirstChildOfType(decl, "*") != nil {
				typeText = "*" + typeText
			}
			fields = append(fields, shape.Field{Name: p.embeddedName(typ), Type: typeText, Embedded: true})
			continue
		}
		for _, n := range names {
			fields = append(fields, shape.Field{Name: p.content(n), Type: p.content(typ)})
		}
	}
	return fields
}

// embeddedName is the selector of an embedded field: the unqualified type name, without type arguments.
func (p *fileParser) embeddedName(typ *sitter.Node) string {
	for {
		switch typ.Type() {
		case "pointer_type":
			typ = typ.NamedChild(0)
		case "qualified_type":
			typ = typ.ChildByFieldName("name")
		case "generic_type":
			typ = typ.ChildByFieldName("type")
		default:
			return p.content(typ)
		}
	}
}

// marker returns the first method of the interface that takes no parameters and returns nothing.
func (p *fileParser) marker(iface *sitter.Node) string {
	for _, m := range query.NamedChildren(iface) {
		switch m.Type() {
		case "method_spec", "method_elem":
		default:
			continue
		}
		params := m.ChildByFieldName("parameters")
		if params != nil && params.NamedChildCount() == 0 && m.ChildByFieldName("result") == nil {
			return p.content(m.ChildByFieldName("name"))
		}
	}
	return ""
}

// markerMethods indexes every method without parameters or results by method name, then by receiver type name.
func (p *fileParser) markerMethods(root *sitter.Node) map[string]map[string]receiver {
	methods := query.SelectIf(
		doQuery(root, findMethods),
		query.Matches,
		query.AllOf[query.MatchNodes]{
			query.Param{Named: "params", Matches: query.NoNamedChildren{}},
			query.Absent("result"),
		},
	)

	markers := make(map[string]map[string]receiver)
	for {
		match, found := methods()
		if !found {
			break
		}
		typeName, recv := p.receiver(match["receiver"])
		if typeName == "" {
			continue
		}
		name := p.content(match["name"])
		if markers[name] == nil {
			markers[name] = make(map[string]receiver)
		}
		markers[name][typeName] = recv
	}
	return markers
}

func (p *fileParser) receiver(typ *sitter.Node) (string, receiver) {
	var recv receiver
	if typ.Type() == "pointer_type" {
		recv.Pointer = true
		typ = typ.NamedChild(0)
	}
	if typ.Type() == "generic_type" {
		recv.TypeArgs = query.ContentOrEmpty(typ.ChildByFieldName("type_arguments"), p.src)
		typ = typ.ChildByFieldName("type")
	}
	if typ == nil || typ.Type() != "type_identifier" {
		return "", recv
	}
	return p.content(typ), recv
}

// variants lists the types of the file implementing the marker of union, in declaration order.
func (p *fileParser) variants(union *shape.TypeDescription, types []*shape.TypeDescription, implementors map[string]receiver) []shape.Variant {
	var variants []shape.Variant
	for _, t := range types {
		recv, ok := implementors[t.Name]
		if !ok || t == union {
			continue
		}
		v := shape.Variant{
			Name:        t.Name,
			Span:        t.Span,
			Annotations: t.Annotations.Clone(),
			Pointer:     recv.Pointer,
			TypeArgs:    recv.TypeArgs,
		}
		switch {
		case t.Kind == shape.Struct:
			v.Fields = append([]shape.Field(nil), t.Fields...)
			v.Shape = shape.NamedFields
			if len(v.Fields) == 0 {
				v.Shape = shape.NoFields
			}

		case p.underlying[t.Name] != "":
			v.Shape = shape.SingleValue
			v.Underlying = p.underlying[t.Name]

		default:
			zap.L().Named("lang.go").Debug("skipping marker implementor",
				logging.TypeField(t.Name), zap.String("union", union.Name), logging.SpanField(t.Span))
			continue
		}
		variants = append(variants, v)
	}
	return variants
}
