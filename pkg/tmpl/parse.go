package tmpl

import (
	"errors"
	"strings"

	"github.com/klothoplatform/displaygen/pkg/annotation"
	"github.com/klothoplatform/displaygen/pkg/diagnostics"
	"github.com/klothoplatform/displaygen/pkg/parseutils"
)

// Parse compiles the template carried by a directive named trigger. Failures are returned as a
// [*diagnostics.Diagnostic] located at the directive, labelled with the owning element.
func Parse(d *annotation.Directive, trigger string, owner diagnostics.Span) (*Compiled, error) {
	span := owner
	if d.Line > 0 {
		span.Line = d.Line
		span.Column = d.Column
	}

	if d.Form != annotation.CallForm {
		return nil, diagnostics.New(diagnostics.MalformedAttributeForm, span,
			"expected `%s` to be a call directive: `//%s(\"template...\")`", trigger, trigger)
	}

	args := strings.TrimSpace(d.Args)
	if args == "" {
		return nil, diagnostics.New(diagnostics.EmptyTemplateLiteral, span,
			"unexpected empty `%s` directive, expected string literal", trigger)
	}

	literal, rest, err := parseutils.ScanStringLiteral(args)
	if err != nil {
		return nil, diagnostics.New(diagnostics.ExpectedStringLiteral, span, "%s", err.Error())
	}

	explicit, err := trailingArguments(rest)
	if err != nil {
		return nil, diagnostics.New(diagnostics.UnexpectedTrailingToken, span, "%s", err.Error())
	}

	compiled, err := Compile(literal, explicit)
	if err != nil {
		var rangeErr *RangeError
		var specErr *SpecError
		kind := diagnostics.MismatchedExplicitArguments
		switch {
		case errors.As(err, &rangeErr):
			kind = diagnostics.UnknownFieldReference
		case errors.As(err, &specErr):
			kind = diagnostics.InvalidFormatSpec
		}
		return nil, diagnostics.New(kind, span, "%s", err.Error())
	}
	return compiled, nil
}

var (
	errTrailingToken   = errors.New("unexpected token after string literal")
	errMissingArgument = errors.New("expected expression after `,`")
)

// trailingArguments splits whatever follows the literal into argument expressions. A single trailing comma is allowed.
func trailingArguments(rest string) ([]string, error) {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return nil, nil
	}
	if rest[0] != ',' {
		return nil, errTrailingToken
	}
	exprs := parseutils.SplitTopLevel(rest[1:], ',')
	if n := len(exprs); n > 0 && exprs[n-1] == "" {
		exprs = exprs[:n-1]
	}
	for _, e := range exprs {
		if e == "" {
			return nil, errMissingArgument
		}
	}
	return exprs, nil
}
