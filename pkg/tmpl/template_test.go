package tmpl

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func named(name, verb string) Arg {
	return Arg{Kind: Named, Name: name, Verb: verb}
}

func positional(index int) Arg {
	return Arg{Kind: Positional, Index: index, Verb: "%v"}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name       string
		literal    string
		explicit   []string
		wantFormat string
		wantArgs   []Arg
	}{
		{
			name:       "no placeholders",
			literal:    "unit struct",
			wantFormat: "unit struct",
		},
		{
			name:       "named with debug spec",
			literal:    "{inner:?} has {length} characters and is ascii={is_ascii}",
			wantFormat: "%#v has %v characters and is ascii=%v",
			wantArgs: []Arg{
				named("inner", "%#v"),
				named("length", "%v"),
				named("is_ascii", "%v"),
			},
		},
		{
			name:       "positional in occurrence order",
			literal:    "point {2} units in front of the origin, and with x and y coords ({0}, {1})",
			wantFormat: "point %v units in front of the origin, and with x and y coords (%v, %v)",
			wantArgs:   []Arg{positional(2), positional(0), positional(1)},
		},
		{
			name:       "escapes and percent",
			literal:    "{{literal}} 100% {x}",
			wantFormat: "{literal} 100%% %v",
			wantArgs:   []Arg{named("x", "%v")},
		},
		{
			name:       "format specs",
			literal:    "{n:08.3f} {b:x} {w:5} {s:q} {d:#?} {e:-4?}",
			wantFormat: "%08.3f %x %5v %q %#v %#-4v",
			wantArgs: []Arg{
				named("n", "%08.3f"),
				named("b", "%x"),
				named("w", "%5v"),
				named("s", "%q"),
				named("d", "%#v"),
				named("e", "%#-4v"),
			},
		},
		{
			name:       "malformed braces are text",
			literal:    "{x:} { y} {1a} {",
			wantFormat: "{x:} { y} {1a} {",
		},
		{
			name:       "unicode identifier",
			literal:    "size {größe}",
			wantFormat: "size %v",
			wantArgs:   []Arg{named("größe", "%v")},
		},
		{
			name:       "explicit slots take trailing arguments in order",
			literal:    "{} of {Total} after {:q}",
			explicit:   []string{"len(e.Items)", `strings.Join(e.Tags, ",")`},
			wantFormat: "%v of %v after %q",
			wantArgs: []Arg{
				{Kind: Explicit, Expr: "len(e.Items)", Verb: "%v"},
				named("Total", "%v"),
				{Kind: Explicit, Expr: `strings.Join(e.Tags, ",")`, Verb: "%q"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)

			got, err := Compile(tt.literal, tt.explicit)
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tt.literal, got.Source)
			assert.Equal(tt.wantFormat, got.Format)
			assert.Equal(tt.wantArgs, got.Args)
		})
	}
}

func TestCompile_Renders(t *testing.T) {
	tests := []struct {
		name    string
		literal string
		values  []any
		want    string
	}{
		{
			name:    "named fields",
			literal: "{inner:?} has {length} characters and is ascii={is_ascii}",
			values:  []any{"hello", 5, true},
			want:    `"hello" has 5 characters and is ascii=true`,
		},
		{
			name:    "positional fields",
			literal: "tuple struct: point {2} units in front of the origin, and with x and y coords ({0}, {1})",
			// arguments are supplied in placeholder order: index 2 first, then 0 and 1
			values: []any{15, 5, 10},
			want:   "tuple struct: point 15 units in front of the origin, and with x and y coords (5, 10)",
		},
		{
			name:    "percent survives",
			literal: "{{progress}} {pct}% done",
			values:  []any{50},
			want:    "{progress} 50% done",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Compile(tt.literal, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fmt.Sprintf(c.Format, tt.values...))
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name     string
		literal  string
		explicit []string
		wantErr  string
	}{
		{
			name:    "slot without argument",
			literal: "{} things",
			wantErr: "template has 1 `{}` placeholder(s) but 0 trailing argument(s)",
		},
		{
			name:     "argument without slot",
			literal:  "{x} things",
			explicit: []string{"a"},
			wantErr:  "template has 0 `{}` placeholder(s) but 1 trailing argument(s)",
		},
		{
			name:    "index overflows",
			literal: "{99999999999999999999999}",
			wantErr: "positional reference {99999999999999999999999} is out of range",
		},
		{
			name:    "alignment spec",
			literal: "{n:>5}",
			wantErr: "unsupported format spec `>5` in {n:>5}, expected fmt flags, width and precision followed by a " +
				"verb letter or `?`, as in {n:08.3f} or {n:?}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.literal, tt.explicit)
			if assert.Error(t, err) {
				assert.Equal(t, tt.wantErr, err.Error())
			}
		})
	}
}

func TestVerbFor(t *testing.T) {
	tests := []struct {
		spec   string
		want   string
		wantOK bool
	}{
		{spec: "", want: "%v", wantOK: true},
		{spec: "5", want: "%5v", wantOK: true},
		{spec: "08.3f", want: "%08.3f", wantOK: true},
		{spec: "x", want: "%x", wantOK: true},
		{spec: "+.2e", want: "%+.2e", wantOK: true},
		{spec: "?", want: "%#v", wantOK: true},
		{spec: "#?", want: "%#v", wantOK: true},
		{spec: "-4?", want: "%#-4v", wantOK: true},
		{spec: ">5"},
		{spec: "x?"},
		{spec: "^10"},
		{spec: "5$"},
		{spec: "*"},
		{spec: "ll"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, ok := verbFor(tt.spec)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompile_RejectsSpecsFmtCannotExpress(t *testing.T) {
	for _, literal := range []string{"{n:>5}", "{n:x?}", "{0:<3}"} {
		_, err := Compile(literal, nil)
		var specErr *SpecError
		assert.ErrorAs(t, err, &specErr, literal)
	}
}

func TestCompiled_Text(t *testing.T) {
	c, err := Compile("100% {{sure}}", nil)
	require.NoError(t, err)
	assert.Equal(t, "100% {sure}", c.Text())
}

func TestCompiled_References(t *testing.T) {
	c, err := Compile("{a} {} {1}", []string{"x"})
	require.NoError(t, err)
	refs := c.References()
	if assert.Len(t, refs, 2) {
		assert.Equal(t, "a", refs[0].Ref())
		assert.Equal(t, "1", refs[1].Ref())
	}
}

// Every placeholder yields exactly one argument, in left-to-right order, and the compiled format renders the literal
// text around the arguments unchanged.
func TestProperty_ArgumentsFollowPlaceholders(t *testing.T) {
	texts := []string{"", "a", " ", "100%", "x=", "(", ")", ",", "%v", "{{", "}}", "ünï"}
	names := []string{"a", "host", "Port", "is_ascii", "_x", "field9"}
	specs := []string{"", "?", "#?"}

	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 8).Draw(rt, "placeholders")

		literal := new(strings.Builder)
		want := new(strings.Builder)
		var wantRefs []string
		var values []any
		for i := 0; i <= n; i++ {
			text := rapid.SampledFrom(texts).Draw(rt, "text")
			literal.WriteString(text)
			want.WriteString(strings.NewReplacer("{{", "{", "}}", "}").Replace(text))
			if i == n {
				break
			}

			var ref string
			if rapid.Bool().Draw(rt, "positional") {
				ref = strconv.Itoa(rapid.IntRange(0, 20).Draw(rt, "index"))
			} else {
				ref = rapid.SampledFrom(names).Draw(rt, "name")
			}
			spec := rapid.SampledFrom(specs).Draw(rt, "spec")
			if spec != "" {
				spec = ":" + spec
			}
			fmt.Fprintf(literal, "{%s%s}", ref, spec)
			wantRefs = append(wantRefs, ref)

			value := rapid.IntRange(-1000, 1000).Draw(rt, "value")
			values = append(values, value)
			fmt.Fprint(want, value)
		}

		c, err := Compile(literal.String(), nil)
		if err != nil {
			rt.Fatalf("compile %q: %v", literal.String(), err)
		}
		if len(c.Args) != n {
			rt.Fatalf("compile %q: got %d args, want %d", literal.String(), len(c.Args), n)
		}
		for i, a := range c.Args {
			if a.Ref() != wantRefs[i] {
				rt.Fatalf("arg %d: got ref %q, want %q", i, a.Ref(), wantRefs[i])
			}
		}
		if got := fmt.Sprintf(c.Format, values...); got != want.String() {
			rt.Fatalf("render %q: got %q, want %q", c.Format, got, want.String())
		}
	})
}
