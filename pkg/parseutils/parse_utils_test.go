package parseutils

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestExtractBalanced(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantInner string
		wantRest  string
		wantOk    bool
	}{
		{
			name:      "simple",
			input:     `("x")`,
			wantInner: `"x"`,
			wantOk:    true,
		},
		{
			name:      "nested with rest",
			input:     `(f(a), b) // trailing`,
			wantInner: `f(a), b`,
			wantRest:  ` // trailing`,
			wantOk:    true,
		},
		{
			name:      "parens inside strings are ignored",
			input:     `(")(", '(')`,
			wantInner: `")(", '('`,
			wantOk:    true,
		},
		{
			name:     "unbalanced",
			input:    `("x"`,
			wantRest: `("x"`,
		},
		{
			name:     "does not start with delimiter",
			input:    ` ("x")`,
			wantRest: ` ("x")`,
		},
		{
			name:     "unterminated string",
			input:    `("x)`,
			wantRest: `("x)`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)

			inner, rest, ok := ExtractBalanced(tt.input, '(', ')')
			assert.Equal(tt.wantOk, ok)
			assert.Equal(tt.wantInner, inner)
			assert.Equal(tt.wantRest, rest)
		})
	}
}

func TestSplitTopLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "empty",
			input: "  ",
			want:  nil,
		},
		{
			name:  "single",
			input: " a ",
			want:  []string{"a"},
		},
		{
			name:  "nested separators",
			input: `f(a, b), m[k], []int{1, 2}, "x, y"`,
			want:  []string{"f(a, b)", "m[k]", "[]int{1, 2}", `"x, y"`},
		},
		{
			name:  "trailing separator",
			input: "a, b,",
			want:  []string{"a", "b", ""},
		},
		{
			name:  "rune literal comma",
			input: "',', b",
			want:  []string{"','", "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTopLevel(tt.input, ','))
		})
	}
}

func TestScanStringLiteral(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValue string
		wantRest  string
		wantErr   string
	}{
		{
			name:      "interpreted",
			input:     `"a \"b\"\n", x`,
			wantValue: "a \"b\"\n",
			wantRest:  ", x",
		},
		{
			name:      "raw",
			input:     "  `a\\n{b}` 5",
			wantValue: `a\n{b}`,
			wantRest:  " 5",
		},
		{
			name:    "not a literal",
			input:   "true",
			wantErr: "expected string literal",
		},
		{
			name:    "empty",
			input:   "",
			wantErr: "expected string literal",
		},
		{
			name:    "unterminated",
			input:   `"abc`,
			wantErr: "unterminated string literal: expected string literal",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)

			value, rest, err := ScanStringLiteral(tt.input)
			if tt.wantErr != "" {
				if assert.Error(err) {
					assert.Equal(tt.wantErr, err.Error())
					assert.True(errors.Is(err, ErrNotStringLiteral))
				}
				return
			}
			if assert.NoError(err) {
				assert.Equal(tt.wantValue, value)
				assert.Equal(tt.wantRest, rest)
			}
		})
	}
}
