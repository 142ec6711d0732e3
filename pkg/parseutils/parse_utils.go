package parseutils

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var closers = map[byte]byte{
	'(': ')',
	'[': ']',
	'{': '}',
}

// skipQuoted returns the index just past the Go string or rune literal starting at s[i], or -1 if it is unterminated.
func skipQuoted(s string, i int) int {
	quote := s[i]
	for j := i + 1; j < len(s); j++ {
		switch {
		case s[j] == '\\' && quote != '`':
			j++
		case s[j] == quote:
			return j + 1
		}
	}
	return -1
}

// ExtractBalanced returns the contents between the opening delimiter at the start of input and its matching closing
// delimiter, along with whatever follows it. Delimiters inside Go string and rune literals are ignored.
func ExtractBalanced(input string, open, close byte) (inner string, rest string, ok bool) {
	if len(input) == 0 || input[0] != open {
		return "", input, false
	}
	depth := 0
	for i := 0; i < len(input); i++ {
		switch c := input[i]; c {
		case '"', '\'', '`':
			end := skipQuoted(input, i)
			if end < 0 {
				return "", input, false
			}
			i = end - 1
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return input[1:i], input[i+1:], true
			}
		}
	}
	return "", input, false
}

// SplitTopLevel splits input on sep wherever sep is not nested inside brackets or literals. Pieces are trimmed of
// surrounding whitespace. An empty input yields no pieces.
func SplitTopLevel(input string, sep byte) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	var pieces []string
	var stack []byte
	start := 0
	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case c == '"' || c == '\'' || c == '`':
			if end := skipQuoted(input, i); end > 0 {
				i = end - 1
			} else {
				i = len(input) - 1
			}
		case closers[c] != 0:
			stack = append(stack, closers[c])
		case len(stack) > 0 && c == stack[len(stack)-1]:
			stack = stack[:len(stack)-1]
		case c == sep && len(stack) == 0:
			pieces = append(pieces, strings.TrimSpace(input[start:i]))
			start = i + 1
		}
	}
	return append(pieces, strings.TrimSpace(input[start:]))
}

// ErrNotStringLiteral is returned by ScanStringLiteral when the input does not start with a string literal.
var ErrNotStringLiteral = errors.New("expected string literal")

// ScanStringLiteral reads the interpreted ("...") or raw (`...`) Go string literal at the start of input (after
// leading whitespace) and returns its value and the remaining input.
func ScanStringLiteral(input string) (value string, rest string, err error) {
	trimmed := strings.TrimLeft(input, " \t")
	if trimmed == "" || (trimmed[0] != '"' && trimmed[0] != '`') {
		return "", input, ErrNotStringLiteral
	}
	end := skipQuoted(trimmed, 0)
	if end < 0 {
		return "", input, errors.Wrap(ErrNotStringLiteral, "unterminated string literal")
	}
	value, err = strconv.Unquote(trimmed[:end])
	if err != nil {
		return "", input, errors.Wrapf(ErrNotStringLiteral, "invalid string literal %s", trimmed[:end])
	}
	return value, trimmed[end:], nil
}
