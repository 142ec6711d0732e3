package tmpl

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type placeholder struct {
	start, end int
	ref        string
	spec       string
}

// nextPlaceholder finds the leftmost `{ref[:spec]}` span in s. `{{` and `}}` escapes are skipped, and a `{` that does
// not open a well-formed placeholder is ordinary text.
func nextPlaceholder(s string) (placeholder, bool) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				i++
				continue
			}
			if p, ok := placeholderAt(s, i); ok {
				return p, true
			}
		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				i++
			}
		}
	}
	return placeholder{}, false
}

func placeholderAt(s string, start int) (placeholder, bool) {
	j := start + 1
	ref := scanRef(s[j:])
	j += len(ref)
	if j >= len(s) {
		return placeholder{}, false
	}
	p := placeholder{start: start, ref: ref}
	switch s[j] {
	case '}':
		p.end = j + 1
		return p, true

	case ':':
		close := strings.IndexByte(s[j+1:], '}')
		// the spec must be at least one character long
		if close < 1 {
			return placeholder{}, false
		}
		p.spec = s[j+1 : j+1+close]
		p.end = j + 1 + close + 1
		return p, true
	}
	return placeholder{}, false
}

// scanRef returns the longest prefix of s that is either all digits or an identifier. It may be empty.
func scanRef(s string) string {
	if s == "" {
		return ""
	}
	first, _ := utf8.DecodeRuneInString(s)
	digitsOnly := unicode.IsDigit(first)
	if !digitsOnly && !isIdentStart(first) {
		return ""
	}
	end := 0
	for end < len(s) {
		r, size := utf8.DecodeRuneInString(s[end:])
		if digitsOnly && !('0' <= r && r <= '9') {
			break
		}
		if !digitsOnly && !isIdentStart(r) && !unicode.IsDigit(r) {
			break
		}
		end += size
	}
	return s[:end]
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// escapeText turns template text into Go format-string text: brace escapes collapse and `%` is doubled.
func escapeText(s string) string {
	r := strings.NewReplacer("{{", "{", "}}", "}", "%", "%%")
	return r.Replace(s)
}

const verbLetters = "vTtbcdoOqxXUeEfFgGsp"

// verbFor maps a placeholder spec to a fmt verb. A spec is fmt flags, width and precision followed by either a verb
// letter, the debug marker `?` (the `#v` form) or nothing (`v`). Reports false for anything else, such as `>5` or `x?`.
func verbFor(spec string) (string, bool) {
	if spec == "" {
		return "%v", true
	}
	body, debug := strings.CutSuffix(spec, "?")
	verb := "v"
	if !debug && strings.ContainsRune(verbLetters, rune(body[len(body)-1])) {
		verb = body[len(body)-1:]
		body = body[:len(body)-1]
	}
	if !isFlagsWidthPrecision(body) {
		return "", false
	}
	if debug {
		return "%#" + strings.ReplaceAll(body, "#", "") + "v", true
	}
	return "%" + body + verb, true
}

// isFlagsWidthPrecision matches `[+-# 0]*[0-9]*(\.[0-9]*)?`.
func isFlagsWidthPrecision(s string) bool {
	i := 0
	for i < len(s) && strings.IndexByte("+-# 0", s[i]) >= 0 {
		i++
	}
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	return i == len(s)
}
