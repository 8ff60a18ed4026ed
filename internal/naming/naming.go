// Package naming maps model identifiers to their serialized keys.
package naming

import (
	"fmt"
	"strings"
	"unicode"
)

// Convention selects how an identifier is serialized.
type Convention string

const (
	// Inherit defers to the convention of the enclosing type.
	Inherit Convention = ""
	// Verbatim keeps the identifier as declared.
	Verbatim   Convention = "verbatim"
	CamelCase  Convention = "camelCase"
	PascalCase Convention = "PascalCase"
	Lowercase  Convention = "lowercase"
	SnakeCase  Convention = "snake_case"
	KebabCase  Convention = "kebab-case"
)

var conventions = []Convention{Inherit, Verbatim, CamelCase, PascalCase, Lowercase, SnakeCase, KebabCase}

// Parse returns the convention with the given name.
func Parse(name string) (Convention, error) {
	for _, c := range conventions {
		if string(c) == name {
			return c, nil
		}
	}
	return Inherit, fmt.Errorf("unknown naming convention %q", name)
}

func (c Convention) String() string {
	if c == Inherit {
		return "inherit"
	}
	return string(c)
}

// Apply transforms ident according to the convention.
func (c Convention) Apply(ident string) string {
	switch c {
	case CamelCase:
		words := Words(ident)
		for i, w := range words {
			if i == 0 {
				words[i] = strings.ToLower(w)
			} else {
				words[i] = upperFirst(w)
			}
		}
		return strings.Join(words, "")
	case PascalCase:
		words := Words(ident)
		for i, w := range words {
			words[i] = upperFirst(w)
		}
		return strings.Join(words, "")
	case Lowercase:
		return strings.ToLower(ident)
	case SnakeCase:
		return strings.ToLower(strings.Join(Words(ident), "_"))
	case KebabCase:
		return strings.ToLower(strings.Join(Words(ident), "-"))
	default:
		return ident
	}
}

// Key returns the serialized key of an identifier. A non-empty rename
// bypasses the convention entirely.
func Key(c Convention, ident, rename string) string {
	if rename != "" {
		return rename
	}
	return c.Apply(ident)
}

// Or returns c, or fallback when c is Inherit.
func (c Convention) Or(fallback Convention) Convention {
	if c == Inherit {
		return fallback
	}
	return c
}

// Words splits an identifier at separators and case boundaries. Runs of
// upper case letters stay together, so "HTTPServer" yields "HTTP", "Server".
func Words(s string) []string {
	var words []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		words = append(words, splitCase(part)...)
	}
	return words
}

func splitCase(s string) []string {
	runes := []rune(s)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		lowerToUpper := (unicode.IsLower(prev) || unicode.IsDigit(prev)) && unicode.IsUpper(cur)
		acronymEnd := unicode.IsUpper(prev) && unicode.IsUpper(cur) &&
			i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if lowerToUpper || acronymEnd {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	return append(words, string(runes[start:]))
}

func upperFirst(w string) string {
	if w == "" {
		return w
	}
	r := []rune(w)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
