package identity

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// splitWords splits a name on whitespace.
func splitWords(name string) []string {
	return strings.FieldsFunc(name, unicode.IsSpace)
}

// ToLowerCamel turns a possibly multi-word name into lowerCamelCase: every
// word after the first gets an upper-case initial, whitespace is dropped, and
// the first rune is lower-cased. The rest of each word keeps its casing.
func ToLowerCamel(name string) string {
	words := splitWords(name)
	if len(words) == 0 {
		return ""
	}
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	b.WriteString(words[0])
	for _, w := range words[1:] {
		b.WriteString(title.String(w))
	}
	return lowerFirst(b.String())
}

// lowerFirst lower-cases the first rune of s.
func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// trimSeparator drops one trailing '#' or '/' from a namespace IRI.
func trimSeparator(ns string) string {
	if strings.HasSuffix(ns, "#") || strings.HasSuffix(ns, "/") {
		return ns[:len(ns)-1]
	}
	return ns
}
