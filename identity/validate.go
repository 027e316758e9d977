package identity

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// illegalIRIChars are characters RFC 3987 excludes from IRIs outright.
const illegalIRIChars = " \t\r\n<>\"{}|\\^`"

// ValidIRI reports whether s is an absolute IRI usable as a term identifier.
func ValidIRI(s string) bool {
	if s == "" || strings.ContainsAny(s, illegalIRIChars) {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

// ValidPropertyIRI reports whether s is a valid IRI whose local part can name
// a property: non-empty and starting with a letter or underscore.
func ValidPropertyIRI(s string) bool {
	if !ValidIRI(s) {
		return false
	}
	local := LocalPart(s)
	r, _ := utf8.DecodeRuneInString(local)
	if r == utf8.RuneError {
		return false
	}
	return r == '_' || unicode.IsLetter(r)
}

// LocalPart returns the text after the last '#', '/', or ':' of iri.
func LocalPart(iri string) string {
	i := strings.LastIndexAny(iri, "#/:")
	if i < 0 {
		return iri
	}
	return iri[i+1:]
}
