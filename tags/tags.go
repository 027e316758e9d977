// Package tags resolves the key/value tags attached to model objects into the
// single values, flags, and configured facts the converter works with.
package tags

import (
	"log/slog"
	"strings"

	"github.com/CaliLuke/go-umlsem/model"
)

// Reserved tag keys read by the converter.
const (
	KeyIgnore      = "ignore"
	KeyName        = "name"
	KeyURI         = "uri"
	KeyPackage     = "package"
	KeyDomain      = "domain"
	KeyRange       = "range"
	KeyParentURI   = "parentURI"
	KeyBaseURI     = "baseURI"
	KeyOntologyURI = "ontologyURI"
	KeyPrefix      = "baseURIabbrev"
	KeySuffix      = "suffix"
)

// Placeholder replaces the value of a mandatory mapping whose tag is absent,
// so the gap stays visible in the output.
const Placeholder = "MISSING"

// Values returns every value of key on obj, in declaration order.
func Values(obj model.Object, key string) []string {
	var out []string
	for _, t := range obj.ObjectTags() {
		if t.Key == key {
			out = append(out, t.Value)
		}
	}
	return out
}

// Has reports whether obj carries at least one tag with key.
func Has(obj model.Object, key string) bool {
	for _, t := range obj.ObjectTags() {
		if t.Key == key {
			return true
		}
	}
	return false
}

// SingleValue returns the first value of key on obj. When the tag is absent it
// returns def, logging a warning if mandatory is set. When the tag occurs more
// than once the first value wins and a warning is logged.
func SingleValue(logger *slog.Logger, obj model.Object, key, def string, mandatory bool) string {
	values := Values(obj, key)
	switch {
	case len(values) == 0:
		if mandatory {
			loggerOrDefault(logger).Warn("missing mandatory tag, using default",
				"path", obj.Path(), "tag", key, "default", def)
		}
		return def
	case len(values) > 1:
		loggerOrDefault(logger).Warn("tag has multiple values, using the first",
			"path", obj.Path(), "tag", key, "values", values)
	}
	return values[0]
}

// Bool reports whether the first value of key reads as true.
func Bool(obj model.Object, key string) bool {
	values := Values(obj, key)
	if len(values) == 0 {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(values[0])) {
	case "true", "yes", "1":
		return true
	}
	return false
}

// Ignored reports whether obj is marked with the ignore tag.
func Ignored(obj model.Object) bool {
	return Bool(obj, KeyIgnore)
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
