package tags

import (
	"log/slog"

	"github.com/CaliLuke/go-umlsem/model"
)

// Mapping ties a tag key to the predicate its value is published under.
type Mapping struct {
	// Tag is the tag key read from the model object.
	Tag string `toml:"tag" yaml:"tag"`
	// Predicate is the IRI the value is emitted under.
	Predicate string `toml:"predicate" yaml:"predicate"`
	// Mandatory makes an absent tag produce Placeholder instead of nothing.
	Mandatory bool `toml:"mandatory" yaml:"mandatory"`
	// Language is the language of the literal, empty for plain literals.
	Language string `toml:"language" yaml:"language"`
}

// Fact is one configured literal resolved for a model object.
type Fact struct {
	Tag       string
	Predicate string
	Value     string
	Language  string
}

// Facts resolves mappings against obj in mapping order. A mandatory mapping
// whose tag is absent yields Placeholder; an optional one is left out.
func Facts(logger *slog.Logger, obj model.Object, mappings []Mapping) []Fact {
	var out []Fact
	for _, m := range mappings {
		if !Has(obj, m.Tag) {
			if !m.Mandatory {
				continue
			}
			loggerOrDefault(logger).Warn("missing mandatory tag, emitting placeholder",
				"path", obj.Path(), "tag", m.Tag, "predicate", m.Predicate)
			out = append(out, Fact{Tag: m.Tag, Predicate: m.Predicate, Value: Placeholder, Language: m.Language})
			continue
		}
		out = append(out, Fact{
			Tag:       m.Tag,
			Predicate: m.Predicate,
			Value:     SingleValue(logger, obj, m.Tag, "", m.Mandatory),
			Language:  m.Language,
		})
	}
	return out
}
