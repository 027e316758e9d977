// Package config loads converter settings: the tag-to-predicate mappings used
// for each scope and the options of the identity and conversion passes.
//
// Files are TOML or YAML, chosen by extension. Keys left out of a file keep
// the values of Default.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/CaliLuke/go-umlsem/convert"
	"github.com/CaliLuke/go-umlsem/identity"
	"github.com/CaliLuke/go-umlsem/relnorm"
	"github.com/CaliLuke/go-umlsem/tags"
)

// Predicates used by the default mappings.
const (
	RDFSLabel      = "http://www.w3.org/2000/01/rdf-schema#label"
	SKOSDefinition = "http://www.w3.org/2004/02/skos/core#definition"
	VANNUsageNote  = "http://purl.org/vocab/vann/usageNote"
)

// Config holds every converter setting.
type Config struct {
	// DefaultBaseURI is the namespace of packages without a baseURI tag.
	DefaultBaseURI string `toml:"default_base_uri" yaml:"default_base_uri"`
	// AnchorPolicy is "split", "synthesize", or "ignore".
	AnchorPolicy string `toml:"anchor_policy" yaml:"anchor_policy"`
	// StrictRangeOverride applies relationship range tags to the range
	// instead of the domain.
	StrictRangeOverride bool `toml:"strict_range_override" yaml:"strict_range_override"`
	// Internal mappings are used for full definitions.
	Internal []tags.Mapping `toml:"internal" yaml:"internal"`
	// External mappings are used for translations.
	External []tags.Mapping `toml:"external" yaml:"external"`
}

// Default returns the built-in configuration: label, definition, and usage
// note mappings in Dutch, English, and without language, the Dutch label
// being mandatory. External mappings read the same tags prefixed "ap-".
func Default() *Config {
	return &Config{
		DefaultBaseURI: identity.DefaultBaseURI,
		AnchorPolicy:   relnorm.PolicySplit.String(),
		Internal:       defaultMappings(""),
		External:       defaultMappings("ap-"),
	}
}

func defaultMappings(prefix string) []tags.Mapping {
	concepts := []struct {
		tag       string
		predicate string
	}{
		{"label", RDFSLabel},
		{"definition", SKOSDefinition},
		{"usage", VANNUsageNote},
	}
	var out []tags.Mapping
	for _, c := range concepts {
		key := prefix + c.tag
		out = append(out,
			tags.Mapping{Tag: key + "-nl", Predicate: c.predicate, Language: "nl", Mandatory: c.tag == "label"},
			tags.Mapping{Tag: key + "-en", Predicate: c.predicate, Language: "en"},
			tags.Mapping{Tag: key, Predicate: c.predicate},
		)
	}
	return out
}

// Load reads a TOML (.toml) or YAML (.yaml, .yml) file over Default and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		// toml decodes array tables into the existing slice elements, so
		// the default mappings are restored only for sets the file omits.
		internal, external := cfg.Internal, cfg.External
		cfg.Internal, cfg.External = nil, nil
		meta, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
		}
		if !meta.IsDefined("internal") {
			cfg.Internal = internal
		}
		if !meta.IsDefined("external") {
			cfg.External = external
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported config format %q", path, ext)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the options and every mapping, and canonicalizes mapping
// language tags.
func (c *Config) Validate() error {
	if _, ok := relnorm.ParsePolicy(c.AnchorPolicy); !ok {
		return fmt.Errorf("unknown anchor policy %q", c.AnchorPolicy)
	}
	if c.DefaultBaseURI != "" && !identity.ValidIRI(c.DefaultBaseURI) {
		return fmt.Errorf("default base URI %q is not an absolute IRI", c.DefaultBaseURI)
	}
	if err := validateMappings("internal", c.Internal); err != nil {
		return err
	}
	return validateMappings("external", c.External)
}

func validateMappings(set string, mappings []tags.Mapping) error {
	for i := range mappings {
		m := &mappings[i]
		switch {
		case m.Tag == "":
			return &MappingError{Set: set, Index: i, Reason: "empty tag"}
		case !identity.ValidIRI(m.Predicate):
			return &MappingError{Set: set, Index: i, Tag: m.Tag, Reason: fmt.Sprintf("predicate %q is not an absolute IRI", m.Predicate)}
		}
		if m.Language == "" {
			continue
		}
		lang, err := language.Parse(m.Language)
		if err != nil {
			return &MappingError{Set: set, Index: i, Tag: m.Tag, Reason: "invalid language", Err: err}
		}
		m.Language = lang.String()
	}
	return nil
}

// Policy returns the parsed anchor policy.
func (c *Config) Policy() relnorm.Policy {
	p, _ := relnorm.ParsePolicy(c.AnchorPolicy)
	return p
}

// IdentityOptions returns the identity pass options for c.
func (c *Config) IdentityOptions(logger *slog.Logger) identity.Options {
	return identity.Options{
		Logger:         logger,
		DefaultBaseURI: c.DefaultBaseURI,
		AnchorPolicy:   c.Policy(),
	}
}

// ConvertOptions returns the conversion options for c.
func (c *Config) ConvertOptions(logger *slog.Logger) convert.Options {
	return convert.Options{
		Logger:              logger,
		Internal:            c.Internal,
		External:            c.External,
		AnchorPolicy:        c.Policy(),
		StrictRangeOverride: c.StrictRangeOverride,
	}
}
