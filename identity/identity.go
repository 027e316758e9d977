// Package identity mints a stable IRI for every package, element, attribute,
// and relationship of a model and reports IRI collisions.
//
// Assignment runs in fixed stages. Relationship IRIs may name any package as
// their defining package, so every package namespace must be known before
// relationships are processed:
//
//	NotStarted -> PackagesAssigned -> ElementsAssigned -> RelationshipsAssigned -> Complete
//
// Results are kept in a Table keyed by model object; the model graph itself is
// never modified.
package identity

import (
	"log/slog"

	"github.com/CaliLuke/go-umlsem/model"
	"github.com/CaliLuke/go-umlsem/relnorm"
	"github.com/CaliLuke/go-umlsem/tags"
)

// DefaultBaseURI is the namespace used for packages without a baseURI tag.
const DefaultBaseURI = "http://fixme.com#"

// Stage is the progress of an Assigner.
type Stage int

const (
	NotStarted Stage = iota
	PackagesAssigned
	ElementsAssigned
	RelationshipsAssigned
	Complete
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case PackagesAssigned:
		return "packages-assigned"
	case ElementsAssigned:
		return "elements-assigned"
	case RelationshipsAssigned:
		return "relationships-assigned"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Namespace holds the IRIs minted for a package.
type Namespace struct {
	// IRI is the term namespace, ending in its separator.
	IRI string `msgpack:"iri"`
	// Ontology is the IRI of the ontology resource itself.
	Ontology string `msgpack:"ontology"`
	// Prefix is the preferred prefix, empty when not configured.
	Prefix string `msgpack:"prefix,omitempty"`
}

// Term is the identity minted for an element, attribute, or relationship.
type Term struct {
	IRI string
	// LocalName is the computed display name: the part appended to the
	// namespace, or the local part of a custom IRI.
	LocalName string
	// Package is the defining package. It may be nil for relationships with a
	// custom IRI whose owner could not be determined.
	Package *model.Package
	// Custom is set when the IRI came verbatim from a uri tag.
	Custom bool
}

// Table is the output of an Assigner.
type Table struct {
	Packages      map[*model.Package]Namespace
	Elements      map[*model.Element]Term
	Properties    map[*model.Attribute]Term
	Instances     map[*model.Attribute]Term
	Relationships map[relnorm.Ref]Term

	// relOrder keeps relationship assignment order for deterministic reports.
	relOrder []relnorm.Ref
}

func newTable() *Table {
	return &Table{
		Packages:      make(map[*model.Package]Namespace),
		Elements:      make(map[*model.Element]Term),
		Properties:    make(map[*model.Attribute]Term),
		Instances:     make(map[*model.Attribute]Term),
		Relationships: make(map[relnorm.Ref]Term),
	}
}

// Attribute returns the term of a, looking in the instance table for
// enumeration literals and in the property table otherwise.
func (t *Table) Attribute(a *model.Attribute) (Term, bool) {
	if a.Element != nil && a.Element.Kind == model.Enumeration {
		term, ok := t.Instances[a]
		return term, ok
	}
	term, ok := t.Properties[a]
	return term, ok
}

// RelationshipRefs returns the relationship refs that received an IRI, in
// assignment order.
func (t *Table) RelationshipRefs() []relnorm.Ref {
	return append([]relnorm.Ref(nil), t.relOrder...)
}

// Options configures an Assigner.
type Options struct {
	// Logger receives diagnostics; nil uses slog.Default().
	Logger *slog.Logger
	// DefaultBaseURI replaces DefaultBaseURI when non-empty.
	DefaultBaseURI string
	// AnchorPolicy decides which normalized relationships receive IRIs.
	AnchorPolicy relnorm.Policy
}

// Assigner runs the assignment passes over one model.
type Assigner struct {
	model  *model.Model
	opts   Options
	logger *slog.Logger
	stage  Stage
	table  *Table
	// byName indexes assigned packages by name in model order.
	byName map[string][]*model.Package
}

// NewAssigner prepares an assigner for m.
func NewAssigner(m *model.Model, opts Options) *Assigner {
	if opts.DefaultBaseURI == "" {
		opts.DefaultBaseURI = DefaultBaseURI
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Assigner{
		model:  m,
		opts:   opts,
		logger: logger,
		table:  newTable(),
		byName: make(map[string][]*model.Package),
	}
}

// Stage returns the current stage.
func (a *Assigner) Stage() Stage {
	return a.stage
}

// Table returns the table built so far.
func (a *Assigner) Table() *Table {
	return a.table
}

// Assign runs every pass over m and returns the finished table.
func Assign(m *model.Model, opts Options) *Table {
	a := NewAssigner(m, opts)
	// The passes run in order here, so stage errors cannot occur.
	_ = a.AssignPackages()
	_ = a.AssignElements()
	_ = a.AssignRelationships()
	_ = a.CheckCollisions()
	return a.table
}

func (a *Assigner) advance(op string, want Stage) error {
	if a.stage != want {
		return &StageError{Op: op, Want: want, Got: a.stage}
	}
	a.stage++
	return nil
}

// definingPackage resolves the package tag of obj against every assigned
// package. Without a tag, or when the name matches nothing, fallback is
// returned. An ambiguous name resolves to the first package in model order.
func (a *Assigner) definingPackage(obj model.Object, fallback *model.Package) *model.Package {
	name := tags.SingleValue(a.logger, obj, tags.KeyPackage, "", false)
	if name == "" {
		return fallback
	}
	matches := a.byName[name]
	switch len(matches) {
	case 0:
		a.logger.Warn("package tag names no known package, using the containing package",
			"path", obj.Path(), "package", name)
		return fallback
	case 1:
		return matches[0]
	default:
		paths := make([]string, len(matches))
		for i, p := range matches {
			paths[i] = p.Path()
		}
		a.logger.Warn("package tag is ambiguous, using the first match",
			"path", obj.Path(), "package", name, "matches", paths)
		return matches[0]
	}
}
