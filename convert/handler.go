package convert

import (
	"github.com/CaliLuke/go-umlsem/model"
	"github.com/CaliLuke/go-umlsem/tags"
)

// Scope is how much of a term's metadata one diagram contributes.
type Scope int

const (
	// Nothing omits the term; handlers never receive it.
	Nothing Scope = iota
	// TranslationsOnly contributes translated labels for a term whose IRI is
	// owned elsewhere.
	TranslationsOnly
	// FullDefinition contributes the complete definition.
	FullDefinition
)

// String returns the scope name.
func (s Scope) String() string {
	switch s {
	case TranslationsOnly:
		return "translations-only"
	case FullDefinition:
		return "full-definition"
	default:
		return "nothing"
	}
}

// PropertyKind tells object properties from datatype properties.
type PropertyKind int

const (
	// Generic is used when the range could not be classified.
	Generic PropertyKind = iota
	Datatype
	Object
)

// String returns the kind name.
func (k PropertyKind) String() string {
	switch k {
	case Datatype:
		return "datatype"
	case Object:
		return "object"
	default:
		return "property"
	}
}

// OntologyEvent announces the ontology a diagram is converted into.
type OntologyEvent struct {
	Package   *model.Package
	Ontology  string
	Prefix    string
	Namespace string
	Facts     []tags.Fact
}

// ClassEvent describes one element visible on the diagram.
type ClassEvent struct {
	Element  *model.Element
	IRI      string
	Scope    Scope
	Ontology string
	Parents  []string
	// Instances is the ordered value set of an enumeration, nil otherwise.
	Instances []string
	Facts     []tags.Fact
}

// PropertyEvent describes one attribute or normalized relationship.
type PropertyEvent struct {
	// Source is the attribute, or the relationship as projected by its Ref.
	Source model.Object
	// Key identifies the source across runs: the attribute GUID or the
	// relationship Ref key.
	Key      string
	IRI      string
	Scope    Scope
	Ontology string
	Kind     PropertyKind
	// Domain and Range are empty when they could not be determined.
	Domain string
	Range  string
	// Lower and Upper are nil when the multiplicity is not given.
	Lower           *string
	Upper           *string
	SuperProperties []string
	Facts           []tags.Fact
}

// InstanceEvent describes one enumeration literal.
type InstanceEvent struct {
	Attribute *model.Attribute
	IRI       string
	Scope     Scope
	Ontology  string
	Class     string
	Facts     []tags.Fact
}

// Handler receives the conversion events of one diagram in order: the
// ontology, classes, relationship properties, attribute properties, then
// instances. A returned error aborts the conversion.
type Handler interface {
	OnOntology(OntologyEvent) error
	OnClass(ClassEvent) error
	OnProperty(PropertyEvent) error
	OnInstance(InstanceEvent) error
}
