// Package sink provides convert.Handler implementations that serialize
// conversion events: N-Quads, a SQLite table, and a msgpack event log.
package sink

import (
	"github.com/CaliLuke/go-umlsem/convert"
	"github.com/CaliLuke/go-umlsem/model"
	"github.com/CaliLuke/go-umlsem/tags"
)

// Event names used in records and rows.
const (
	EventOntology = "ontology"
	EventClass    = "class"
	EventProperty = "property"
	EventInstance = "instance"
)

// Record is a conversion event flattened to plain values: model objects are
// reduced to their GUID-based key and path.
type Record struct {
	Event     string      `msgpack:"event"`
	Key       string      `msgpack:"key"`
	Path      string      `msgpack:"path"`
	IRI       string      `msgpack:"iri"`
	Scope     string      `msgpack:"scope,omitempty"`
	Ontology  string      `msgpack:"ontology"`
	Namespace string      `msgpack:"namespace,omitempty"`
	Prefix    string      `msgpack:"prefix,omitempty"`
	Kind      string      `msgpack:"kind,omitempty"`
	Domain    string      `msgpack:"domain,omitempty"`
	Range     string      `msgpack:"range,omitempty"`
	Class     string      `msgpack:"class,omitempty"`
	Lower     *string     `msgpack:"lower,omitempty"`
	Upper     *string     `msgpack:"upper,omitempty"`
	Parents   []string    `msgpack:"parents,omitempty"`
	Instances []string    `msgpack:"instances,omitempty"`
	Facts     []tags.Fact `msgpack:"facts,omitempty"`
}

// FromOntology flattens an ontology event.
func FromOntology(ev convert.OntologyEvent) Record {
	return Record{
		Event:     EventOntology,
		Key:       ev.Package.GUID,
		Path:      ev.Package.Path(),
		IRI:       ev.Ontology,
		Ontology:  ev.Ontology,
		Namespace: ev.Namespace,
		Prefix:    ev.Prefix,
		Facts:     ev.Facts,
	}
}

// FromClass flattens a class event. Kind is the element kind.
func FromClass(ev convert.ClassEvent) Record {
	return Record{
		Event:     EventClass,
		Key:       ev.Element.GUID,
		Path:      ev.Element.Path(),
		IRI:       ev.IRI,
		Scope:     ev.Scope.String(),
		Ontology:  ev.Ontology,
		Kind:      ev.Element.Kind.String(),
		Parents:   ev.Parents,
		Instances: ev.Instances,
		Facts:     ev.Facts,
	}
}

// FromProperty flattens a property event. Parents holds the super-properties.
func FromProperty(ev convert.PropertyEvent) Record {
	return Record{
		Event:    EventProperty,
		Key:      ev.Key,
		Path:     ev.Source.Path(),
		IRI:      ev.IRI,
		Scope:    ev.Scope.String(),
		Ontology: ev.Ontology,
		Kind:     ev.Kind.String(),
		Domain:   ev.Domain,
		Range:    ev.Range,
		Lower:    ev.Lower,
		Upper:    ev.Upper,
		Parents:  ev.SuperProperties,
		Facts:    ev.Facts,
	}
}

// FromInstance flattens an instance event.
func FromInstance(ev convert.InstanceEvent) Record {
	return Record{
		Event:    EventInstance,
		Key:      ev.Attribute.GUID,
		Path:     ev.Attribute.Path(),
		IRI:      ev.IRI,
		Scope:    ev.Scope.String(),
		Ontology: ev.Ontology,
		Kind:     model.Enumeration.String(),
		Class:    ev.Class,
		Facts:    ev.Facts,
	}
}
