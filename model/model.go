// Package model holds the UML model graph consumed by the converter: packages,
// elements, attributes, relationships, and the diagrams that render them.
//
// The graph is built once (see Parse) and treated as read-only afterwards.
// Derived facts such as IRIs are kept in side tables by the packages that
// compute them; nothing here is mutated after loading.
package model

import "strings"

// Tag is a key/value annotation attached to a model object. Keys are not
// unique; declaration order is significant.
type Tag struct {
	Key   string
	Value string
	// Note is optional free text attached to the tag.
	Note string
}

// Object is the capability set shared by packages, elements, attributes, and
// relationships.
type Object interface {
	ObjectName() string
	ObjectGUID() string
	ObjectTags() []Tag
	// Path is a human-readable location used in diagnostics.
	Path() string
}

// Meta is the record embedded by every model object.
type Meta struct {
	Name  string
	GUID  string
	Tags  []Tag
	Notes string
}

// ObjectName returns the object's name, which may be empty.
func (m *Meta) ObjectName() string { return m.Name }

// ObjectGUID returns the object's globally unique identifier.
func (m *Meta) ObjectGUID() string { return m.GUID }

// ObjectTags returns the object's tags in declaration order.
func (m *Meta) ObjectTags() []Tag { return m.Tags }

// TagValues returns every value stored under key, in declaration order.
func (m *Meta) TagValues(key string) []string {
	var out []string
	for _, t := range m.Tags {
		if t.Key == key {
			out = append(out, t.Value)
		}
	}
	return out
}

// ElementKind distinguishes the three element flavours.
type ElementKind int

const (
	Class ElementKind = iota
	Enumeration
	Datatype
)

// String returns the keyword used for the kind in model files.
func (k ElementKind) String() string {
	switch k {
	case Class:
		return "class"
	case Enumeration:
		return "enumeration"
	case Datatype:
		return "datatype"
	default:
		return "unknown"
	}
}

// RelationshipKind distinguishes associations, aggregations, and
// generalizations.
type RelationshipKind int

const (
	Association RelationshipKind = iota
	Aggregation
	Generalization
)

// String returns the keyword used for the kind in model files.
func (k RelationshipKind) String() string {
	switch k {
	case Association:
		return "association"
	case Aggregation:
		return "aggregation"
	case Generalization:
		return "generalization"
	default:
		return "unknown"
	}
}

// Direction is the navigability of a relationship, either as declared in the
// model or as the label direction on one diagram.
type Direction int

const (
	Unspecified Direction = iota
	SourceToDestination
	Bidirectional
	DestinationToSource
)

// String returns the keyword used for the direction in model files.
func (d Direction) String() string {
	switch d {
	case SourceToDestination:
		return "forward"
	case Bidirectional:
		return "both"
	case DestinationToSource:
		return "reverse"
	default:
		return "none"
	}
}

// Package is a node in the package tree. Parent is nil only for the root.
type Package struct {
	Meta
	Parent   *Package
	Packages []*Package
	Elements []*Element
	Diagrams []*Diagram
}

// Path returns the slash separated chain of package names from the root.
func (p *Package) Path() string {
	if p.Parent == nil {
		return p.Name
	}
	return p.Parent.Path() + "/" + p.Name
}

// Element is a class, enumeration, or datatype owned by exactly one package.
type Element struct {
	Meta
	Kind       ElementKind
	Package    *Package
	Attributes []*Attribute
	// Relationships lists every relationship this element is an endpoint or
	// association anchor of, in declaration order.
	Relationships []*Relationship
}

// Path returns the owning package path followed by the element name.
func (e *Element) Path() string {
	if e.Package == nil {
		return e.Name
	}
	return e.Package.Path() + "." + e.Name
}

// Attribute belongs to one element. For enumerations it denotes one literal.
type Attribute struct {
	Meta
	Element *Element
	// Type is the declared type name, matched against element names.
	Type string
	// Card is the multiplicity, e.g. "0..1".
	Card string
}

// Path returns the owning element path followed by the attribute name.
func (a *Attribute) Path() string {
	if a.Element == nil {
		return a.Name
	}
	return a.Element.Path() + "#" + a.Name
}

// Relationship is an association, aggregation, or generalization between two
// elements, optionally carrying an association anchor (association class).
type Relationship struct {
	Meta
	Kind        RelationshipKind
	Source      *Element
	Destination *Element
	// Anchor is the association class, nil for plain binary relationships.
	Anchor     *Element
	SourceRole string
	DestRole   string
	SourceCard string
	DestCard   string
	Direction  Direction
}

// Path renders the relationship with its endpoints for diagnostics.
func (r *Relationship) Path() string {
	var b strings.Builder
	b.WriteString(endpointPath(r.Source))
	b.WriteString(" -[")
	if r.Name != "" {
		b.WriteString(r.Name)
	} else {
		b.WriteString(r.Kind.String())
	}
	b.WriteString("]-> ")
	b.WriteString(endpointPath(r.Destination))
	return b.String()
}

func endpointPath(e *Element) string {
	if e == nil {
		return "?"
	}
	return e.Path()
}

// Diagram is one view of a package: the elements and relationships drawn on it.
type Diagram struct {
	Name    string
	GUID    string
	Package *Package
	Objects []*DiagramObject
	Links   []*DiagramLink
}

// Path returns the owning package path followed by the diagram name.
func (d *Diagram) Path() string {
	if d.Package == nil {
		return d.Name
	}
	return d.Package.Path() + ":" + d.Name
}

// Link returns the link rendering r on this diagram, or nil.
func (d *Diagram) Link(r *Relationship) *DiagramLink {
	for _, l := range d.Links {
		if l.Relationship == r {
			return l
		}
	}
	return nil
}

// Shows reports whether e is drawn on this diagram.
func (d *Diagram) Shows(e *Element) bool {
	for _, o := range d.Objects {
		if o.Element == e {
			return true
		}
	}
	return false
}

// Rect is the bounding box of a diagram object.
type Rect struct {
	Left, Top, Right, Bottom int
}

// DiagramObject is an element as rendered on a diagram.
type DiagramObject struct {
	Element *Element
	Bounds  Rect
}

// DiagramLink is a relationship as rendered on a diagram.
type DiagramLink struct {
	Relationship *Relationship
	// LabelDirection decides domain and range on this diagram and may differ
	// from the relationship's declared direction.
	LabelDirection Direction
	Hidden         bool
}

// Model is a loaded model graph.
type Model struct {
	Root *Package
}

// Packages returns every package in depth-first pre-order, following
// declaration order. Name lookups that pick "the first match" rely on this
// order.
func (m *Model) Packages() []*Package {
	var out []*Package
	var walk func(p *Package)
	walk = func(p *Package) {
		out = append(out, p)
		for _, c := range p.Packages {
			walk(c)
		}
	}
	if m.Root != nil {
		walk(m.Root)
	}
	return out
}

// Elements returns every element, package by package in Packages order.
func (m *Model) Elements() []*Element {
	var out []*Element
	for _, p := range m.Packages() {
		out = append(out, p.Elements...)
	}
	return out
}

// Relationships returns every relationship once, in the order they are first
// reached through Elements.
func (m *Model) Relationships() []*Relationship {
	seen := make(map[*Relationship]bool)
	var out []*Relationship
	for _, e := range m.Elements() {
		for _, r := range e.Relationships {
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}
	return out
}

// Diagrams returns every diagram in package order.
func (m *Model) Diagrams() []*Diagram {
	var out []*Diagram
	for _, p := range m.Packages() {
		out = append(out, p.Diagrams...)
	}
	return out
}

// FindDiagram returns the first diagram named name, or nil.
func (m *Model) FindDiagram(name string) *Diagram {
	for _, d := range m.Diagrams() {
		if d.Name == name || d.GUID == name {
			return d
		}
	}
	return nil
}
