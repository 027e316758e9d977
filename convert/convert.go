// Package convert turns one diagram of an identity-assigned model into a
// sequence of ontology, class, property, and instance events.
//
// Each term on the diagram gets a Scope decided by its defining package
// relative to the package owning the diagram. Terms with scope Nothing are
// not emitted. Model content problems are logged and skipped; only handler
// errors stop a conversion.
package convert

import (
	"log/slog"

	"github.com/CaliLuke/go-umlsem/identity"
	"github.com/CaliLuke/go-umlsem/model"
	"github.com/CaliLuke/go-umlsem/relnorm"
	"github.com/CaliLuke/go-umlsem/tags"
)

// Options configures a conversion.
type Options struct {
	// Logger receives diagnostics; nil uses slog.Default().
	Logger *slog.Logger
	// Internal mappings are resolved for FullDefinition terms.
	Internal []tags.Mapping
	// External mappings are resolved for TranslationsOnly terms.
	External []tags.Mapping
	// AnchorPolicy must match the policy the identity table was built with.
	AnchorPolicy relnorm.Policy
	// StrictRangeOverride applies a relationship's range tag to the range.
	// By default the tag value replaces the domain instead.
	StrictRangeOverride bool
}

type converter struct {
	model   *model.Model
	diagram *model.Diagram
	pkg     *model.Package
	table   *identity.Table
	handler Handler
	opts    Options
	logger  *slog.Logger

	ontology string
	visible  []*model.Element
	// byName resolves attribute type names: plain and package-qualified
	// element names, first match in model order.
	byName map[string]*model.Element
}

// Convert emits the events of diagram d to h. table must come from an
// identity pass over m.
func Convert(m *model.Model, d *model.Diagram, table *identity.Table, h Handler, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &converter{
		model:   m,
		diagram: d,
		pkg:     d.Package,
		table:   table,
		handler: h,
		opts:    opts,
		logger:  logger.With("diagram", d.Path()),
		byName:  make(map[string]*model.Element),
	}
	c.index()

	ns, ok := table.Packages[c.pkg]
	if !ok {
		c.logger.Error("diagram package has no namespace, nothing to convert", "path", c.pkg.Path())
		return nil
	}
	c.ontology = ns.Ontology

	if err := c.handler.OnOntology(OntologyEvent{
		Package:   c.pkg,
		Ontology:  ns.Ontology,
		Prefix:    ns.Prefix,
		Namespace: ns.IRI,
		Facts:     tags.Facts(c.logger, c.pkg, c.opts.Internal),
	}); err != nil {
		return &HandlerError{Event: "ontology", Path: c.pkg.Path(), Err: err}
	}

	steps := []func() error{c.classes, c.relationships, c.attributes, c.instances}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// index builds the element lookup and the ordered list of visible elements.
func (c *converter) index() {
	for _, e := range c.model.Elements() {
		if tags.Ignored(e) {
			continue
		}
		for _, key := range []string{e.Name, e.Package.Name + "." + e.Name} {
			if _, ok := c.byName[key]; !ok {
				c.byName[key] = e
			}
		}
	}

	seen := make(map[*model.Element]bool)
	for _, obj := range c.diagram.Objects {
		e := obj.Element
		if seen[e] || tags.Ignored(e) {
			continue
		}
		seen[e] = true
		if _, ok := c.table.Elements[e]; !ok {
			c.logger.Debug("element has no IRI, skipped", "path", e.Path())
			continue
		}
		c.visible = append(c.visible, e)
	}
}

// facts selects the mappings configured for scope.
func (c *converter) facts(obj model.Object, scope Scope) []tags.Fact {
	switch scope {
	case FullDefinition:
		return tags.Facts(c.logger, obj, c.opts.Internal)
	case TranslationsOnly:
		return tags.Facts(c.logger, obj, c.opts.External)
	default:
		return nil
	}
}

// termScope applies the shared rule for elements, relationships, and
// attributes: owned without a custom IRI is a full definition; a custom IRI
// whose defining package carries the diagram package's name contributes
// translations.
func (c *converter) termScope(owned bool, term identity.Term) Scope {
	switch {
	case owned && !term.Custom:
		return FullDefinition
	case term.Custom && term.Package != nil && term.Package.Name == c.pkg.Name:
		return TranslationsOnly
	default:
		return Nothing
	}
}

func (c *converter) classes() error {
	for _, e := range c.visible {
		term := c.table.Elements[e]
		scope := c.termScope(e.Package == c.pkg, term)
		if scope == Nothing {
			c.logger.Debug("element out of scope", "path", e.Path())
			continue
		}
		ev := ClassEvent{
			Element:  e,
			IRI:      term.IRI,
			Scope:    scope,
			Ontology: c.ontology,
			Parents:  c.parents(e),
			Facts:    c.facts(e, scope),
		}
		if e.Kind == model.Enumeration {
			ev.Instances = c.enumInstances(e)
		}
		if err := c.handler.OnClass(ev); err != nil {
			return &HandlerError{Event: "class", Path: e.Path(), Err: err}
		}
	}
	return nil
}

// parents collects the superclasses of e through generalizations drawn on the
// diagram, followed by parentURI tags.
func (c *converter) parents(e *model.Element) []string {
	var out []string
	for _, r := range e.Relationships {
		if r.Kind != model.Generalization {
			continue
		}
		if link := c.diagram.Link(r); link == nil || link.Hidden {
			continue
		}
		var parent *model.Element
		switch r.Direction {
		case model.SourceToDestination:
			if r.Source == e {
				parent = r.Destination
			}
		case model.DestinationToSource:
			if r.Destination == e {
				parent = r.Source
			}
		default:
			c.logger.Error("generalization has no direction, parent link skipped",
				"path", r.Path(), "direction", r.Direction.String())
			continue
		}
		if parent == nil {
			continue
		}
		term, ok := c.table.Elements[parent]
		if !ok {
			c.logger.Warn("parent class has no IRI", "path", r.Path())
			continue
		}
		out = append(out, term.IRI)
	}
	return append(out, tags.Values(e, tags.KeyParentURI)...)
}

func (c *converter) enumInstances(e *model.Element) []string {
	out := []string{}
	for _, a := range e.Attributes {
		if tags.Ignored(a) {
			continue
		}
		if term, ok := c.table.Instances[a]; ok {
			out = append(out, term.IRI)
		}
	}
	return out
}

func (c *converter) instances() error {
	for _, e := range c.visible {
		if e.Kind != model.Enumeration {
			continue
		}
		class := c.table.Elements[e].IRI
		for _, a := range e.Attributes {
			if tags.Ignored(a) {
				continue
			}
			term, ok := c.table.Instances[a]
			if !ok {
				continue
			}
			if term.Package != c.pkg {
				c.logger.Debug("instance out of scope", "path", a.Path())
				continue
			}
			scope := FullDefinition
			if term.Custom {
				scope = TranslationsOnly
			}
			ev := InstanceEvent{
				Attribute: a,
				IRI:       term.IRI,
				Scope:     scope,
				Ontology:  c.ontology,
				Class:     class,
				Facts:     c.facts(a, scope),
			}
			if err := c.handler.OnInstance(ev); err != nil {
				return &HandlerError{Event: "instance", Path: a.Path(), Err: err}
			}
		}
	}
	return nil
}
