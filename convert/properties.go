package convert

import (
	"github.com/CaliLuke/go-umlsem/identity"
	"github.com/CaliLuke/go-umlsem/model"
	"github.com/CaliLuke/go-umlsem/relnorm"
	"github.com/CaliLuke/go-umlsem/tags"
)

type linkedRef struct {
	ref   relnorm.Ref
	label model.Direction
}

// diagramRefs collects the normalized relationships drawn on the diagram in
// the order visible elements first touch them. Each Ref appears once.
func (c *converter) diagramRefs() []linkedRef {
	seen := make(map[relnorm.Ref]bool)
	var out []linkedRef
	for _, e := range c.visible {
		for _, r := range e.Relationships {
			if r.Kind == model.Generalization || tags.Ignored(r) {
				continue
			}
			link := c.diagram.Link(r)
			if link == nil || link.Hidden {
				continue
			}
			for _, ref := range relnorm.Expand(r, c.opts.AnchorPolicy, link.LabelDirection) {
				if seen[ref] {
					continue
				}
				seen[ref] = true
				out = append(out, linkedRef{ref: ref, label: link.LabelDirection})
			}
		}
	}
	return out
}

func (c *converter) relationships() error {
	for _, lr := range c.diagramRefs() {
		ref := lr.ref
		term, ok := c.table.Relationships[ref]
		if !ok {
			c.logger.Debug("relationship has no IRI, skipped", "path", ref.Path())
			continue
		}
		v := ref.View()
		if ref.Kind == relnorm.KindHalf && tags.Ignored(v) {
			continue
		}
		scope := c.termScope(term.Package == c.pkg, term)
		if scope == Nothing {
			c.logger.Debug("relationship out of scope", "path", ref.Path())
			continue
		}

		// Halves and derived relationships always run source to destination.
		dir := lr.label
		if ref.Kind == relnorm.KindHalf || ref.Kind == relnorm.KindDerived {
			dir = model.SourceToDestination
		}

		ev := PropertyEvent{
			Source:          v,
			Key:             ref.Key(),
			IRI:             term.IRI,
			Scope:           scope,
			Ontology:        c.ontology,
			SuperProperties: tags.Values(v, tags.KeyParentURI),
			Facts:           c.facts(v, scope),
		}

		var target *model.Element
		switch dir {
		case model.SourceToDestination:
			ev.Domain = c.elementIRI(v.Source)
			ev.Range = c.elementIRI(v.Destination)
			ev.Lower, ev.Upper = tags.ParseCardinality(v.DestCard)
			target = v.Destination
		case model.DestinationToSource:
			ev.Domain = c.elementIRI(v.Destination)
			ev.Range = c.elementIRI(v.Source)
			ev.Lower, ev.Upper = tags.ParseCardinality(v.SourceCard)
			target = v.Source
		default:
			c.logger.Error("relationship has no label direction, domain and range left unset",
				"path", ref.Path(), "direction", dir.String())
		}

		if domain := tags.SingleValue(c.logger, v, tags.KeyDomain, "", false); domain != "" {
			ev.Domain = domain
		}
		rangeTag := tags.SingleValue(c.logger, v, tags.KeyRange, "", false)
		if rangeTag != "" {
			if c.opts.StrictRangeOverride {
				ev.Range = rangeTag
			} else {
				// The range tag lands in the domain unless StrictRangeOverride
				// is set. Existing outputs rely on this.
				c.logger.Info("range tag applied to the domain", "path", ref.Path(), "range", rangeTag)
				ev.Domain = rangeTag
			}
		}

		ev.Kind = c.kind(v, target, "", rangeTag)
		if err := c.handler.OnProperty(ev); err != nil {
			return &HandlerError{Event: "property", Path: ref.Path(), Err: err}
		}
	}
	return nil
}

func (c *converter) attributes() error {
	for _, e := range c.visible {
		if e.Kind == model.Enumeration {
			continue
		}
		domain := c.table.Elements[e].IRI
		for _, a := range e.Attributes {
			if tags.Ignored(a) {
				continue
			}
			term, ok := c.table.Properties[a]
			if !ok {
				continue
			}
			scope := c.termScope(term.Package == c.pkg, term)
			if scope == Nothing {
				c.logger.Debug("attribute out of scope", "path", a.Path())
				continue
			}
			if err := c.attribute(a, term, scope, domain); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *converter) attribute(a *model.Attribute, term identity.Term, scope Scope, domain string) error {
	ev := PropertyEvent{
		Source:          a,
		Key:             a.GUID,
		IRI:             term.IRI,
		Scope:           scope,
		Ontology:        c.ontology,
		Domain:          domain,
		SuperProperties: tags.Values(a, tags.KeyParentURI),
		Facts:           c.facts(a, scope),
	}
	ev.Lower, ev.Upper = tags.ParseCardinality(a.Card)

	target := c.byName[a.Type]
	primitive, isPrimitive := Primitive(a.Type)
	switch {
	case target != nil:
		ev.Range = c.elementIRI(target)
	case isPrimitive:
		ev.Range = primitive
	}

	if d := tags.SingleValue(c.logger, a, tags.KeyDomain, "", false); d != "" {
		ev.Domain = d
	}
	rangeTag := tags.SingleValue(c.logger, a, tags.KeyRange, "", false)
	if rangeTag != "" {
		ev.Range = rangeTag
	}

	ev.Kind = c.kind(a, target, a.Type, rangeTag)
	if err := c.handler.OnProperty(ev); err != nil {
		return &HandlerError{Event: "property", Path: a.Path(), Err: err}
	}
	return nil
}

// kind classifies a property by its target: a datatype element or builtin
// primitive, then any known element, then an explicit range tag. A property
// matching none of these is Generic and logged.
func (c *converter) kind(obj model.Object, target *model.Element, typeName, rangeTag string) PropertyKind {
	_, isPrimitive := Primitive(typeName)
	_, known := c.table.Elements[target]
	switch {
	case target != nil && target.Kind == model.Datatype, target == nil && isPrimitive:
		return Datatype
	case target != nil && known:
		return Object
	case rangeTag != "":
		if IsXSD(rangeTag) {
			return Datatype
		}
		return Object
	default:
		c.logger.Warn("cannot classify property, range is unknown", "path", obj.Path(), "type", typeName)
		return Generic
	}
}

func (c *converter) elementIRI(e *model.Element) string {
	if e == nil {
		return ""
	}
	return c.table.Elements[e].IRI
}
