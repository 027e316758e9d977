package identity

// collisionGroup gathers the paths of every entity sharing one IRI.
type collisionGroup struct {
	iri   string
	paths []string
}

type collisionIndex struct {
	category string
	order    []string
	groups   map[string]*collisionGroup
}

func newCollisionIndex(category string) *collisionIndex {
	return &collisionIndex{category: category, groups: make(map[string]*collisionGroup)}
}

func (c *collisionIndex) add(iri, path string) {
	g, ok := c.groups[iri]
	if !ok {
		g = &collisionGroup{iri: iri}
		c.groups[iri] = g
		c.order = append(c.order, iri)
	}
	g.paths = append(g.paths, path)
}

// CheckCollisions logs one warning per IRI shared by more than one package,
// element, instance, or property. Attributes and relationships share the
// property namespace. Nothing is renamed: colliding entries stay in the table.
func (a *Assigner) CheckCollisions() error {
	if err := a.advance("CheckCollisions", RelationshipsAssigned); err != nil {
		return err
	}

	packages := newCollisionIndex("package")
	elements := newCollisionIndex("element")
	instances := newCollisionIndex("instance")
	properties := newCollisionIndex("property")

	for _, p := range a.model.Packages() {
		if ns, ok := a.table.Packages[p]; ok {
			packages.add(ns.IRI, p.Path())
		}
	}
	for _, e := range a.model.Elements() {
		if term, ok := a.table.Elements[e]; ok {
			elements.add(term.IRI, e.Path())
		}
		for _, attr := range e.Attributes {
			if term, ok := a.table.Instances[attr]; ok {
				instances.add(term.IRI, attr.Path())
			}
			if term, ok := a.table.Properties[attr]; ok {
				properties.add(term.IRI, attr.Path())
			}
		}
	}
	for _, ref := range a.table.relOrder {
		properties.add(a.table.Relationships[ref].IRI, ref.Path())
	}

	for _, idx := range []*collisionIndex{packages, elements, instances, properties} {
		a.report(idx)
	}
	return nil
}

func (a *Assigner) report(idx *collisionIndex) {
	for _, iri := range idx.order {
		g := idx.groups[iri]
		if len(g.paths) < 2 {
			continue
		}
		a.logger.Warn("URI collision", "category", idx.category, "iri", g.iri, "paths", g.paths)
	}
}
