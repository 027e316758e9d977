package identity

import (
	"github.com/CaliLuke/go-umlsem/model"
	"github.com/CaliLuke/go-umlsem/relnorm"
	"github.com/CaliLuke/go-umlsem/tags"
)

// AssignPackages mints the namespace and ontology IRIs of every package not
// marked ignore.
func (a *Assigner) AssignPackages() error {
	if err := a.advance("AssignPackages", NotStarted); err != nil {
		return err
	}
	for _, p := range a.model.Packages() {
		if tags.Ignored(p) {
			a.logger.Debug("package ignored", "path", p.Path())
			continue
		}
		ns := tags.SingleValue(a.logger, p, tags.KeyBaseURI, a.opts.DefaultBaseURI, true)
		if !ValidIRI(ns) {
			a.logger.Error("invalid namespace IRI, package skipped", "path", p.Path(), "iri", ns)
			continue
		}
		onto := tags.SingleValue(a.logger, p, tags.KeyOntologyURI, trimSeparator(ns), false)
		if !ValidIRI(onto) {
			a.logger.Error("invalid ontology IRI, using the namespace", "path", p.Path(), "iri", onto)
			onto = trimSeparator(ns)
		}
		a.table.Packages[p] = Namespace{
			IRI:      ns,
			Ontology: onto,
			Prefix:   tags.SingleValue(a.logger, p, tags.KeyPrefix, "", false),
		}
		a.byName[p.Name] = append(a.byName[p.Name], p)
	}
	return nil
}

// AssignElements mints element IRIs, then property IRIs for the attributes of
// classes and datatypes, and instance IRIs for enumeration literals.
func (a *Assigner) AssignElements() error {
	if err := a.advance("AssignElements", PackagesAssigned); err != nil {
		return err
	}
	for _, e := range a.model.Elements() {
		if tags.Ignored(e) {
			a.logger.Debug("element ignored", "path", e.Path())
			continue
		}
		term, ok := a.term(e, a.definingPackage(e, e.Package))
		if !ok {
			continue
		}
		if !ValidIRI(term.IRI) {
			a.logger.Error("invalid element IRI, element skipped", "path", e.Path(), "iri", term.IRI)
			continue
		}
		a.table.Elements[e] = term

		for _, attr := range e.Attributes {
			if tags.Ignored(attr) {
				a.logger.Debug("attribute ignored", "path", attr.Path())
				continue
			}
			if e.Kind == model.Enumeration {
				a.assignInstance(attr, term)
			} else {
				a.assignProperty(attr, term)
			}
		}
	}
	return nil
}

// term computes the IRI of obj: a uri tag is used verbatim, otherwise the
// namespace of pkg is followed by the name tag or the object's own name.
func (a *Assigner) term(obj model.Object, pkg *model.Package) (Term, bool) {
	if uri := tags.SingleValue(a.logger, obj, tags.KeyURI, "", false); uri != "" {
		return Term{IRI: uri, LocalName: LocalPart(uri), Package: pkg, Custom: true}, true
	}
	ns, ok := a.table.Packages[pkg]
	if !ok {
		a.logger.Warn("defining package has no namespace, object skipped", "path", obj.Path())
		return Term{}, false
	}
	local := a.localName(obj)
	return Term{IRI: ns.IRI + local, LocalName: local, Package: pkg}, true
}

// localName returns the name tag, or the object's name. An empty result is
// logged and leaves a namespace-only IRI.
func (a *Assigner) localName(obj model.Object) string {
	local := tags.SingleValue(a.logger, obj, tags.KeyName, obj.ObjectName(), false)
	if local == "" {
		a.logger.Error("object has no name", "path", obj.Path())
	}
	return local
}

func (a *Assigner) assignProperty(attr *model.Attribute, owner Term) {
	term, ok := a.term(attr, a.definingPackage(attr, owner.Package))
	if !ok {
		return
	}
	if !ValidPropertyIRI(term.IRI) {
		a.logger.Error("invalid property IRI, attribute skipped", "path", attr.Path(), "iri", term.IRI)
		return
	}
	a.table.Properties[attr] = term
}

// assignInstance mints an enumeration literal IRI under
// <ontology>/<enumeration local name>/.
func (a *Assigner) assignInstance(attr *model.Attribute, enum Term) {
	pkg := a.definingPackage(attr, enum.Package)
	var term Term
	if uri := tags.SingleValue(a.logger, attr, tags.KeyURI, "", false); uri != "" {
		term = Term{IRI: uri, LocalName: LocalPart(uri), Package: pkg, Custom: true}
	} else {
		ns, ok := a.table.Packages[pkg]
		if !ok {
			a.logger.Warn("defining package has no namespace, literal skipped", "path", attr.Path())
			return
		}
		local := a.localName(attr)
		term = Term{
			IRI:       ns.Ontology + "/" + enum.LocalName + "/" + local,
			LocalName: local,
			Package:   pkg,
		}
	}
	if !ValidIRI(term.IRI) {
		a.logger.Error("invalid instance IRI, literal skipped", "path", attr.Path(), "iri", term.IRI)
		return
	}
	a.table.Instances[attr] = term
}

// AssignRelationships mints property IRIs for every normalized
// non-generalization relationship.
func (a *Assigner) AssignRelationships() error {
	if err := a.advance("AssignRelationships", ElementsAssigned); err != nil {
		return err
	}
	for _, r := range a.model.Relationships() {
		if r.Kind == model.Generalization {
			continue
		}
		if tags.Ignored(r) {
			a.logger.Debug("relationship ignored", "path", r.Path())
			continue
		}
		for _, ref := range a.refs(r) {
			a.assignRelationship(ref)
		}
	}
	return nil
}

// refs lists the normalized relationships of r under the anchor policy. The
// diagram label direction is not known here, so a synthesized relationship
// is registered for both endpoints.
func (a *Assigner) refs(r *model.Relationship) []relnorm.Ref {
	if r.Anchor != nil && a.opts.AnchorPolicy == relnorm.PolicySynthesize {
		return []relnorm.Ref{
			relnorm.Strip(r),
			relnorm.Synthesize(r, model.SourceToDestination),
			relnorm.Synthesize(r, model.DestinationToSource),
		}
	}
	return relnorm.Expand(r, a.opts.AnchorPolicy, r.Direction)
}

func (a *Assigner) assignRelationship(ref relnorm.Ref) {
	v := ref.View()
	if ref.Kind == relnorm.KindHalf && tags.Ignored(v) {
		a.logger.Debug("relationship half ignored", "path", ref.Path())
		return
	}
	pkg := a.relationshipPackage(ref, v)

	var term Term
	if uri := tags.SingleValue(a.logger, v, tags.KeyURI, "", false); uri != "" {
		term = Term{IRI: uri, LocalName: LocalPart(uri), Package: pkg, Custom: true}
	} else {
		if pkg == nil {
			a.logger.Warn("cannot determine defining package, relationship skipped", "path", ref.Path())
			return
		}
		ns, ok := a.table.Packages[pkg]
		if !ok {
			a.logger.Warn("defining package has no namespace, relationship skipped", "path", ref.Path())
			return
		}
		local := a.relationshipLocalName(ref, v)
		term = Term{IRI: ns.IRI + local, LocalName: local, Package: pkg}
	}
	if !ValidPropertyIRI(term.IRI) {
		a.logger.Error("invalid property IRI, relationship skipped", "path", ref.Path(), "iri", term.IRI)
		return
	}
	if _, dup := a.table.Relationships[ref]; !dup {
		a.table.relOrder = append(a.table.relOrder, ref)
	}
	a.table.Relationships[ref] = term
}

// relationshipPackage resolves the package tag, else assumes the package
// shared by both endpoints. It returns nil when neither applies.
func (a *Assigner) relationshipPackage(ref relnorm.Ref, v *model.Relationship) *model.Package {
	if pkg := a.definingPackage(v, nil); pkg != nil {
		return pkg
	}
	if v.Source == nil || v.Destination == nil || v.Source.Package != v.Destination.Package {
		return nil
	}
	pkg := v.Source.Package
	if _, ok := a.table.Packages[pkg]; ok {
		a.logger.Info("assuming the endpoints' package defines the relationship",
			"path", ref.Path(), "package", pkg.Path())
	}
	return pkg
}

// relationshipLocalName builds [prefix] + lowerCamel(name) + [suffix]. A name
// tag is used verbatim; otherwise the relationship name, or failing that the
// destination role, is camel-cased. Derived relationships are prefixed with
// the anchor's local name.
func (a *Assigner) relationshipLocalName(ref relnorm.Ref, v *model.Relationship) string {
	var prefix string
	if ref.Kind == relnorm.KindDerived {
		anchor := v.Source
		if term, ok := a.table.Elements[anchor]; ok && term.LocalName != "" {
			prefix = term.LocalName + "."
		} else {
			prefix = anchor.Name + "."
		}
	}
	suffix := tags.SingleValue(a.logger, v, tags.KeySuffix, "", false)

	if override := tags.SingleValue(a.logger, v, tags.KeyName, "", false); override != "" {
		return prefix + override + suffix
	}
	name := v.Name
	if name == "" {
		name = v.DestRole
	}
	if name == "" {
		a.logger.Error("relationship has no name", "path", ref.Path())
		return ""
	}
	local := ToLowerCamel(name)
	if local != name {
		a.logger.Warn("relationship name is not lower camel case, converted",
			"path", ref.Path(), "name", name, "local_name", local)
	}
	return prefix + local + suffix
}
