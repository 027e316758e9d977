package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// guidNamespace seeds the deterministic GUIDs handed to objects that do not
// declare one, so repeated loads of the same file agree.
var guidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/CaliLuke/go-umlsem/model"))

type builder struct {
	model     *Model
	elements  []*Element
	pending   []pendingRel
	diagrams  []pendingDiagram
	guidSeen  map[string]int
	relations []*Relationship
}

type pendingRel struct {
	def *RelationshipDef
	pkg *Package
}

type pendingDiagram struct {
	def     *DiagramDef
	diagram *Diagram
}

// build converts the participle AST into a resolved model graph. Elements are
// created first so relationships and diagrams can refer to elements declared
// anywhere in the file.
func build(file *FileDef) (*Model, error) {
	b := &builder{
		model:    &Model{},
		guidSeen: make(map[string]int),
	}
	b.model.Root = b.convertPackage(file.Root, nil)

	for _, pr := range b.pending {
		if err := b.convertRelationship(pr.def, pr.pkg); err != nil {
			return nil, err
		}
	}
	for _, pd := range b.diagrams {
		if err := b.fillDiagram(pd.def, pd.diagram); err != nil {
			return nil, err
		}
	}
	return b.model, nil
}

func (b *builder) convertPackage(def *PackageDef, parent *Package) *Package {
	p := &Package{Parent: parent}
	p.Name = def.Name
	if parent != nil {
		parent.Packages = append(parent.Packages, p)
	}
	p.GUID = b.guid(def.GUID, "package:"+p.Path())

	for _, item := range def.Items {
		switch {
		case item.Tag != nil:
			p.Tags = append(p.Tags, convertTag(item.Tag))
		case item.Package != nil:
			b.convertPackage(item.Package, p)
		case item.Element != nil:
			b.convertElement(item.Element, p)
		case item.Relationship != nil:
			b.pending = append(b.pending, pendingRel{def: item.Relationship, pkg: p})
		case item.Diagram != nil:
			d := &Diagram{Name: item.Diagram.Name, Package: p}
			d.GUID = b.guid(item.Diagram.GUID, "diagram:"+d.Path())
			p.Diagrams = append(p.Diagrams, d)
			b.diagrams = append(b.diagrams, pendingDiagram{def: item.Diagram, diagram: d})
		}
	}
	return p
}

func (b *builder) convertElement(def *ElementDef, pkg *Package) {
	e := &Element{Package: pkg, Kind: parseElementKind(def.Kind)}
	e.Name = def.Name
	e.Notes = def.Notes
	e.GUID = b.guid(def.GUID, "element:"+e.Path())
	pkg.Elements = append(pkg.Elements, e)
	b.elements = append(b.elements, e)

	for _, item := range def.Items {
		switch {
		case item.Tag != nil:
			e.Tags = append(e.Tags, convertTag(item.Tag))
		case item.Attribute != nil:
			a := &Attribute{Element: e, Type: item.Attribute.Type, Card: item.Attribute.Card}
			a.Name = item.Attribute.Name
			a.GUID = b.guid(item.Attribute.GUID, "attribute:"+a.Path())
			for _, t := range item.Attribute.Tags {
				a.Tags = append(a.Tags, convertTag(t))
			}
			e.Attributes = append(e.Attributes, a)
		}
	}
}

func (b *builder) convertRelationship(def *RelationshipDef, pkg *Package) error {
	r := &Relationship{Kind: parseRelationshipKind(def.Kind)}
	r.Name = def.Name

	var err error
	if r.Source, err = b.findElement(def.Source, pkg.Path()); err != nil {
		return err
	}
	if r.Destination, err = b.findElement(def.Destination, pkg.Path()); err != nil {
		return err
	}

	var guid string
	for _, opt := range def.Options {
		switch {
		case opt.GUID != "":
			guid = opt.GUID
		case opt.Direction != "":
			r.Direction = ParseDirection(opt.Direction)
		case opt.Roles != nil:
			r.SourceRole, r.DestRole = opt.Roles.Source, opt.Roles.Destination
		case opt.Cards != nil:
			r.SourceCard, r.DestCard = opt.Cards.Source, opt.Cards.Destination
		case opt.Anchor != "":
			if r.Anchor, err = b.findElement(opt.Anchor, r.Path()); err != nil {
				return err
			}
		case opt.Notes != "":
			r.Notes = opt.Notes
		}
	}
	for _, t := range def.Tags {
		r.Tags = append(r.Tags, convertTag(t))
	}
	r.GUID = b.guid(guid, "relationship:"+r.Path())

	r.Source.Relationships = append(r.Source.Relationships, r)
	if r.Destination != r.Source {
		r.Destination.Relationships = append(r.Destination.Relationships, r)
	}
	if r.Anchor != nil && r.Anchor != r.Source && r.Anchor != r.Destination {
		r.Anchor.Relationships = append(r.Anchor.Relationships, r)
	}
	b.relations = append(b.relations, r)
	return nil
}

func (b *builder) fillDiagram(def *DiagramDef, d *Diagram) error {
	for _, item := range def.Items {
		switch {
		case item.Show != nil:
			for _, so := range item.Show.Objects {
				e, err := b.findElement(so.Element, d.Path())
				if err != nil {
					return err
				}
				obj := &DiagramObject{Element: e}
				if so.Bounds != "" {
					if obj.Bounds, err = parseBounds(so.Bounds); err != nil {
						return &BoundsError{Element: e.Path(), Value: so.Bounds, Cause: err}
					}
				}
				d.Objects = append(d.Objects, obj)
			}
		case item.Link != nil:
			r := b.findRelationship(item.Link.Ref)
			if r == nil {
				return &ResolveError{Kind: "relationship", Ref: item.Link.Ref, Context: d.Path()}
			}
			d.Links = append(d.Links, &DiagramLink{
				Relationship:   r,
				LabelDirection: ParseDirection(item.Link.Label),
				Hidden:         item.Link.Hidden,
			})
		}
	}
	return nil
}

// findElement resolves "Name" or "Package.Name". Unqualified names take the
// first element in depth-first package order.
func (b *builder) findElement(ref, context string) (*Element, error) {
	pkgName, name := "", ref
	if i := strings.LastIndex(ref, "."); i >= 0 {
		pkgName, name = ref[:i], ref[i+1:]
	}
	for _, p := range b.model.Packages() {
		if pkgName != "" && p.Name != pkgName {
			continue
		}
		for _, e := range p.Elements {
			if e.Name == name {
				return e, nil
			}
		}
	}
	return nil, &ResolveError{Kind: "element", Ref: ref, Context: context}
}

// findRelationship matches by GUID, then name, then "Source->Destination".
func (b *builder) findRelationship(ref string) *Relationship {
	for _, r := range b.relations {
		if r.GUID == ref {
			return r
		}
	}
	for _, r := range b.relations {
		if r.Name != "" && r.Name == ref {
			return r
		}
	}
	for _, r := range b.relations {
		if r.Source.Name+"->"+r.Destination.Name == ref {
			return r
		}
	}
	return nil
}

// guid returns declared when set, otherwise a name-based UUID in the braced
// upper-case form used by UML tools. Duplicate seeds get a counter suffix.
func (b *builder) guid(declared, seed string) string {
	if declared != "" {
		return declared
	}
	n := b.guidSeen[seed]
	b.guidSeen[seed] = n + 1
	if n > 0 {
		seed = seed + "#" + strconv.Itoa(n)
	}
	u := uuid.NewSHA1(guidNamespace, []byte(seed))
	return "{" + strings.ToUpper(u.String()) + "}"
}

func convertTag(t *TagDef) Tag {
	return Tag{Key: t.Key, Value: t.Value, Note: t.Note}
}

func parseElementKind(s string) ElementKind {
	switch s {
	case "enumeration":
		return Enumeration
	case "datatype":
		return Datatype
	default:
		return Class
	}
}

func parseRelationshipKind(s string) RelationshipKind {
	switch s {
	case "aggregation":
		return Aggregation
	case "generalization":
		return Generalization
	default:
		return Association
	}
}

// ParseDirection maps a direction keyword to a Direction. Unknown keywords
// map to Unspecified.
func ParseDirection(s string) Direction {
	switch s {
	case "forward":
		return SourceToDestination
	case "both":
		return Bidirectional
	case "reverse":
		return DestinationToSource
	default:
		return Unspecified
	}
}

func parseBounds(s string) (Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("expected 4 comma separated integers, got %d", len(parts))
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Rect{}, err
		}
		v[i] = n
	}
	return Rect{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}, nil
}
