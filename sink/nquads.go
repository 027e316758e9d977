package sink

import (
	"fmt"
	"io"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"

	"github.com/CaliLuke/go-umlsem/convert"
	"github.com/CaliLuke/go-umlsem/model"
	"github.com/CaliLuke/go-umlsem/tags"
)

// Vocabulary terms written by NQuads.
const (
	RDFType             = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	RDFProperty         = "http://www.w3.org/1999/02/22-rdf-syntax-ns#Property"
	RDFSDatatype        = "http://www.w3.org/2000/01/rdf-schema#Datatype"
	RDFSSubClassOf      = "http://www.w3.org/2000/01/rdf-schema#subClassOf"
	RDFSSubPropertyOf   = "http://www.w3.org/2000/01/rdf-schema#subPropertyOf"
	RDFSDomain          = "http://www.w3.org/2000/01/rdf-schema#domain"
	RDFSRange           = "http://www.w3.org/2000/01/rdf-schema#range"
	RDFSIsDefinedBy     = "http://www.w3.org/2000/01/rdf-schema#isDefinedBy"
	OWLOntology         = "http://www.w3.org/2002/07/owl#Ontology"
	OWLClass            = "http://www.w3.org/2002/07/owl#Class"
	OWLObjectProperty   = "http://www.w3.org/2002/07/owl#ObjectProperty"
	OWLDatatypeProperty = "http://www.w3.org/2002/07/owl#DatatypeProperty"
	OWLNamedIndividual  = "http://www.w3.org/2002/07/owl#NamedIndividual"
	VANNPreferredPrefix = "http://purl.org/vocab/vann/preferredNamespacePrefix"
	VANNPreferredNSURI  = "http://purl.org/vocab/vann/preferredNamespaceUri"
)

// NQuads writes events as RDF quads in the ontology's named graph. Full
// definitions produce type, structure, and fact statements; translations
// produce fact statements only.
type NQuads struct {
	w *nquads.Writer
}

// NewNQuads returns an NQuads handler writing to w. Call Close when done.
func NewNQuads(w io.Writer) *NQuads {
	return &NQuads{w: nquads.NewWriter(w)}
}

// Close flushes the underlying writer.
func (s *NQuads) Close() error {
	return s.w.Close()
}

type statements struct {
	graph string
	quads []quad.Quad
}

func (st *statements) iri(sub, pred, obj string) {
	if obj == "" {
		return
	}
	st.add(sub, pred, quad.IRI(obj))
}

func (st *statements) add(sub, pred string, obj quad.Value) {
	q := quad.Quad{Subject: quad.IRI(sub), Predicate: quad.IRI(pred), Object: obj}
	if st.graph != "" {
		q.Label = quad.IRI(st.graph)
	}
	st.quads = append(st.quads, q)
}

func (st *statements) facts(sub string, facts []tags.Fact) {
	for _, f := range facts {
		st.add(sub, f.Predicate, literal(f))
	}
}

func literal(f tags.Fact) quad.Value {
	if f.Language == "" {
		return quad.String(f.Value)
	}
	return quad.LangString{Value: quad.String(f.Value), Lang: f.Language}
}

func (s *NQuads) flush(st *statements, what string) error {
	if _, err := s.w.WriteQuads(st.quads); err != nil {
		return fmt.Errorf("write %s: %w", what, err)
	}
	return nil
}

// OnOntology writes the ontology header.
func (s *NQuads) OnOntology(ev convert.OntologyEvent) error {
	st := &statements{graph: ev.Ontology}
	st.iri(ev.Ontology, RDFType, OWLOntology)
	if ev.Prefix != "" {
		st.add(ev.Ontology, VANNPreferredPrefix, quad.String(ev.Prefix))
	}
	st.add(ev.Ontology, VANNPreferredNSURI, quad.String(ev.Namespace))
	st.facts(ev.Ontology, ev.Facts)
	return s.flush(st, ev.Package.Path())
}

// OnClass writes a class or datatype.
func (s *NQuads) OnClass(ev convert.ClassEvent) error {
	st := &statements{graph: ev.Ontology}
	if ev.Scope == convert.FullDefinition {
		typ := OWLClass
		if ev.Element.Kind == model.Datatype {
			typ = RDFSDatatype
		}
		st.iri(ev.IRI, RDFType, typ)
		st.iri(ev.IRI, RDFSIsDefinedBy, ev.Ontology)
		for _, p := range ev.Parents {
			st.iri(ev.IRI, RDFSSubClassOf, p)
		}
	}
	st.facts(ev.IRI, ev.Facts)
	return s.flush(st, ev.Element.Path())
}

// OnProperty writes an object, datatype, or generic property.
func (s *NQuads) OnProperty(ev convert.PropertyEvent) error {
	st := &statements{graph: ev.Ontology}
	if ev.Scope == convert.FullDefinition {
		typ := RDFProperty
		switch ev.Kind {
		case convert.Object:
			typ = OWLObjectProperty
		case convert.Datatype:
			typ = OWLDatatypeProperty
		}
		st.iri(ev.IRI, RDFType, typ)
		st.iri(ev.IRI, RDFSIsDefinedBy, ev.Ontology)
		st.iri(ev.IRI, RDFSDomain, ev.Domain)
		st.iri(ev.IRI, RDFSRange, ev.Range)
		for _, p := range ev.SuperProperties {
			st.iri(ev.IRI, RDFSSubPropertyOf, p)
		}
	}
	st.facts(ev.IRI, ev.Facts)
	return s.flush(st, ev.Source.Path())
}

// OnInstance writes an enumeration literal as a named individual.
func (s *NQuads) OnInstance(ev convert.InstanceEvent) error {
	st := &statements{graph: ev.Ontology}
	if ev.Scope == convert.FullDefinition {
		st.iri(ev.IRI, RDFType, OWLNamedIndividual)
		st.iri(ev.IRI, RDFType, ev.Class)
		st.iri(ev.IRI, RDFSIsDefinedBy, ev.Ontology)
	}
	st.facts(ev.IRI, ev.Facts)
	return s.flush(st, ev.Attribute.Path())
}
