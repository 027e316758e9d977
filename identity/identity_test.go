package identity

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/CaliLuke/go-umlsem/model"
	"github.com/CaliLuke/go-umlsem/relnorm"
)

const testModel = `
package Root {
    tag baseURI = "http://example.org/root#"
    package Person {
        tag baseURI = "http://example.org/person#"
        tag baseURIabbrev = "person"

        class Person {
            attribute firstName : String ["0..1"]
            attribute "family name" : String
            attribute gender : Gender { tag name = "geslacht" }
        }
        class Agent { tag uri = "http://xmlns.com/foaf/0.1/Agent" }
        class Group { tag name = "Groep" }
        class Membership
        class Hidden { tag ignore = "true" }
        class "Bad Name"
        enumeration Gender {
            literal male
            literal female { tag uri = "http://example.org/codes/female" }
        }
        class Address { tag package = "Location" }

        generalization Person -> Agent dir forward
        association "has member" Group -> Person dir forward roles "group" "member" anchor Membership {
            tag source-name = "hasMembership"
            tag target-name = "member"
        }
        association "knows" Person -> Person dir forward
        association "lives at" Person -> Location.Place dir forward
        association "works at" Person -> Location.Place dir forward {
            tag package = "Location"
        }
        association "sameAs" Person -> Agent {
            tag uri = "http://www.w3.org/2002/07/owl#sameAs"
        }
    }
    package Location {
        tag baseURI = "http://example.org/location#"
        tag ontologyURI = "http://example.org/ontology/location"
        class Place
    }
}
`

func load(t *testing.T, src string) *model.Model {
	t.Helper()
	m, err := model.Parse("test.uml", src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return m
}

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func element(t *testing.T, m *model.Model, pkg, name string) *model.Element {
	t.Helper()
	for _, e := range m.Elements() {
		if e.Package.Name == pkg && e.Name == name {
			return e
		}
	}
	t.Fatalf("element %s.%s not found", pkg, name)
	return nil
}

func relationship(t *testing.T, m *model.Model, name string) *model.Relationship {
	t.Helper()
	for _, r := range m.Relationships() {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("relationship %q not found", name)
	return nil
}

func pkg(t *testing.T, m *model.Model, name string) *model.Package {
	t.Helper()
	for _, p := range m.Packages() {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("package %q not found", name)
	return nil
}

func TestAssign_Packages(t *testing.T) {
	m := load(t, testModel)
	table := Assign(m, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	person := table.Packages[pkg(t, m, "Person")]
	if person.IRI != "http://example.org/person#" {
		t.Errorf("IRI = %q", person.IRI)
	}
	if person.Ontology != "http://example.org/person" {
		t.Errorf("Ontology = %q, want namespace without separator", person.Ontology)
	}
	if person.Prefix != "person" {
		t.Errorf("Prefix = %q", person.Prefix)
	}

	loc := table.Packages[pkg(t, m, "Location")]
	if loc.Ontology != "http://example.org/ontology/location" {
		t.Errorf("Ontology = %q, want explicit ontologyURI", loc.Ontology)
	}
}

func TestAssign_MissingBaseURI(t *testing.T) {
	m := load(t, `package Root { class Thing }`)
	logger, buf := captureLogger()
	table := Assign(m, Options{Logger: logger})

	ns := table.Packages[m.Root]
	if ns.IRI != DefaultBaseURI || ns.Ontology != "http://fixme.com" {
		t.Errorf("namespace = %+v, want fixme default", ns)
	}
	if !strings.Contains(buf.String(), "tag=baseURI") {
		t.Errorf("expected a warning about the missing baseURI, log:\n%s", buf.String())
	}
	if got := table.Elements[m.Root.Elements[0]].IRI; got != "http://fixme.com#Thing" {
		t.Errorf("element IRI = %q", got)
	}
}

func TestAssign_Elements(t *testing.T) {
	m := load(t, testModel)
	logger, buf := captureLogger()
	table := Assign(m, Options{Logger: logger})

	tests := []struct {
		name   string
		want   string
		custom bool
	}{
		{"Person", "http://example.org/person#Person", false},
		{"Agent", "http://xmlns.com/foaf/0.1/Agent", true},
		{"Group", "http://example.org/person#Groep", false},
		{"Gender", "http://example.org/person#Gender", false},
		{"Address", "http://example.org/location#Address", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, ok := table.Elements[element(t, m, "Person", tt.name)]
			if !ok {
				t.Fatalf("no IRI assigned")
			}
			if term.IRI != tt.want {
				t.Errorf("IRI = %q, want %q", term.IRI, tt.want)
			}
			if term.Custom != tt.custom {
				t.Errorf("Custom = %v, want %v", term.Custom, tt.custom)
			}
		})
	}

	if term := table.Elements[element(t, m, "Person", "Group")]; term.LocalName != "Groep" {
		t.Errorf("computed name = %q, want Groep", term.LocalName)
	}
	if term := table.Elements[element(t, m, "Person", "Address")]; term.Package.Name != "Location" {
		t.Errorf("defining package = %s, want Location", term.Package.Name)
	}
	if _, ok := table.Elements[element(t, m, "Person", "Hidden")]; ok {
		t.Error("ignored element must not receive an IRI")
	}
	if _, ok := table.Elements[element(t, m, "Person", "Bad Name")]; ok {
		t.Error("element with an invalid IRI must be left out")
	}
	if !strings.Contains(buf.String(), "invalid element IRI") {
		t.Errorf("expected an error for the invalid element IRI, log:\n%s", buf.String())
	}
}

func TestAssign_AttributesAndInstances(t *testing.T) {
	m := load(t, testModel)
	logger, buf := captureLogger()
	table := Assign(m, Options{Logger: logger})

	person := element(t, m, "Person", "Person")
	if got := table.Properties[person.Attributes[0]].IRI; got != "http://example.org/person#firstName" {
		t.Errorf("firstName IRI = %q", got)
	}
	if _, ok := table.Properties[person.Attributes[1]]; ok {
		t.Error("attribute with an invalid property IRI must be left out")
	}
	if !strings.Contains(buf.String(), "invalid property IRI") {
		t.Errorf("expected an error for the invalid property IRI, log:\n%s", buf.String())
	}
	if got := table.Properties[person.Attributes[2]].IRI; got != "http://example.org/person#geslacht" {
		t.Errorf("gender IRI = %q", got)
	}

	gender := element(t, m, "Person", "Gender")
	male, ok := table.Attribute(gender.Attributes[0])
	if !ok || male.IRI != "http://example.org/person/Gender/male" {
		t.Errorf("male IRI = %q, want instance namespace", male.IRI)
	}
	if _, ok := table.Properties[gender.Attributes[0]]; ok {
		t.Error("enumeration literal must not be a property")
	}
	female := table.Instances[gender.Attributes[1]]
	if female.IRI != "http://example.org/codes/female" || !female.Custom {
		t.Errorf("female = %+v, want custom IRI", female)
	}
}

func TestAssign_EmptyNameYieldsNamespace(t *testing.T) {
	m := load(t, `package Root { tag baseURI = "http://example.org/x#" class "" }`)
	logger, buf := captureLogger()
	table := Assign(m, Options{Logger: logger})

	if got := table.Elements[m.Root.Elements[0]].IRI; got != "http://example.org/x#" {
		t.Errorf("IRI = %q, want namespace only", got)
	}
	if !strings.Contains(buf.String(), "object has no name") {
		t.Errorf("expected an error for the missing name, log:\n%s", buf.String())
	}
}

func TestAssign_PackageTagResolution(t *testing.T) {
	src := `package Root {
    tag baseURI = "http://example.org/root#"
    package Shared { tag baseURI = "http://example.org/a#" }
    package Inner {
        tag baseURI = "http://example.org/inner#"
        package Shared { tag baseURI = "http://example.org/b#" }
        class Ambiguous { tag package = "Shared" }
        class Unknown { tag package = "Nowhere" }
    }
}`
	m := load(t, src)
	logger, buf := captureLogger()
	table := Assign(m, Options{Logger: logger})

	if got := table.Elements[element(t, m, "Inner", "Ambiguous")].IRI; got != "http://example.org/a#Ambiguous" {
		t.Errorf("ambiguous package tag resolved to %q, want the first package in model order", got)
	}
	if !strings.Contains(buf.String(), "package tag is ambiguous") {
		t.Errorf("expected an ambiguity warning, log:\n%s", buf.String())
	}
	if got := table.Elements[element(t, m, "Inner", "Unknown")].IRI; got != "http://example.org/inner#Unknown" {
		t.Errorf("unknown package tag resolved to %q, want the containing package", got)
	}
	if !strings.Contains(buf.String(), "package tag names no known package") {
		t.Errorf("expected an unknown package warning, log:\n%s", buf.String())
	}
}

func TestAssign_Relationships(t *testing.T) {
	m := load(t, testModel)
	logger, buf := captureLogger()
	table := Assign(m, Options{Logger: logger})

	knows := relationship(t, m, "knows")
	if got := table.Relationships[relnorm.Plain(knows)].IRI; got != "http://example.org/person#knows" {
		t.Errorf("knows IRI = %q", got)
	}
	if !strings.Contains(buf.String(), "assuming the endpoints' package") {
		t.Errorf("expected an inference note, log:\n%s", buf.String())
	}

	if _, ok := table.Relationships[relnorm.Plain(relationship(t, m, "lives at"))]; ok {
		t.Error("cross-package relationship without package tag must be dropped")
	}
	if !strings.Contains(buf.String(), "cannot determine defining package") {
		t.Errorf("expected a warning for the dropped relationship, log:\n%s", buf.String())
	}

	works := table.Relationships[relnorm.Plain(relationship(t, m, "works at"))]
	if works.IRI != "http://example.org/location#worksAt" {
		t.Errorf("works at IRI = %q, want camel-cased under Location", works.IRI)
	}
	if !strings.Contains(buf.String(), "not lower camel case") {
		t.Errorf("expected a camel-case warning, log:\n%s", buf.String())
	}

	same := table.Relationships[relnorm.Plain(relationship(t, m, "sameAs"))]
	if same.IRI != "http://www.w3.org/2002/07/owl#sameAs" || !same.Custom {
		t.Errorf("sameAs = %+v, want custom IRI", same)
	}

	for ref := range table.Relationships {
		if ref.Rel.Kind == model.Generalization {
			t.Errorf("generalization %s received an IRI", ref.Path())
		}
	}
}

func TestAssign_SplitHalves(t *testing.T) {
	m := load(t, testModel)
	table := Assign(m, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), AnchorPolicy: relnorm.PolicySplit})

	r := relationship(t, m, "has member")
	h1, h2 := relnorm.Split(r)
	if got := table.Relationships[h1].IRI; got != "http://example.org/person#hasMembership" {
		t.Errorf("H1 IRI = %q", got)
	}
	if got := table.Relationships[h2].IRI; got != "http://example.org/person#member" {
		t.Errorf("H2 IRI = %q", got)
	}
	if _, ok := table.Relationships[relnorm.Plain(r)]; ok {
		t.Error("split relationship must not also be registered whole")
	}
}

func TestAssign_SynthesizedRelationships(t *testing.T) {
	m := load(t, testModel)
	table := Assign(m, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), AnchorPolicy: relnorm.PolicySynthesize})

	r := relationship(t, m, "has member")
	if got := table.Relationships[relnorm.Strip(r)].IRI; got != "http://example.org/person#hasMember" {
		t.Errorf("stripped IRI = %q", got)
	}
	toMember := table.Relationships[relnorm.Synthesize(r, model.SourceToDestination)]
	if toMember.IRI != "http://example.org/person#Membership.member" {
		t.Errorf("derived IRI = %q", toMember.IRI)
	}
	toGroup := table.Relationships[relnorm.Synthesize(r, model.DestinationToSource)]
	if toGroup.IRI != "http://example.org/person#Membership.group" {
		t.Errorf("derived IRI = %q", toGroup.IRI)
	}
}

func TestAssign_EndToEndPerson(t *testing.T) {
	m := load(t, `package Root {
    tag baseURI = "http://example.org/root#"
    package People {
        tag baseURI = "http://example.org/person#"
        class Person
    }
}`)
	table := Assign(m, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if got := table.Elements[element(t, m, "People", "Person")].IRI; got != "http://example.org/person#Person" {
		t.Errorf("IRI = %q, want %q", got, "http://example.org/person#Person")
	}
}

func TestAssign_PackageCollision(t *testing.T) {
	m := load(t, `package Root {
    tag baseURI = "http://example.org/root#"
    package A { tag baseURI = "http://example.org/same#" }
    package B { tag baseURI = "http://example.org/same#" }
}`)
	logger, buf := captureLogger()
	table := Assign(m, Options{Logger: logger})

	if len(table.Packages) != 3 {
		t.Errorf("expected all 3 packages to keep their IRI, got %d", len(table.Packages))
	}
	log := buf.String()
	if n := strings.Count(log, "URI collision"); n != 1 {
		t.Fatalf("expected exactly one collision warning, got %d; log:\n%s", n, log)
	}
	if !strings.Contains(log, "Root/A") || !strings.Contains(log, "Root/B") {
		t.Errorf("collision warning must name both paths, log:\n%s", log)
	}
}

func TestAssign_PropertyCollisionAcrossAttributesAndRelationships(t *testing.T) {
	m := load(t, `package Root {
    tag baseURI = "http://example.org/x#"
    class A { attribute knows : String }
    class B
    association "knows" A -> B dir forward
}`)
	logger, buf := captureLogger()
	Assign(m, Options{Logger: logger})

	log := buf.String()
	if !strings.Contains(log, "category=property") || !strings.Contains(log, "Root.A#knows") {
		t.Errorf("expected a property collision naming the attribute, log:\n%s", log)
	}
}

func TestAssign_Idempotent(t *testing.T) {
	m := load(t, testModel)
	opts := Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), AnchorPolicy: relnorm.PolicySynthesize}
	first := Assign(m, opts)
	second := Assign(m, opts)

	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over the same model produced different tables")
	}

	reloaded := Assign(load(t, testModel), opts)
	if diff := first.Snapshot().Diff(reloaded.Snapshot()); len(diff) != 0 {
		t.Errorf("reloading the model changed IRIs:\n%s", strings.Join(diff, "\n"))
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	m := load(t, testModel)
	table := Assign(m, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	snap := table.Snapshot()

	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, snap); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	got, err := ReadSnapshot(&buf)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if diff := snap.Diff(got); len(diff) != 0 {
		t.Errorf("round trip changed the snapshot:\n%s", strings.Join(diff, "\n"))
	}

	person := element(t, m, "Person", "Person")
	got.Elements[person.GUID] = "http://example.org/changed#Person"
	diff := snap.Diff(got)
	if len(diff) != 1 || !strings.HasPrefix(diff[0], "element/"+person.GUID) {
		t.Errorf("Diff = %v, want one element change", diff)
	}
}

func TestAssigner_StageOrder(t *testing.T) {
	m := load(t, testModel)
	a := NewAssigner(m, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	var se *StageError
	if err := a.AssignRelationships(); !errors.As(err, &se) {
		t.Fatalf("expected StageError, got %v", err)
	}
	if se.Want != ElementsAssigned || se.Got != NotStarted {
		t.Errorf("unexpected stage error: %v", se)
	}

	steps := []struct {
		run  func() error
		want Stage
	}{
		{a.AssignPackages, PackagesAssigned},
		{a.AssignElements, ElementsAssigned},
		{a.AssignRelationships, RelationshipsAssigned},
		{a.CheckCollisions, Complete},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Stage() != s.want {
			t.Errorf("Stage = %s, want %s", a.Stage(), s.want)
		}
	}
	if err := a.AssignPackages(); !errors.As(err, &se) {
		t.Error("expected a second AssignPackages to fail")
	}
}

func TestToLowerCamel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"has member", "hasMember"},
		{"Works at", "worksAt"},
		{"knows", "knows"},
		{"isPartOf", "isPartOf"},
		{"  spaced   out  name ", "spacedOutName"},
		{"heeft eHealth account", "heeftEHealthAccount"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ToLowerCamel(tt.input); got != tt.expected {
				t.Errorf("ToLowerCamel(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidIRI(t *testing.T) {
	tests := []struct {
		iri      string
		valid    bool
		property bool
	}{
		{"http://example.org/person#Person", true, true},
		{"http://example.org/person#", true, false},
		{"urn:example:thing", true, true},
		{"http://example.org/person#family name", false, false},
		{"person#Person", false, false},
		{"", false, false},
		{"http://example.org/person#1st", true, false},
		{"http://example.org/p#_hidden", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.iri, func(t *testing.T) {
			if got := ValidIRI(tt.iri); got != tt.valid {
				t.Errorf("ValidIRI(%q) = %v, want %v", tt.iri, got, tt.valid)
			}
			if got := ValidPropertyIRI(tt.iri); got != tt.property {
				t.Errorf("ValidPropertyIRI(%q) = %v, want %v", tt.iri, got, tt.property)
			}
		})
	}
}
