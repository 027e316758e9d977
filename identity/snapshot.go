package identity

import (
	"fmt"
	"io"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot is a Table keyed by GUID instead of object identity, so tables from
// separate runs can be stored and compared.
type Snapshot struct {
	Packages      map[string]Namespace `msgpack:"packages"`
	Elements      map[string]string    `msgpack:"elements"`
	Properties    map[string]string    `msgpack:"properties"`
	Instances     map[string]string    `msgpack:"instances"`
	Relationships map[string]string    `msgpack:"relationships"`
}

// Snapshot converts t into its GUID-keyed form.
func (t *Table) Snapshot() *Snapshot {
	s := &Snapshot{
		Packages:      make(map[string]Namespace, len(t.Packages)),
		Elements:      make(map[string]string, len(t.Elements)),
		Properties:    make(map[string]string, len(t.Properties)),
		Instances:     make(map[string]string, len(t.Instances)),
		Relationships: make(map[string]string, len(t.Relationships)),
	}
	for p, ns := range t.Packages {
		s.Packages[p.GUID] = ns
	}
	for e, term := range t.Elements {
		s.Elements[e.GUID] = term.IRI
	}
	for a, term := range t.Properties {
		s.Properties[a.GUID] = term.IRI
	}
	for a, term := range t.Instances {
		s.Instances[a.GUID] = term.IRI
	}
	for ref, term := range t.Relationships {
		s.Relationships[ref.Key()] = term.IRI
	}
	return s
}

// WriteSnapshot encodes s as msgpack.
func WriteSnapshot(w io.Writer, s *Snapshot) error {
	if err := msgpack.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}

// Diff lists every key whose IRI differs between s and other, as
// "category/key: old -> new" lines in sorted order. Missing entries read as
// empty IRIs.
func (s *Snapshot) Diff(other *Snapshot) []string {
	var out []string
	pkgs := func(m map[string]Namespace) map[string]string {
		flat := make(map[string]string, len(m))
		for k, ns := range m {
			flat[k] = ns.IRI + " " + ns.Ontology
		}
		return flat
	}
	out = diffMaps(out, "package", pkgs(s.Packages), pkgs(other.Packages))
	out = diffMaps(out, "element", s.Elements, other.Elements)
	out = diffMaps(out, "property", s.Properties, other.Properties)
	out = diffMaps(out, "instance", s.Instances, other.Instances)
	out = diffMaps(out, "relationship", s.Relationships, other.Relationships)
	sort.Strings(out)
	return out
}

func diffMaps(out []string, category string, a, b map[string]string) []string {
	for k, av := range a {
		if bv := b[k]; av != bv {
			out = append(out, fmt.Sprintf("%s/%s: %s -> %s", category, k, av, bv))
		}
	}
	for k, bv := range b {
		if _, ok := a[k]; !ok {
			out = append(out, fmt.Sprintf("%s/%s:  -> %s", category, k, bv))
		}
	}
	return out
}
