package relnorm

import (
	"sort"
	"strings"
	"testing"

	"github.com/CaliLuke/go-umlsem/model"
)

func element(name, guid string) *model.Element {
	e := &model.Element{}
	e.Name = name
	e.GUID = guid
	return e
}

func anchored() *model.Relationship {
	r := &model.Relationship{
		Kind:        model.Association,
		Source:      element("Group", "{G}"),
		Destination: element("Person", "{P}"),
		Anchor:      element("Membership", "{M}"),
		SourceRole:  "group",
		DestRole:    "member",
		SourceCard:  "0..*",
		DestCard:    "1..*",
		Direction:   model.Bidirectional,
	}
	r.Name = "has member"
	r.GUID = "{R}"
	r.Notes = "membership of a group"
	r.Tags = []model.Tag{
		{Key: "source-name", Value: "hasMembership"},
		{Key: "source-rev-name", Value: "membershipOf"},
		{Key: "target-name", Value: "member"},
		{Key: "target-rev-label-nl", Value: "lid van"},
		{Key: "label-nl", Value: "heeft lid"},
		{Key: "sourcename", Value: "not a prefix"},
	}
	return r
}

func tagSet(ts []model.Tag) []string {
	var out []string
	for _, t := range ts {
		out = append(out, t.Key+"="+t.Value)
	}
	sort.Strings(out)
	return out
}

func TestSplit_EndpointsMeetAtAnchor(t *testing.T) {
	r := anchored()
	h1, h2 := Split(r)
	v1, v2 := h1.View(), h2.View()

	if v1.Source != r.Source || v1.Destination != r.Anchor {
		t.Errorf("H1 = %s -> %s, want Group -> Membership", v1.Source.Name, v1.Destination.Name)
	}
	if v2.Source != r.Anchor || v2.Destination != r.Destination {
		t.Errorf("H2 = %s -> %s, want Membership -> Person", v2.Source.Name, v2.Destination.Name)
	}
	if v1.Destination != v2.Source {
		t.Error("H1.destination must equal H2.source")
	}
	for _, v := range []*model.Relationship{v1, v2} {
		if v.Anchor != nil {
			t.Error("halves must not carry an anchor")
		}
		if v.Direction != model.SourceToDestination {
			t.Errorf("half direction = %s, want forward", v.Direction)
		}
		if v.Name != r.Name || v.Notes != r.Notes || v.Kind != r.Kind {
			t.Errorf("scalar fields not forwarded: %+v", v.Meta)
		}
	}
	if r.Anchor == nil || len(r.Tags) != 6 {
		t.Error("Split must not modify the wrapped relationship")
	}
}

func TestSplit_TagUnionMatchesPrefixedTags(t *testing.T) {
	r := anchored()
	h1, h2 := Split(r)

	got := tagSet(append(h1.View().Tags, h2.View().Tags...))

	var want []string
	for _, tag := range r.Tags {
		for _, p := range []string{PrefixSourceRev, PrefixTargetRev, PrefixSource, PrefixTarget} {
			if strings.HasPrefix(tag.Key, p) {
				want = append(want, strings.TrimPrefix(tag.Key, p)+"="+tag.Value)
				break
			}
		}
	}
	sort.Strings(want)

	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("union of half tags = %v, want %v", got, want)
	}
}

func TestSplit_RevTagsWinWhenReversed(t *testing.T) {
	r := anchored()
	h1, _ := Split(r)
	if first := h1.View().Tags[0]; first.Value != "hasMembership" {
		t.Errorf("forward: first H1 tag = %+v, want hasMembership", first)
	}

	r.Direction = model.DestinationToSource
	if first := h1.View().Tags[0]; first.Value != "membershipOf" {
		t.Errorf("reversed: first H1 tag = %+v, want membershipOf", first)
	}
}

func TestSynthesize(t *testing.T) {
	r := anchored()

	fwd := Synthesize(r, model.SourceToDestination)
	if fwd.Endpoint != r.Destination {
		t.Errorf("forward label should link to destination, got %s", fwd.Endpoint.Name)
	}
	if got := fwd.GUID(); got != "Derived:{M}->{P}" {
		t.Errorf("GUID = %q, want %q", got, "Derived:{M}->{P}")
	}
	v := fwd.View()
	if v.Source != r.Anchor || v.Destination != r.Destination {
		t.Errorf("derived = %s -> %s", v.Source.Name, v.Destination.Name)
	}
	if v.GUID != "Derived:{M}->{P}" || v.Name != "member" {
		t.Errorf("derived GUID/name = %q/%q", v.GUID, v.Name)
	}
	keys := tagSet(v.Tags)
	if len(keys) != 6 {
		t.Errorf("expected 6 fixed tags, got %v", keys)
	}

	rev := Synthesize(r, model.DestinationToSource)
	if rev.Endpoint != r.Source || rev.GUID() != "Derived:{M}->{G}" {
		t.Errorf("reverse label should link to source, got %s (%s)", rev.Endpoint.Name, rev.GUID())
	}
	if rev.View().Name != "group" {
		t.Errorf("reverse derived name = %q, want group", rev.View().Name)
	}

	if Synthesize(r, model.SourceToDestination).GUID() != fwd.GUID() {
		t.Error("derived GUID must be stable")
	}
}

func TestStrip(t *testing.T) {
	r := anchored()
	v := Strip(r).View()
	if v.Anchor != nil {
		t.Error("stripped view must hide the anchor")
	}
	if v.Source != r.Source || v.Destination != r.Destination || v.Name != r.Name || len(v.Tags) != len(r.Tags) {
		t.Error("stripped view must forward every other field")
	}
	if r.Anchor == nil {
		t.Error("Strip must not modify the wrapped relationship")
	}
	if Plain(r).View() != r {
		t.Error("plain view must return the wrapped relationship")
	}
}

func TestRefEquality(t *testing.T) {
	r1 := anchored()
	r2 := anchored()

	a1, _ := Split(r1)
	b1, _ := Split(r1)
	if a1 != b1 {
		t.Error("same relationship and half must compare equal")
	}
	c1, _ := Split(r2)
	if a1 == c1 {
		t.Error("halves of distinct relationships must differ even when structurally identical")
	}
	_, a2 := Split(r1)
	if a1 == a2 {
		t.Error("source and target halves must differ")
	}
	if Synthesize(r1, model.SourceToDestination) == Synthesize(r1, model.DestinationToSource) {
		t.Error("derived refs to different endpoints must differ")
	}
	if Strip(r1) == Plain(r1) {
		t.Error("stripped and plain refs must differ")
	}

	set := map[Ref]bool{}
	for _, ref := range []Ref{a1, b1, a2, Strip(r1), Strip(r1), c1} {
		set[ref] = true
	}
	if len(set) != 4 {
		t.Errorf("expected 4 distinct refs, got %d", len(set))
	}
}

func TestExpand(t *testing.T) {
	r := anchored()
	tests := []struct {
		policy Policy
		kinds  []Kind
	}{
		{PolicySplit, []Kind{KindHalf, KindHalf}},
		{PolicySynthesize, []Kind{KindStripped, KindDerived}},
		{PolicyIgnoreAnchor, []Kind{KindStripped}},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			refs := Expand(r, tt.policy, model.SourceToDestination)
			if len(refs) != len(tt.kinds) {
				t.Fatalf("got %d refs, want %d", len(refs), len(tt.kinds))
			}
			for i, k := range tt.kinds {
				if refs[i].Kind != k {
					t.Errorf("refs[%d].Kind = %s, want %s", i, refs[i].Kind, k)
				}
			}
		})
	}

	plain := &model.Relationship{Source: r.Source, Destination: r.Destination}
	if refs := Expand(plain, PolicySplit, model.Unspecified); len(refs) != 1 || refs[0].Kind != KindPlain {
		t.Errorf("unanchored relationship should expand to one plain ref, got %+v", refs)
	}
}

func TestParsePolicy(t *testing.T) {
	for _, s := range []string{"split", "synthesize", "ignore"} {
		p, ok := ParsePolicy(s)
		if !ok || p.String() != s {
			t.Errorf("ParsePolicy(%q) = %s, %v", s, p, ok)
		}
	}
	if _, ok := ParsePolicy("bogus"); ok {
		t.Error("expected bogus policy to be rejected")
	}
}
