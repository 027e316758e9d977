package relnorm

import (
	"strings"

	"github.com/CaliLuke/go-umlsem/model"
)

// Fixed descriptions carried by every derived anchor-to-endpoint relationship.
const (
	DerivedLabel      = "association participant"
	DerivedDefinition = "Links an instance of an association class to one participant of the association it qualifies."
	DerivedUsage      = "Generated from an association class; not modelled as a separate relationship."
)

// View projects ref into the relationship record consumers read. Plain refs
// return the wrapped relationship itself; every other kind returns a fresh
// record that must not be used as an identity.
func (ref Ref) View() *model.Relationship {
	r := ref.Rel
	switch ref.Kind {
	case KindHalf:
		v := *r
		v.Anchor = nil
		v.Direction = model.SourceToDestination
		v.Tags = halfTags(r, ref.Half)
		if ref.Half == HalfSource {
			v.Destination = r.Anchor
		} else {
			v.Source = r.Anchor
		}
		return &v
	case KindDerived:
		v := &model.Relationship{
			Kind:        model.Association,
			Source:      r.Anchor,
			Destination: ref.Endpoint,
			DestRole:    derivedRole(ref),
			DestCard:    "1",
			Direction:   model.SourceToDestination,
		}
		v.Name = v.DestRole
		v.GUID = ref.GUID()
		v.Tags = derivedTags()
		return v
	case KindStripped:
		v := *r
		v.Anchor = nil
		return &v
	default:
		return r
	}
}

// halfTags keeps the tags routed to one half and strips their prefix. When
// the relationship is declared destination to source the "-rev-" variants
// come first so they win single-value lookups.
func halfTags(r *model.Relationship, half Half) []model.Tag {
	prefix, revPrefix := PrefixSource, PrefixSourceRev
	if half == HalfTarget {
		prefix, revPrefix = PrefixTarget, PrefixTargetRev
	}
	var plain, rev []model.Tag
	for _, t := range r.Tags {
		switch {
		case strings.HasPrefix(t.Key, revPrefix):
			t.Key = strings.TrimPrefix(t.Key, revPrefix)
			rev = append(rev, t)
		case strings.HasPrefix(t.Key, prefix):
			t.Key = strings.TrimPrefix(t.Key, prefix)
			plain = append(plain, t)
		}
	}
	if r.Direction == model.DestinationToSource {
		return append(rev, plain...)
	}
	return append(plain, rev...)
}

// derivedRole names the derived relationship after the endpoint's role in the
// original relationship, falling back to the endpoint element's name.
func derivedRole(ref Ref) string {
	r := ref.Rel
	role := r.DestRole
	if ref.Endpoint == r.Source && ref.Endpoint != r.Destination {
		role = r.SourceRole
	}
	if role == "" {
		role = ref.Endpoint.Name
	}
	return role
}

func derivedTags() []model.Tag {
	return []model.Tag{
		{Key: "label", Value: DerivedLabel},
		{Key: "ap-label", Value: DerivedLabel},
		{Key: "definition", Value: DerivedDefinition},
		{Key: "ap-definition", Value: DerivedDefinition},
		{Key: "usage", Value: DerivedUsage},
		{Key: "ap-usage", Value: DerivedUsage},
	}
}
