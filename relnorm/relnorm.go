// Package relnorm normalizes relationships that carry an association anchor
// (an association class) into ordinary binary relationships.
//
// Every normalized relationship is a Ref: a small comparable value naming the
// wrapped relationship and how it is projected. Refs are used directly as map
// keys, so relationships collected from several diagram views de-duplicate by
// identity. View projects a Ref into the relationship record consumers read.
package relnorm

import (
	"strings"

	"github.com/CaliLuke/go-umlsem/model"
)

// Kind discriminates the Ref variants.
type Kind uint8

const (
	// KindPlain is a relationship used as declared.
	KindPlain Kind = iota
	// KindHalf is one half of a binary split through the anchor.
	KindHalf
	// KindDerived links the anchor directly to one original endpoint.
	KindDerived
	// KindStripped is the relationship with its anchor hidden.
	KindStripped
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindHalf:
		return "half"
	case KindDerived:
		return "derived"
	case KindStripped:
		return "stripped"
	default:
		return "unknown"
	}
}

// Half selects one side of a binary split.
type Half uint8

const (
	// HalfSource runs from the source to the anchor.
	HalfSource Half = iota + 1
	// HalfTarget runs from the anchor to the destination.
	HalfTarget
)

// Tag key prefixes routing a tag to one half of a split.
const (
	PrefixSource    = "source-"
	PrefixSourceRev = "source-rev-"
	PrefixTarget    = "target-"
	PrefixTargetRev = "target-rev-"
)

// Ref identifies a relationship as seen by consumers. Two Refs are equal when
// they wrap the same relationship the same way.
type Ref struct {
	Kind Kind
	Rel  *model.Relationship
	// Half is set for KindHalf only.
	Half Half
	// Endpoint is set for KindDerived only.
	Endpoint *model.Element
}

// Plain wraps r unchanged.
func Plain(r *model.Relationship) Ref {
	return Ref{Kind: KindPlain, Rel: r}
}

// Split returns the two halves of r: source to anchor, then anchor to
// destination.
func Split(r *model.Relationship) (Ref, Ref) {
	return Ref{Kind: KindHalf, Rel: r, Half: HalfSource},
		Ref{Kind: KindHalf, Rel: r, Half: HalfTarget}
}

// Synthesize links r's anchor to the endpoint picked by the diagram label
// direction: the source when the label reads destination to source, the
// destination otherwise.
func Synthesize(r *model.Relationship, label model.Direction) Ref {
	endpoint := r.Destination
	if label == model.DestinationToSource {
		endpoint = r.Source
	}
	return Ref{Kind: KindDerived, Rel: r, Endpoint: endpoint}
}

// Strip wraps r with its anchor hidden.
func Strip(r *model.Relationship) Ref {
	return Ref{Kind: KindStripped, Rel: r}
}

// Policy selects how anchored relationships are normalized.
type Policy int

const (
	// PolicySplit replaces an anchored relationship by its two halves.
	PolicySplit Policy = iota
	// PolicySynthesize keeps the relationship without anchor and adds a
	// derived anchor-to-endpoint relationship.
	PolicySynthesize
	// PolicyIgnoreAnchor treats the relationship as plain binary.
	PolicyIgnoreAnchor
)

// ParsePolicy maps "split", "synthesize", and "ignore" to a Policy.
func ParsePolicy(s string) (Policy, bool) {
	switch strings.ToLower(s) {
	case "", "split":
		return PolicySplit, true
	case "synthesize":
		return PolicySynthesize, true
	case "ignore":
		return PolicyIgnoreAnchor, true
	}
	return PolicySplit, false
}

// String returns the policy keyword.
func (p Policy) String() string {
	switch p {
	case PolicySynthesize:
		return "synthesize"
	case PolicyIgnoreAnchor:
		return "ignore"
	default:
		return "split"
	}
}

// Expand normalizes r under policy. Relationships without an anchor always
// come back as a single plain Ref.
func Expand(r *model.Relationship, policy Policy, label model.Direction) []Ref {
	if r.Anchor == nil {
		return []Ref{Plain(r)}
	}
	switch policy {
	case PolicySynthesize:
		return []Ref{Strip(r), Synthesize(r, label)}
	case PolicyIgnoreAnchor:
		return []Ref{Strip(r)}
	default:
		h1, h2 := Split(r)
		return []Ref{h1, h2}
	}
}

// GUID returns the identifier of the projected relationship. Derived
// relationships get "Derived:<anchor>-><endpoint>", stable across runs.
func (ref Ref) GUID() string {
	if ref.Kind == KindDerived {
		return "Derived:" + ref.Rel.Anchor.GUID + "->" + ref.Endpoint.GUID
	}
	return ref.Rel.GUID
}

// Path renders the Ref for diagnostics.
func (ref Ref) Path() string {
	switch ref.Kind {
	case KindHalf:
		if ref.Half == HalfSource {
			return ref.Rel.Path() + " (source half)"
		}
		return ref.Rel.Path() + " (target half)"
	case KindDerived:
		return ref.Rel.Anchor.Path() + " -> " + ref.Endpoint.Path() + " (derived)"
	default:
		return ref.Rel.Path()
	}
}

// Key renders ref as a string that is stable across loads of the same model,
// for use outside the process (snapshots, stored rows).
func (ref Ref) Key() string {
	switch ref.Kind {
	case KindHalf:
		if ref.Half == HalfSource {
			return ref.Rel.GUID + "/source"
		}
		return ref.Rel.GUID + "/target"
	case KindStripped:
		return ref.Rel.GUID + "/stripped"
	default:
		return ref.GUID()
	}
}
