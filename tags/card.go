package tags

import "strings"

// ParseCardinality splits a multiplicity string into its bounds. "m..n" yields
// (m, n); a single value is used for both bounds; an empty string yields
// (nil, nil). Bounds are returned verbatim, so "*" survives as an upper bound.
func ParseCardinality(card string) (lower, upper *string) {
	card = strings.TrimSpace(card)
	if card == "" {
		return nil, nil
	}
	lo, hi, ok := strings.Cut(card, "..")
	if !ok {
		return strPtr(card), strPtr(card)
	}
	lo, hi = strings.TrimSpace(lo), strings.TrimSpace(hi)
	if lo != "" {
		lower = strPtr(lo)
	}
	if hi != "" {
		upper = strPtr(hi)
	}
	return lower, upper
}

func strPtr(s string) *string {
	return &s
}
