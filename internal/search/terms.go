package search

// TermGroup is the unit of matching: a canonical search term plus
// every surface form that counts as a hit for it. The canonical term
// is always a member of Variants.
type TermGroup struct {
	Term     string   `json:"term"`
	Variants []string `json:"variants"`
}

// HasVariant reports whether the group already carries the given
// (normalized) variant.
func (g TermGroup) HasVariant(v string) bool {
	for _, existing := range g.Variants {
		if existing == v {
			return true
		}
	}
	return false
}

// BuildGroups converts raw terms into single-variant term groups.
// This is the path used for free-text tokens, voice transcripts, and
// vision-extracted labels: each term is normalized and becomes its
// own group. Terms that normalize to the empty string are dropped.
func BuildGroups(terms []string) []TermGroup {
	groups := make([]TermGroup, 0, len(terms))
	for _, t := range terms {
		n := Normalize(t)
		if n == "" {
			continue
		}
		groups = append(groups, TermGroup{Term: n, Variants: []string{n}})
	}
	return groups
}

// GroupsFromFacets builds one term group per selected facet, expanded
// through the variation table. This is the mood-wheel path; it feeds
// the same merge/match pipeline as free-text search.
func GroupsFromFacets(table *VariationTable, facets []string) []TermGroup {
	groups := make([]TermGroup, 0, len(facets))
	for _, f := range facets {
		variants := table.VariationsFor(f)
		if len(variants) == 0 {
			continue
		}
		groups = append(groups, TermGroup{Term: variants[0], Variants: variants})
	}
	return groups
}

// MergeGroups folds term groups from any number of sources into one
// set keyed by canonical term. Groups sharing a term are merged by
// unioning their variants (each variant normalized on the way in).
// Output preserves first-seen key order so diagnostics stay
// reproducible across runs.
func MergeGroups(groups []TermGroup) []TermGroup {
	var order []string
	byTerm := make(map[string]*TermGroup)

	for _, g := range groups {
		term := Normalize(g.Term)
		if term == "" {
			continue
		}

		merged, ok := byTerm[term]
		if !ok {
			merged = &TermGroup{Term: term, Variants: []string{term}}
			byTerm[term] = merged
			order = append(order, term)
		}

		for _, v := range g.Variants {
			nv := Normalize(v)
			if nv == "" || merged.HasVariant(nv) {
				continue
			}
			merged.Variants = append(merged.Variants, nv)
		}
	}

	out := make([]TermGroup, 0, len(order))
	for _, term := range order {
		out = append(out, *byTerm[term])
	}
	return out
}

// Terms returns just the canonical terms of a group slice, in order.
// Used for debug provenance payloads.
func Terms(groups []TermGroup) []string {
	terms := make([]string, 0, len(groups))
	for _, g := range groups {
		terms = append(terms, g.Term)
	}
	return terms
}
