package search

import "regexp"

// ListingFields holds the semantic containers of a listing that term
// groups are evaluated against. Values are expected raw; the matcher
// normalizes them before comparison.
type ListingFields struct {
	Styles  []string
	Moods   []string
	Intents []string
}

// FieldMatches records which specific field values satisfied a group,
// per container. Used for UI transparency and the moods debug
// endpoint, not for ranking.
type FieldMatches struct {
	Styles  []string `json:"styles"`
	Moods   []string `json:"moods"`
	Intents []string `json:"intents"`
}

// MatchResult is the per-listing outcome for one term group.
type MatchResult struct {
	SelectedTerm   string        `json:"selected_term"`
	NormalizedTerm string        `json:"normalized_term"`
	Variants       []string      `json:"variants"`
	Matched        bool          `json:"matched"`
	MatchedIn      *FieldMatches `json:"matched_in,omitempty"`
}

// MatchGroup evaluates a single term group against a listing's
// searchable fields. A group matches when any of its variants hits
// any field value, either by exact equality after normalization or by
// a whole-word boundary match ("kitchen" hits "kitchen decor" but
// "art" does not hit "cart").
func MatchGroup(fields ListingFields, group TermGroup) MatchResult {
	result := MatchResult{
		SelectedTerm:   group.Term,
		NormalizedTerm: Normalize(group.Term),
		Variants:       group.Variants,
	}

	matchers := compileVariants(group.Variants)
	matched := &FieldMatches{
		Styles:  matchContainer(fields.Styles, matchers),
		Moods:   matchContainer(fields.Moods, matchers),
		Intents: matchContainer(fields.Intents, matchers),
	}

	if len(matched.Styles) > 0 || len(matched.Moods) > 0 || len(matched.Intents) > 0 {
		result.Matched = true
		result.MatchedIn = matched
	}
	return result
}

// MatchAll evaluates every group against the fields and reports
// whether the listing satisfies the full query. Matching is
// conjunctive: every group must match independently. An empty group
// set excludes nothing (allMatched is true); callers decide whether
// that means browse mode.
func MatchAll(fields ListingFields, groups []TermGroup) (results []MatchResult, allMatched bool) {
	allMatched = true
	results = make([]MatchResult, 0, len(groups))
	for _, g := range groups {
		r := MatchGroup(fields, g)
		if !r.Matched {
			allMatched = false
		}
		results = append(results, r)
	}
	return results, allMatched
}

// variantMatcher pairs a normalized variant with its compiled
// word-boundary pattern.
type variantMatcher struct {
	variant string
	re      *regexp.Regexp
}

// compileVariants builds word-boundary matchers for each variant.
// Variants are already normalized, so the only metacharacter to worry
// about is the hyphen, which QuoteMeta handles.
func compileVariants(variants []string) []variantMatcher {
	matchers := make([]variantMatcher, 0, len(variants))
	for _, v := range variants {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(v) + `\b`)
		if err != nil {
			continue
		}
		matchers = append(matchers, variantMatcher{variant: v, re: re})
	}
	return matchers
}

// matchContainer returns the raw field values within one container
// that any variant hits, by exact equality after normalization or
// word-boundary containment.
func matchContainer(values []string, matchers []variantMatcher) []string {
	var hits []string
	for _, raw := range values {
		value := Normalize(raw)
		if value == "" {
			continue
		}
		for _, m := range matchers {
			if m.variant == value || m.re.MatchString(value) {
				hits = append(hits, raw)
				break
			}
		}
	}
	return hits
}
