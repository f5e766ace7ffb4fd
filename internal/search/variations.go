package search

// defaultVariations maps canonical facet names to known alternate
// spellings and near-synonyms. This is the built-in knowledge behind
// the mood wheel: the UI exposes three closed facet categories
// (vibes, purposes, styles) but the matching engine treats every
// facet as a flat term.
//
// Keys and values are stored here in display form; NewVariationTable
// normalizes both sides, so lookups are case- and
// punctuation-insensitive by construction.
var defaultVariations = map[string][]string{
	// Vibes / moods
	"whimsical":   {"whimsy", "playful", "quirky", "fanciful"},
	"cozy":        {"cosy", "comfy", "snug", "warm"},
	"elegant":     {"refined", "sophisticated", "classy", "graceful"},
	"moody":       {"dark", "dramatic", "broody"},
	"cheerful":    {"happy", "bright", "sunny", "joyful"},
	"serene":      {"calm", "peaceful", "tranquil", "zen"},
	"eclectic":    {"mixed", "curated", "collected"},
	"nostalgic":   {"sentimental", "throwback", "old-school"},
	"minimalist":  {"minimal", "simple", "clean", "pared-down"},
	"maximalist":  {"maximal", "bold", "more-is-more"},
	"romantic":    {"dreamy", "soft", "feminine"},
	"earthy":      {"natural", "organic", "grounded"},

	// Purposes / intents
	"gift":          {"gifts", "gifting", "present", "presents"},
	"decor":         {"decoration", "decorative", "home decor", "accent"},
	"kitchen":       {"kitchenware", "cooking", "culinary"},
	"storage":       {"organization", "organizing", "organizer"},
	"office":        {"workspace", "desk", "study", "home office"},
	"entertaining":  {"party", "hosting", "serving", "dinner party"},
	"collection":    {"collectible", "collectable", "collecting", "display"},
	"everyday use":  {"daily use", "practical", "functional", "utility"},
	"outdoor":       {"garden", "patio", "porch", "outside"},
	"kids":          {"children", "child", "nursery", "playroom"},
	"reading":       {"books", "library", "book nook"},
	"wall art":      {"art", "artwork", "wall decor", "hanging"},

	// Styles
	"vintage":            {"retro", "antique", "classic", "old"},
	"mid-century modern": {"mcm", "midcentury modern", "mid century", "midcentury", "mid-century"},
	"farmhouse":          {"country", "cottage", "rustic farmhouse"},
	"rustic":             {"weathered", "distressed", "reclaimed"},
	"industrial":         {"factory", "warehouse", "utilitarian"},
	"scandinavian":       {"scandi", "nordic", "danish modern"},
	"bohemian":           {"boho", "boho chic", "free-spirited"},
	"art deco":           {"deco", "artdeco", "gatsby"},
	"shabby chic":        {"shabby", "chippy", "french country"},
	"victorian":          {"ornate", "antique victorian", "edwardian"},
	"coastal":            {"beach", "nautical", "seaside"},
	"glam":               {"glamorous", "hollywood regency", "luxe"},
}

// VariationTable maps normalized canonical facet names to their
// normalized variant lists. It is immutable after construction and
// safe for concurrent use; build it once at startup and inject it
// wherever facet expansion is needed.
type VariationTable struct {
	variants map[string][]string
}

// NewVariationTable builds a table from authored synonym data,
// normalizing keys and variants. Empty entries are dropped.
func NewVariationTable(entries map[string][]string) *VariationTable {
	variants := make(map[string][]string, len(entries))
	for key, vals := range entries {
		canonical := Normalize(key)
		if canonical == "" {
			continue
		}
		cleaned := make([]string, 0, len(vals))
		for _, v := range vals {
			if nv := Normalize(v); nv != "" {
				cleaned = append(cleaned, nv)
			}
		}
		variants[canonical] = cleaned
	}
	return &VariationTable{variants: variants}
}

// DefaultVariationTable returns the table built from the authored
// facet synonym data above.
func DefaultVariationTable() *VariationTable {
	return NewVariationTable(defaultVariations)
}

// VariationsFor returns every acceptable surface form for a facet:
// the normalized facet name first, then its configured variants in
// authored order, duplicates removed. A facet absent from the table
// yields just its own normalized form.
func (t *VariationTable) VariationsFor(facetName string) []string {
	canonical := Normalize(facetName)
	if canonical == "" {
		return nil
	}

	configured := t.variants[canonical]
	out := make([]string, 0, len(configured)+1)
	seen := make(map[string]bool, len(configured)+1)

	out = append(out, canonical)
	seen[canonical] = true

	for _, v := range configured {
		if !seen[v] {
			out = append(out, v)
			seen[v] = true
		}
	}
	return out
}

// Len returns the number of canonical facets in the table.
func (t *VariationTable) Len() int {
	return len(t.variants)
}
