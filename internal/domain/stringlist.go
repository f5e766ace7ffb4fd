package domain

import (
	"encoding/json/v2"
	"fmt"
	"strings"
)

// StringList is a slice of strings that can unmarshal from any of the
// shapes label data arrives in:
// - JSON array: ["Vintage", "Rustic"]
// - Single scalar: "Vintage"
// - Stringified array: "[\"Vintage\", \"Rustic\"]"
// - Delimited string with quote or bracket artifacts: "'Vintage', Rustic]"
//
// Vision analyzers and older client builds have produced all four, so
// every ingestion path funnels through ParseStringList rather than
// cleaning up ad hoc.
//
// It always marshals to a plain JSON array.
type StringList []string

// UnmarshalJSON handles flexible list parsing from JSON.
func (sl *StringList) UnmarshalJSON(data []byte) error {
	// Try as a plain array of strings first.
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*sl = ParseStringList(strings.Join(items, ","))
		return nil
	}

	// Try as a single string: either a scalar value or a stringified
	// array that a buggy producer double-encoded.
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*sl = ParseStringList(s)
		return nil
	}

	// Mixed arrays (numbers, nulls) show up from loosely typed
	// producers; stringify each element.
	var raw []any
	if err := json.Unmarshal(data, &raw); err == nil {
		parts := make([]string, 0, len(raw))
		for _, v := range raw {
			if v == nil {
				continue
			}
			parts = append(parts, fmt.Sprint(v))
		}
		*sl = ParseStringList(strings.Join(parts, ","))
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into StringList", string(data))
}

// MarshalJSON outputs a plain JSON array, never null.
func (sl StringList) MarshalJSON() ([]byte, error) {
	if sl == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(sl))
}

// ParseStringList is the single coercion point for raw label data. It
// splits on commas, strips surrounding quotes, brackets, and
// whitespace from each element, and drops empties. Element text is
// otherwise preserved as written; normalization for matching happens
// later, in the search engine.
func ParseStringList(raw string) StringList {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var out StringList
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		part = strings.Trim(part, `"'[]`)
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
