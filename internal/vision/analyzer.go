// Package vision extracts search terms from listing photos using
// external image analysis providers. Each provider implements Analyzer;
// the fan-out in AnalyzeAll queries every configured provider and
// collects whatever succeeds.
package vision

import (
	"context"
)

// Analysis is the outcome of one provider's look at an image: a flat
// list of descriptive terms. Terms arrive raw; normalization happens
// in the search engine.
type Analysis struct {
	Provider string   `json:"provider"`
	Terms    []string `json:"terms"`
}

// Analyzer extracts descriptive terms from an image.
type Analyzer interface {
	// Name identifies the provider ("openai", "google").
	Name() string
	// Analyze fetches terms for the image at the given URL.
	Analyze(ctx context.Context, imageURL string) (*Analysis, error)
}
