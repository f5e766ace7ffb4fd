// Package index provides keyword candidate retrieval over listings
// using Bleve. It answers "which listings might be relevant to this
// text" quickly; the semantic term filter in internal/search makes the
// final call.
package index

import (
	"github.com/thriftshopper/thriftshopper-server/internal/domain"
)

// ListingDocument is the document structure for the Bleve index.
//
// Design note: label containers (styles, moods, intents) are indexed
// with the keyword analyzer so compound labels like "mid-century
// modern" stay intact. They are stored for debugging, but the term
// matcher always re-reads labels from the store, never from the index.
type ListingDocument struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Status      string   `json:"status"`
	Styles      []string `json:"styles,omitempty"`
	Moods       []string `json:"moods,omitempty"`
	Intents     []string `json:"intents,omitempty"`
	PriceCents  int64    `json:"price_cents"`
	CreatedAt   int64    `json:"created_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// This ensures field names match the Bleve index mapping.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *ListingDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":          d.ID,
		"title":       d.Title,
		"status":      d.Status,
		"price_cents": d.PriceCents,
		"created_at":  d.CreatedAt,
	}

	// Optional fields - only add if non-empty
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Category != "" {
		m["category"] = d.Category
	}
	if len(d.Styles) > 0 {
		m["styles"] = d.Styles
	}
	if len(d.Moods) > 0 {
		m["moods"] = d.Moods
	}
	if len(d.Intents) > 0 {
		m["intents"] = d.Intents
	}

	return m
}

// ListingToDocument converts a domain Listing to a ListingDocument.
func ListingToDocument(l *domain.Listing) *ListingDocument {
	return &ListingDocument{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Category:    l.Category,
		Status:      string(l.Status),
		Styles:      l.Styles,
		Moods:       l.Moods,
		Intents:     l.Intents,
		PriceCents:  l.PriceCents,
		CreatedAt:   l.CreatedAt.UnixMilli(),
	}
}
