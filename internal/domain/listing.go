// Package domain contains the core business entities for the ThriftShopper marketplace.
package domain

import (
	"time"
)

// ListingStatus represents the lifecycle state of a listing.
type ListingStatus string

const (
	ListingStatusDraft  ListingStatus = "draft"
	ListingStatusActive ListingStatus = "active"
	ListingStatusSold   ListingStatus = "sold"
	ListingStatusHidden ListingStatus = "hidden"
)

// IsValid reports whether the status is one of the known lifecycle states.
func (s ListingStatus) IsValid() bool {
	switch s {
	case ListingStatusDraft, ListingStatusActive, ListingStatusSold, ListingStatusHidden:
		return true
	}
	return false
}

// Listing represents a secondhand item offered for sale. The Styles,
// Moods, and Intents containers hold seller- and analyzer-supplied
// semantic labels; they are what the matching engine evaluates term
// groups against.
type Listing struct {
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	ID          string        `json:"id"`
	SellerID    string        `json:"seller_id,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Category    string        `json:"category,omitempty"`
	ImageURL    string        `json:"image_url,omitempty"`
	Status      ListingStatus `json:"status"`
	Styles      StringList    `json:"styles,omitempty"`
	Moods       StringList    `json:"moods,omitempty"`
	Intents     StringList    `json:"intents,omitempty"`
	PriceCents  int64         `json:"price_cents"`
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new listing.
func (l *Listing) InitTimestamps() {
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now
}

// Touch updates the UpdatedAt timestamp to the current time.
func (l *Listing) Touch() {
	l.UpdatedAt = time.Now()
}

// IsSearchable reports whether the listing should appear in search
// results. Only active listings are discoverable.
func (l *Listing) IsSearchable() bool {
	return l.Status == ListingStatusActive
}
