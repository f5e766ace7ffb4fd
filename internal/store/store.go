// Package store defines the persistence interface for the ThriftShopper server.
package store

import (
	"context"

	"github.com/thriftshopper/thriftshopper-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error
	SetSearchIndexer(indexer SearchIndexer)

	// Listings
	CreateListing(ctx context.Context, listing *domain.Listing) error
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	GetListingsByIDs(ctx context.Context, ids []string) ([]*domain.Listing, error)
	UpdateListing(ctx context.Context, listing *domain.Listing) error
	UpdateListingStatus(ctx context.Context, id string, status domain.ListingStatus) error
	ListListingsByStatus(ctx context.Context, status domain.ListingStatus, limit int) ([]*domain.Listing, error)
	ListAllListings(ctx context.Context) ([]*domain.Listing, error)
	CountListings(ctx context.Context, status domain.ListingStatus) (int, error)
}

// SearchIndexer keeps the keyword index in sync with listing writes.
// The store calls it after successful mutations; indexing failures are
// logged by the store, not surfaced to callers.
type SearchIndexer interface {
	IndexListing(listing *domain.Listing) error
	DeleteListing(id string) error
}

// noopSearchIndexer does nothing. Used until a real indexer is wired in.
type noopSearchIndexer struct{}

func (noopSearchIndexer) IndexListing(*domain.Listing) error { return nil }
func (noopSearchIndexer) DeleteListing(string) error         { return nil }

// NewNoopSearchIndexer returns a SearchIndexer that does nothing.
func NewNoopSearchIndexer() SearchIndexer {
	return noopSearchIndexer{}
}
