package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thriftshopper/thriftshopper-server/internal/domain"
	domainerrors "github.com/thriftshopper/thriftshopper-server/internal/errors"
	"github.com/thriftshopper/thriftshopper-server/internal/id"
	"github.com/thriftshopper/thriftshopper-server/internal/index"
	"github.com/thriftshopper/thriftshopper-server/internal/store"
)

// ListingService handles listing lifecycle operations. Keyword index
// maintenance happens inside the store on every write; this service
// only drives full rebuilds.
type ListingService struct {
	store  store.Store
	index  *index.ListingIndex
	logger *slog.Logger
}

// NewListingService creates a new listing service.
func NewListingService(st store.Store, idx *index.ListingIndex, logger *slog.Logger) *ListingService {
	return &ListingService{
		store:  st,
		index:  idx,
		logger: logger,
	}
}

// CreateListingInput carries the seller-supplied fields for a new listing.
type CreateListingInput struct {
	SellerID    string
	Title       string
	Description string
	Category    string
	ImageURL    string
	Status      domain.ListingStatus // Empty means draft
	Styles      domain.StringList
	Moods       domain.StringList
	Intents     domain.StringList
	PriceCents  int64
}

// CreateListing creates a listing with a generated ID.
func (s *ListingService) CreateListing(ctx context.Context, input CreateListingInput) (*domain.Listing, error) {
	status := input.Status
	if status == "" {
		status = domain.ListingStatusDraft
	}
	if !status.IsValid() {
		return nil, domainerrors.Validationf("invalid listing status: %s", status)
	}

	listingID, err := id.Generate("lst")
	if err != nil {
		return nil, fmt.Errorf("generate listing id: %w", err)
	}

	listing := &domain.Listing{
		ID:          listingID,
		SellerID:    input.SellerID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		Status:      status,
		Styles:      input.Styles,
		Moods:       input.Moods,
		Intents:     input.Intents,
		PriceCents:  input.PriceCents,
	}
	listing.InitTimestamps()

	if err := s.store.CreateListing(ctx, listing); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}

	s.logger.Info("created listing", "id", listing.ID, "title", listing.Title, "status", listing.Status)
	return listing, nil
}

// GetListing retrieves a listing by ID.
func (s *ListingService) GetListing(ctx context.Context, listingID string) (*domain.Listing, error) {
	return s.store.GetListing(ctx, listingID)
}

// ListListings returns listings, optionally filtered by status,
// newest first. A non-positive limit means no cap.
func (s *ListingService) ListListings(ctx context.Context, status string, limit int) ([]*domain.Listing, error) {
	if status == "" {
		return s.store.ListAllListings(ctx)
	}

	parsed := domain.ListingStatus(status)
	if !parsed.IsValid() {
		return nil, domainerrors.Validationf("invalid listing status: %s", status)
	}
	return s.store.ListListingsByStatus(ctx, parsed, limit)
}

// UpdateStatus transitions a listing to a new lifecycle state and
// returns the updated listing.
func (s *ListingService) UpdateStatus(ctx context.Context, listingID string, status domain.ListingStatus) (*domain.Listing, error) {
	if !status.IsValid() {
		return nil, domainerrors.Validationf("invalid listing status: %s", status)
	}

	if err := s.store.UpdateListingStatus(ctx, listingID, status); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	s.logger.Info("updated listing status", "id", listingID, "status", status)
	return s.store.GetListing(ctx, listingID)
}

// ReindexAll rebuilds the keyword index from the store. Heavy; used
// at seed time and for recovery.
func (s *ListingService) ReindexAll(ctx context.Context) error {
	s.logger.Info("starting full reindex")

	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	listings, err := s.store.ListAllListings(ctx)
	if err != nil {
		return fmt.Errorf("list listings: %w", err)
	}

	if len(listings) > 0 {
		if err := s.index.IndexListings(listings); err != nil {
			return fmt.Errorf("index listings: %w", err)
		}
	}

	s.logger.Info("full reindex complete", "count", len(listings))
	return nil
}
