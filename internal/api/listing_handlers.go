package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/thriftshopper/thriftshopper-server/internal/domain"
	"github.com/thriftshopper/thriftshopper-server/internal/service"
)

func (s *Server) registerListingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listListings",
		Method:      http.MethodGet,
		Path:        "/api/v1/listings",
		Summary:     "List listings",
		Tags:        []string{"Listings"},
	}, s.handleListListings)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createListing",
		Method:        http.MethodPost,
		Path:          "/api/v1/listings",
		Summary:       "Create listing",
		Tags:          []string{"Listings"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateListing)

	huma.Register(s.api, huma.Operation{
		OperationID: "getListing",
		Method:      http.MethodGet,
		Path:        "/api/v1/listings/{id}",
		Summary:     "Get listing",
		Tags:        []string{"Listings"},
	}, s.handleGetListing)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateListingStatus",
		Method:      http.MethodPatch,
		Path:        "/api/v1/listings/{id}/status",
		Summary:     "Update listing status",
		Tags:        []string{"Listings"},
	}, s.handleUpdateListingStatus)
}

// === DTOs ===

// ListListingsInput contains parameters for listing enumeration.
type ListListingsInput struct {
	Status string `query:"status" validate:"omitempty,oneof=draft active sold hidden" doc:"Filter by lifecycle status"`
	Limit  int    `query:"limit" validate:"omitempty,gte=1,lte=500" doc:"Max results (0 = no cap)"`
}

// ListingsResponse wraps a listing collection.
type ListingsResponse struct {
	Listings []*domain.Listing `json:"listings"`
	Total    int               `json:"total" doc:"Number of listings returned"`
}

// ListListingsOutput wraps the collection for Huma.
type ListListingsOutput struct {
	Body ListingsResponse
}

// CreateListingRequest is the body for creating a listing.
type CreateListingRequest struct {
	SellerID    string            `json:"seller_id,omitempty" validate:"omitempty,max=64"`
	Title       string            `json:"title" validate:"required,min=1,max=200"`
	Description string            `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category    string            `json:"category,omitempty" validate:"omitempty,max=100"`
	ImageURL    string            `json:"image_url,omitempty" validate:"omitempty,url"`
	Status      string            `json:"status,omitempty" validate:"omitempty,oneof=draft active sold hidden" doc:"Defaults to draft"`
	Styles      domain.StringList `json:"styles,omitempty"`
	Moods       domain.StringList `json:"moods,omitempty"`
	Intents     domain.StringList `json:"intents,omitempty"`
	PriceCents  int64             `json:"price_cents,omitempty" validate:"omitempty,gte=0"`
}

// CreateListingInput wraps the create body for Huma.
type CreateListingInput struct {
	Body CreateListingRequest
}

// ListingOutput wraps a single listing for Huma.
type ListingOutput struct {
	Body *domain.Listing
}

// GetListingInput identifies a listing by path parameter.
type GetListingInput struct {
	ID string `path:"id" doc:"Listing ID"`
}

// UpdateListingStatusRequest is the body for a status transition.
type UpdateListingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft active sold hidden"`
}

// UpdateListingStatusInput wraps the status transition for Huma.
type UpdateListingStatusInput struct {
	ID   string `path:"id" doc:"Listing ID"`
	Body UpdateListingStatusRequest
}

// === Handlers ===

func (s *Server) handleListListings(ctx context.Context, input *ListListingsInput) (*ListListingsOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	listings, err := s.listingService.ListListings(ctx, input.Status, input.Limit)
	if err != nil {
		return nil, err
	}

	return &ListListingsOutput{
		Body: ListingsResponse{
			Listings: listings,
			Total:    len(listings),
		},
	}, nil
}

func (s *Server) handleCreateListing(ctx context.Context, input *CreateListingInput) (*ListingOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	listing, err := s.listingService.CreateListing(ctx, service.CreateListingInput{
		SellerID:    input.Body.SellerID,
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Category:    input.Body.Category,
		ImageURL:    input.Body.ImageURL,
		Status:      domain.ListingStatus(input.Body.Status),
		Styles:      input.Body.Styles,
		Moods:       input.Body.Moods,
		Intents:     input.Body.Intents,
		PriceCents:  input.Body.PriceCents,
	})
	if err != nil {
		return nil, err
	}

	return &ListingOutput{Body: listing}, nil
}

func (s *Server) handleGetListing(ctx context.Context, input *GetListingInput) (*ListingOutput, error) {
	listing, err := s.listingService.GetListing(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ListingOutput{Body: listing}, nil
}

func (s *Server) handleUpdateListingStatus(ctx context.Context, input *UpdateListingStatusInput) (*ListingOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	listing, err := s.listingService.UpdateStatus(ctx, input.ID, domain.ListingStatus(input.Body.Status))
	if err != nil {
		return nil, err
	}
	return &ListingOutput{Body: listing}, nil
}
