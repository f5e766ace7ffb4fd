package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/thriftshopper/thriftshopper-server/internal/domain"
	"github.com/thriftshopper/thriftshopper-server/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchListings",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search listings",
		Description: "Text and mood-facet search over active listings",
		Tags:        []string{"Search"},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "visualSearchListings",
		Method:      http.MethodPost,
		Path:        "/api/v1/search/visual",
		Summary:     "Visual search",
		Description: "Image-driven search: vision analyzers extract terms from the photo and match them against listing labels",
		Tags:        []string{"Search"},
		Middlewares: huma.Middlewares{s.rateLimitByIP(s.visualRateLimiter)},
	}, s.handleVisualSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "debugMoodMatching",
		Method:      http.MethodGet,
		Path:        "/api/v1/search/moods/debug",
		Summary:     "Mood match diagnostics",
		Description: "Per-listing, per-facet match detail for tuning the mood filter",
		Tags:        []string{"Search"},
	}, s.handleMoodsDebug)
}

// === DTOs ===

// SearchInput contains parameters for text/facet search.
type SearchInput struct {
	Query string `query:"q" validate:"omitempty,max=200" doc:"Free text query"`
	Moods string `query:"moods" validate:"omitempty,max=500" doc:"Comma-separated mood/style/intent facets"`
	Limit int    `query:"limit" validate:"omitempty,gte=1,lte=100" doc:"Max results (default 24)"`
}

// SearchOutput wraps the search result for Huma.
type SearchOutput struct {
	Body service.SearchResult
}

// VisualSearchRequest is the body for image-driven search.
type VisualSearchRequest struct {
	ImageURL string `json:"image_url" validate:"required,url" doc:"URL of the photo to analyze"`
	Query    string `json:"query,omitempty" validate:"omitempty,max=200" doc:"Optional text hint"`
	Limit    int    `json:"limit,omitempty" validate:"omitempty,gte=1,lte=100" doc:"Max results (default 24)"`
}

// VisualSearchInput wraps the visual search body for Huma.
type VisualSearchInput struct {
	Body VisualSearchRequest
}

// MoodsDebugInput contains parameters for the mood diagnostics endpoint.
type MoodsDebugInput struct {
	Moods string `query:"moods" validate:"required,max=500" doc:"Comma-separated facets to evaluate"`
	Limit int    `query:"limit" validate:"omitempty,gte=1,lte=100" doc:"Max candidates to evaluate (default 24)"`
}

// MoodsDebugResponse carries the per-listing diagnostics.
type MoodsDebugResponse struct {
	Moods   []string                 `json:"moods" doc:"Facets as parsed"`
	Entries []service.MoodDebugEntry `json:"entries" doc:"Per-listing match detail"`
}

// MoodsDebugOutput wraps the diagnostics for Huma.
type MoodsDebugOutput struct {
	Body MoodsDebugResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	result, err := s.searchService.Search(ctx, service.SearchParams{
		Query: input.Query,
		Moods: domain.ParseStringList(input.Moods),
		Limit: input.Limit,
	})
	if err != nil {
		s.logger.Error("search failed", "query", input.Query, "moods", input.Moods, "error", err)
		return nil, huma.Error500InternalServerError("search failed", err)
	}

	return &SearchOutput{Body: *result}, nil
}

func (s *Server) handleVisualSearch(ctx context.Context, input *VisualSearchInput) (*SearchOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	result, err := s.searchService.VisualSearch(ctx, service.VisualSearchParams{
		ImageURL: input.Body.ImageURL,
		Query:    input.Body.Query,
		Limit:    input.Body.Limit,
	})
	if err != nil {
		s.logger.Error("visual search failed", "image_url", input.Body.ImageURL, "error", err)
		return nil, huma.Error500InternalServerError("visual search failed", err)
	}

	return &SearchOutput{Body: *result}, nil
}

func (s *Server) handleMoodsDebug(ctx context.Context, input *MoodsDebugInput) (*MoodsDebugOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	moods := domain.ParseStringList(input.Moods)
	entries, err := s.searchService.MoodsDebug(ctx, moods, input.Limit)
	if err != nil {
		s.logger.Error("moods debug failed", "moods", input.Moods, "error", err)
		return nil, huma.Error500InternalServerError("mood diagnostics failed", err)
	}

	return &MoodsDebugOutput{
		Body: MoodsDebugResponse{
			Moods:   moods,
			Entries: entries,
		},
	}, nil
}
