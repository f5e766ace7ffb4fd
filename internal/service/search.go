package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/thriftshopper/thriftshopper-server/internal/config"
	"github.com/thriftshopper/thriftshopper-server/internal/domain"
	"github.com/thriftshopper/thriftshopper-server/internal/index"
	"github.com/thriftshopper/thriftshopper-server/internal/search"
	"github.com/thriftshopper/thriftshopper-server/internal/store"
	"github.com/thriftshopper/thriftshopper-server/internal/vision"
)

// SearchService orchestrates listing search: it assembles term groups
// from facets, free text, and vision analyzers, pulls a candidate pool
// from the store (via the keyword index when query text is present),
// and applies the conjunctive term filter.
type SearchService struct {
	store     store.Store
	index     *index.ListingIndex
	table     *search.VariationTable
	analyzers []vision.Analyzer
	cfg       config.SearchConfig
	logger    *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(
	st store.Store,
	idx *index.ListingIndex,
	table *search.VariationTable,
	analyzers []vision.Analyzer,
	cfg config.SearchConfig,
	logger *slog.Logger,
) *SearchService {
	return &SearchService{
		store:     st,
		index:     idx,
		table:     table,
		analyzers: analyzers,
		cfg:       cfg,
		logger:    logger,
	}
}

// SearchParams describes a text/facet search request.
type SearchParams struct {
	Query string   // Free text, matched against title/description via the keyword index
	Moods []string // Selected facets, expanded through the variation table
	Limit int      // Result cap; 0 means the configured default
}

// VisualSearchParams describes an image-driven search request.
type VisualSearchParams struct {
	ImageURL string
	Query    string // Optional text hint; its tokens join the term groups
	Limit    int
}

// SearchDebug carries term provenance for a search: which terms each
// source contributed and the merged set the filter actually ran with.
type SearchDebug struct {
	TextTerms  []string            `json:"text_terms"`
	FacetTerms []string            `json:"facet_terms"`
	Vision     map[string][]string `json:"vision,omitempty"`
	Combined   []string            `json:"combined"`
}

// SearchResult is the outcome of one search request.
type SearchResult struct {
	SearchID string            `json:"search_id"`
	Browse   bool              `json:"browse"`
	Listings []*domain.Listing `json:"listings"`
	Debug    SearchDebug       `json:"debug"`
}

// MoodDebugEntry is the per-listing diagnostic for the mood filter
// debug endpoint: every candidate with its full per-group match detail.
type MoodDebugEntry struct {
	ListingID string               `json:"listing_id"`
	Title     string               `json:"title"`
	Matched   bool                 `json:"matched"`
	Results   []search.MatchResult `json:"results"`
}

// Search runs a text/facet search. Facets expand through the variation
// table into term groups; the filter is conjunctive across groups.
// With no query and no facets this is browse mode: the most recent
// active listings, unfiltered.
func (s *SearchService) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	limit := s.clampLimit(params.Limit)

	textTerms := tokenize(params.Query)
	facetGroups := search.GroupsFromFacets(s.table, params.Moods)
	groups := search.MergeGroups(facetGroups)

	browse := params.Query == "" && len(groups) == 0

	candidates, err := s.candidatePool(ctx, params.Query, limit, browse)
	if err != nil {
		return nil, err
	}

	listings := s.filterAndTruncate(candidates, groups, limit)

	return &SearchResult{
		SearchID: uuid.NewString(),
		Browse:   browse,
		Listings: listings,
		Debug: SearchDebug{
			TextTerms:  textTerms,
			FacetTerms: search.Terms(facetGroups),
			Combined:   search.Terms(groups),
		},
	}, nil
}

// VisualSearch runs an image-driven search. All configured analyzers
// are queried concurrently; each failure is absorbed and simply
// contributes no terms. Vision terms and query-hint tokens merge into
// one group set before the conjunctive filter.
func (s *SearchService) VisualSearch(ctx context.Context, params VisualSearchParams) (*SearchResult, error) {
	limit := s.clampLimit(params.Limit)

	results := vision.AnalyzeAll(ctx, s.analyzers, params.ImageURL, s.logger)

	visionDebug := make(map[string][]string, len(results))
	var sourceGroups []search.TermGroup
	for _, r := range results {
		if r.Err != nil || r.Analysis == nil {
			visionDebug[r.Provider] = []string{}
			continue
		}
		visionDebug[r.Provider] = r.Analysis.Terms
		sourceGroups = append(sourceGroups, search.BuildGroups(r.Analysis.Terms)...)
	}

	textTerms := tokenize(params.Query)
	sourceGroups = append(sourceGroups, search.BuildGroups(textTerms)...)
	groups := search.MergeGroups(sourceGroups)

	// Every analyzer failing (or none being configured) with no text
	// hint leaves an empty group set; that degrades to browse rather
	// than an error.
	browse := len(groups) == 0

	// The image is the primary signal here, so the pool is recent
	// active listings; the query hint contributes terms, not keyword
	// retrieval.
	candidates, err := s.candidatePool(ctx, "", limit, browse)
	if err != nil {
		return nil, err
	}

	listings := s.filterAndTruncate(candidates, groups, limit)

	s.logger.Debug("visual search complete",
		"analyzers", len(s.analyzers),
		"merged_terms", len(groups),
		"results", len(listings),
	)

	return &SearchResult{
		SearchID: uuid.NewString(),
		Browse:   browse,
		Listings: listings,
		Debug: SearchDebug{
			TextTerms:  textTerms,
			FacetTerms: []string{},
			Vision:     visionDebug,
			Combined:   search.Terms(groups),
		},
	}, nil
}

// MoodsDebug evaluates the selected facets against a pool of active
// listings and returns the full per-listing, per-group match detail.
// It exists so search quality issues can be diagnosed over HTTP
// without persisted logs.
func (s *SearchService) MoodsDebug(ctx context.Context, moods []string, limit int) ([]MoodDebugEntry, error) {
	limit = s.clampLimit(limit)

	groups := search.MergeGroups(search.GroupsFromFacets(s.table, moods))

	candidates, err := s.store.ListListingsByStatus(ctx, domain.ListingStatusActive, limit)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	entries := make([]MoodDebugEntry, 0, len(candidates))
	for _, l := range candidates {
		results, allMatched := search.MatchAll(listingFields(l), groups)
		entries = append(entries, MoodDebugEntry{
			ListingID: l.ID,
			Title:     l.Title,
			Matched:   allMatched,
			Results:   results,
		})
	}
	return entries, nil
}

// candidatePool fetches active listings to filter. With query text the
// keyword index supplies relevance-ranked IDs and the store hydrates
// them; otherwise the store returns the most recent active listings.
// The pool is over-fetched to compensate for filter attrition, except
// in browse mode where no filtering follows.
func (s *SearchService) candidatePool(ctx context.Context, query string, limit int, browse bool) ([]*domain.Listing, error) {
	poolSize := limit
	if !browse {
		poolSize = limit * s.cfg.OverfetchFactor
	}

	if query == "" {
		listings, err := s.store.ListListingsByStatus(ctx, domain.ListingStatusActive, poolSize)
		if err != nil {
			s.logger.Error("candidate fetch failed", "stage", "store_list", "error", err)
			return nil, fmt.Errorf("list candidates: %w", err)
		}
		return listings, nil
	}

	candidates, err := s.index.Candidates(ctx, index.CandidateParams{
		Query:  query,
		Status: string(domain.ListingStatusActive),
		Limit:  poolSize,
	})
	if err != nil {
		s.logger.Error("candidate fetch failed", "stage", "index_query", "query", query, "error", err)
		return nil, fmt.Errorf("query candidates: %w", err)
	}

	ids := make([]string, 0, len(candidates.Candidates))
	for _, c := range candidates.Candidates {
		ids = append(ids, c.ID)
	}

	listings, err := s.store.GetListingsByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("candidate fetch failed", "stage", "store_hydrate", "query", query, "error", err)
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	return listings, nil
}

// filterAndTruncate applies the conjunctive term filter and caps the
// result. An empty group set excludes nothing.
func (s *SearchService) filterAndTruncate(candidates []*domain.Listing, groups []search.TermGroup, limit int) []*domain.Listing {
	listings := make([]*domain.Listing, 0, limit)
	for _, l := range candidates {
		if _, allMatched := search.MatchAll(listingFields(l), groups); !allMatched {
			continue
		}
		listings = append(listings, l)
		if len(listings) == limit {
			break
		}
	}
	return listings
}

func (s *SearchService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		return s.cfg.MaxLimit
	}
	return limit
}

// listingFields extracts the semantic containers the matcher runs
// against.
func listingFields(l *domain.Listing) search.ListingFields {
	return search.ListingFields{
		Styles:  l.Styles,
		Moods:   l.Moods,
		Intents: l.Intents,
	}
}

// tokenize splits query text into normalized terms.
func tokenize(query string) []string {
	normalized := search.Normalize(query)
	if normalized == "" {
		return []string{}
	}
	return strings.Fields(normalized)
}
