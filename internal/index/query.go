package index

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// CandidateParams configures a candidate retrieval query.
type CandidateParams struct {
	Query    string // Free text matched against title and description
	Category string // Exact category filter
	Status   string // Listing status filter (usually "active")

	// Price range filter in cents. Zero means unbounded.
	MinPriceCents int64
	MaxPriceCents int64

	// Pagination
	Limit  int
	Offset int
}

// Candidate is one retrieval hit. Only identity and score come from
// the index; callers load full listings from the store.
type Candidate struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// CandidateResult represents a candidate retrieval result.
type CandidateResult struct {
	Total      uint64      `json:"total"`
	TookMs     int64       `json:"took_ms"`
	Candidates []Candidate `json:"candidates"`
}

// Candidates executes a retrieval query and returns matching listing IDs.
// With no query text, results are ordered newest first; with query text,
// by relevance.
func (li *ListingIndex) Candidates(ctx context.Context, params CandidateParams) (*CandidateResult, error) {
	li.mu.RLock()
	defer li.mu.RUnlock()

	searchQuery := buildCandidateQuery(params)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)
	if params.Query != "" {
		searchRequest.SortBy([]string{"-_score"})
	} else {
		searchRequest.SortBy([]string{"-created_at"})
	}

	searchResult, err := li.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute candidate query: %w", err)
	}

	result := &CandidateResult{
		Total:      searchResult.Total,
		TookMs:     searchResult.Took.Milliseconds(),
		Candidates: make([]Candidate, 0, len(searchResult.Hits)),
	}
	for _, hit := range searchResult.Hits {
		result.Candidates = append(result.Candidates, Candidate{
			ID:    hit.ID,
			Score: hit.Score,
		})
	}

	return result, nil
}

// buildCandidateQuery constructs the Bleve query from params.
func buildCandidateQuery(params CandidateParams) query.Query {
	var queries []query.Query

	// Main text query against title and description, with fuzzy and
	// prefix variants on the title for typo tolerance and autocomplete.
	if params.Query != "" {
		textQueries := []query.Query{}

		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)
		textQueries = append(textQueries, titleMatch)

		descMatch := bleve.NewMatchQuery(params.Query)
		descMatch.SetField("description")
		textQueries = append(textQueries, descMatch)

		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("title")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for autocomplete (minimum 2 chars)
		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("title")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		// Combine with OR (match any field)
		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	// Status filter
	if params.Status != "" {
		sq := bleve.NewTermQuery(params.Status)
		sq.SetField("status")
		queries = append(queries, sq)
	}

	// Category filter (exact match)
	if params.Category != "" {
		cq := bleve.NewTermQuery(params.Category)
		cq.SetField("category")
		queries = append(queries, cq)
	}

	// Price range filter
	if params.MinPriceCents > 0 || params.MaxPriceCents > 0 {
		min := float64(params.MinPriceCents)
		max := float64(params.MaxPriceCents)
		if params.MaxPriceCents == 0 {
			max = math.MaxFloat64
		}
		rangeQuery := bleve.NewNumericRangeQuery(&min, &max)
		rangeQuery.SetField("price_cents")
		queries = append(queries, rangeQuery)
	}

	// Combine all queries with AND
	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}
