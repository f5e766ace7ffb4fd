package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thriftshopper/thriftshopper-server/internal/config"
	"github.com/thriftshopper/thriftshopper-server/internal/domain"
	"github.com/thriftshopper/thriftshopper-server/internal/index"
	"github.com/thriftshopper/thriftshopper-server/internal/search"
	"github.com/thriftshopper/thriftshopper-server/internal/service"
	"github.com/thriftshopper/thriftshopper-server/internal/store/sqlite"
	"github.com/thriftshopper/thriftshopper-server/internal/vision"
)

// setupTestServer creates a test server over a temp store and index.
func setupTestServer(t *testing.T, analyzers []vision.Analyzer) (*Server, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "thriftshopper-api-test-*")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	testStore, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)

	idx, err := index.NewListingIndex(index.Options{DataPath: tmpDir, Logger: logger})
	require.NoError(t, err)
	testStore.SetSearchIndexer(idx)

	searchCfg := config.SearchConfig{
		DefaultLimit:    24,
		MaxLimit:        100,
		OverfetchFactor: 3,
	}

	searchService := service.NewSearchService(testStore, idx, search.DefaultVariationTable(), analyzers, searchCfg, logger)
	listingService := service.NewListingService(testStore, idx, logger)

	server := NewServer(testStore, idx, searchService, listingService, logger)

	cleanup := func() {
		server.Close()
		_ = idx.Close()
		_ = testStore.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return server, cleanup
}

// envelope mirrors the wire shape of API responses for test decoding.
type envelope struct {
	Version int             `json:"v"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

func doRequest(t *testing.T, server *Server, method, path string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func seedActiveListing(t *testing.T, server *Server, title string, styles, intents domain.StringList) *domain.Listing {
	t.Helper()

	listing, err := server.listingService.CreateListing(context.Background(), service.CreateListingInput{
		Title:   title,
		Status:  domain.ListingStatusActive,
		Styles:  styles,
		Intents: intents,
	})
	require.NoError(t, err)
	return listing
}

func TestHealthCheck(t *testing.T) {
	server, cleanup := setupTestServer(t, nil)
	defer cleanup()

	status, env := doRequest(t, server, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)
	require.Equal(t, EnvelopeVersion, env.Version)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(env.Data, &health))
	// Empty index reports degraded until something is indexed.
	require.Equal(t, "degraded", health.Status)
	require.Equal(t, "healthy", health.Components["database"].Status)
}

func TestSearchEndpoint_FacetFilter(t *testing.T) {
	server, cleanup := setupTestServer(t, nil)
	defer cleanup()

	seedActiveListing(t, server, "Teak Sideboard", domain.StringList{"Vintage"}, nil)
	seedActiveListing(t, server, "Glass Vase", domain.StringList{"Modern"}, nil)

	status, env := doRequest(t, server, http.MethodGet, "/api/v1/search?moods=Vintage", nil)
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)

	var result service.SearchResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Len(t, result.Listings, 1)
	require.Equal(t, "Teak Sideboard", result.Listings[0].Title)
	require.Equal(t, []string{"vintage"}, result.Debug.Combined)
}

func TestSearchEndpoint_BrowseMode(t *testing.T) {
	server, cleanup := setupTestServer(t, nil)
	defer cleanup()

	seedActiveListing(t, server, "Teak Sideboard", nil, nil)

	status, env := doRequest(t, server, http.MethodGet, "/api/v1/search", nil)
	require.Equal(t, http.StatusOK, status)

	var result service.SearchResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.True(t, result.Browse)
	require.Len(t, result.Listings, 1)
}

type fixedAnalyzer struct {
	name  string
	terms []string
}

func (a *fixedAnalyzer) Name() string { return a.name }

func (a *fixedAnalyzer) Analyze(_ context.Context, _ string) (*vision.Analysis, error) {
	return &vision.Analysis{Provider: a.name, Terms: a.terms}, nil
}

func TestVisualSearchEndpoint(t *testing.T) {
	analyzers := []vision.Analyzer{&fixedAnalyzer{name: "google", terms: []string{"Retro"}}}
	server, cleanup := setupTestServer(t, analyzers)
	defer cleanup()

	seedActiveListing(t, server, "Rotary Phone", domain.StringList{"retro"}, nil)
	seedActiveListing(t, server, "Glass Vase", domain.StringList{"Modern"}, nil)

	status, env := doRequest(t, server, http.MethodPost, "/api/v1/search/visual", map[string]any{
		"image_url": "https://img.example.com/phone.jpg",
	})
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)

	var result service.SearchResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Len(t, result.Listings, 1)
	require.Equal(t, "Rotary Phone", result.Listings[0].Title)
	require.Equal(t, []string{"Retro"}, result.Debug.Vision["google"])
}

func TestVisualSearchEndpoint_MissingImageURL(t *testing.T) {
	server, cleanup := setupTestServer(t, nil)
	defer cleanup()

	status, env := doRequest(t, server, http.MethodPost, "/api/v1/search/visual", map[string]any{
		"query": "vintage lamp",
	})
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.False(t, env.Success)
}

func TestVisualSearchEndpoint_InvalidImageURL(t *testing.T) {
	server, cleanup := setupTestServer(t, nil)
	defer cleanup()

	status, env := doRequest(t, server, http.MethodPost, "/api/v1/search/visual", map[string]any{
		"image_url": "not a url",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.False(t, env.Success)
	require.Equal(t, "VALIDATION", env.Code)
}

func TestVisualSearchEndpoint_RateLimited(t *testing.T) {
	server, cleanup := setupTestServer(t, nil)
	defer cleanup()

	body := map[string]any{"image_url": "https://img.example.com/x.jpg"}

	// Burst is 10; the same client eventually hits the limit.
	var limited bool
	for i := 0; i < 15; i++ {
		status, _ := doRequest(t, server, http.MethodPost, "/api/v1/search/visual", body)
		if status == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	require.True(t, limited, "expected a 429 after exhausting the burst")
}

func TestMoodsDebugEndpoint(t *testing.T) {
	server, cleanup := setupTestServer(t, nil)
	defer cleanup()

	seedActiveListing(t, server, "Teak Sideboard", domain.StringList{"Vintage"}, nil)
	seedActiveListing(t, server, "Glass Vase", domain.StringList{"Modern"}, nil)

	status, env := doRequest(t, server, http.MethodGet, "/api/v1/search/moods/debug?moods=Vintage,gift", nil)
	require.Equal(t, http.StatusOK, status)

	var debug MoodsDebugResponse
	require.NoError(t, json.Unmarshal(env.Data, &debug))
	require.Equal(t, []string{"Vintage", "gift"}, debug.Moods)
	require.Len(t, debug.Entries, 2)
	for _, entry := range debug.Entries {
		require.Len(t, entry.Results, 2)
		require.False(t, entry.Matched, "no listing carries both facets")
	}
}

func TestListingEndpoints_CRUD(t *testing.T) {
	server, cleanup := setupTestServer(t, nil)
	defer cleanup()

	status, env := doRequest(t, server, http.MethodPost, "/api/v1/listings", map[string]any{
		"title":       "Teak Sideboard",
		"status":      "active",
		"styles":      []string{"Vintage", "Mid-Century Modern"},
		"price_cents": 45000,
	})
	require.Equal(t, http.StatusCreated, status)
	require.True(t, env.Success)

	var created domain.Listing
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ID)

	status, env = doRequest(t, server, http.MethodGet, "/api/v1/listings/"+created.ID, nil)
	require.Equal(t, http.StatusOK, status)

	var fetched domain.Listing
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	require.Equal(t, "Teak Sideboard", fetched.Title)
	require.Equal(t, domain.StringList{"Vintage", "Mid-Century Modern"}, fetched.Styles)

	status, env = doRequest(t, server, http.MethodPatch, "/api/v1/listings/"+created.ID+"/status", map[string]any{
		"status": "sold",
	})
	require.Equal(t, http.StatusOK, status)

	var updated domain.Listing
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.Equal(t, domain.ListingStatusSold, updated.Status)

	status, env = doRequest(t, server, http.MethodGet, "/api/v1/listings?status=active", nil)
	require.Equal(t, http.StatusOK, status)

	var listings ListingsResponse
	require.NoError(t, json.Unmarshal(env.Data, &listings))
	require.Zero(t, listings.Total)
}

func TestGetListing_NotFound(t *testing.T) {
	server, cleanup := setupTestServer(t, nil)
	defer cleanup()

	status, env := doRequest(t, server, http.MethodGet, "/api/v1/listings/lst-missing", nil)
	require.Equal(t, http.StatusNotFound, status)
	require.False(t, env.Success)
}

func TestCreateListing_MissingTitle(t *testing.T) {
	server, cleanup := setupTestServer(t, nil)
	defer cleanup()

	status, env := doRequest(t, server, http.MethodPost, "/api/v1/listings", map[string]any{
		"description": "no title here",
	})
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.False(t, env.Success)
}
