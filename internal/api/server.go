// Package api provides the HTTP API server and handlers for the
// ThriftShopper search service.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/thriftshopper/thriftshopper-server/internal/index"
	"github.com/thriftshopper/thriftshopper-server/internal/service"
	"github.com/thriftshopper/thriftshopper-server/internal/store"
	"github.com/thriftshopper/thriftshopper-server/internal/validation"
)

// apiVersion is the version reported in the OpenAPI document.
const apiVersion = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	store             store.Store
	index             *index.ListingIndex
	searchService     *service.SearchService
	listingService    *service.ListingService
	validator         *validation.Validator
	visualRateLimiter *RateLimiter
	router            *chi.Mux
	api               huma.API
	logger            *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	st store.Store,
	idx *index.ListingIndex,
	searchService *service.SearchService,
	listingService *service.ListingService,
	logger *slog.Logger,
) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	humaConfig := huma.DefaultConfig("ThriftShopper API", apiVersion)
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:          st,
		index:          idx,
		searchService:  searchService,
		listingService: listingService,
		validator:      validation.New(),
		// Vision providers are metered upstream; this guards the
		// expensive route against a single noisy client.
		visualRateLimiter: NewRateLimiter(20, time.Minute, 10),
		router:            router,
		api:               api,
		logger:            logger,
	}

	s.registerHealthRoutes()
	s.registerSearchRoutes()
	s.registerListingRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-held resources.
func (s *Server) Close() {
	s.visualRateLimiter.Stop()
}
