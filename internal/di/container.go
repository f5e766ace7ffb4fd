// Package di provides dependency injection configuration for the ThriftShopper server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/thriftshopper/thriftshopper-server/internal/config"
	"github.com/thriftshopper/thriftshopper-server/internal/di/providers"
	"github.com/thriftshopper/thriftshopper-server/internal/logger"
	"github.com/thriftshopper/thriftshopper-server/internal/search"
	"github.com/thriftshopper/thriftshopper-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideListingIndex)
	do.Provide(injector, providers.ProvideVariationTable)

	// Vision layer
	do.Provide(injector, providers.ProvideVisionAnalyzers)

	// Business services
	do.Provide(injector, providers.ProvideSearchService)
	do.Provide(injector, providers.ProvideListingService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.ListingIndexHandle](injector)
	_ = do.MustInvoke[*search.VariationTable](injector)
	_ = do.MustInvoke[*providers.VisionAnalyzers](injector)

	// Business services
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*service.ListingService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Trigger keyword reindex if the index is empty but listings exist
	providers.TriggerListingReindexIfNeeded(injector)

	return nil
}
