package providers

import (
	"github.com/samber/do/v2"

	"github.com/thriftshopper/thriftshopper-server/internal/config"
	"github.com/thriftshopper/thriftshopper-server/internal/logger"
	"github.com/thriftshopper/thriftshopper-server/internal/search"
	"github.com/thriftshopper/thriftshopper-server/internal/service"
)

// ProvideSearchService provides the search orchestrator.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*ListingIndexHandle](i)
	table := do.MustInvoke[*search.VariationTable](i)
	analyzers := do.MustInvoke[*VisionAnalyzers](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewSearchService(
		storeHandle.Store,
		indexHandle.ListingIndex,
		table,
		analyzers.Analyzers,
		cfg.Search,
		log.Logger,
	)

	return svc, nil
}

// ProvideListingService provides the listing lifecycle service and
// wires the keyword index into the store for write-through indexing.
func ProvideListingService(i do.Injector) (*service.ListingService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*ListingIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	storeHandle.SetSearchIndexer(indexHandle.ListingIndex)

	return service.NewListingService(storeHandle.Store, indexHandle.ListingIndex, log.Logger), nil
}
