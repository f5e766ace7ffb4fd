package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/thriftshopper/thriftshopper-server/internal/config"
	"github.com/thriftshopper/thriftshopper-server/internal/index"
	"github.com/thriftshopper/thriftshopper-server/internal/logger"
	"github.com/thriftshopper/thriftshopper-server/internal/search"
	"github.com/thriftshopper/thriftshopper-server/internal/service"
)

// ListingIndexHandle wraps the keyword index with shutdown capability.
type ListingIndexHandle struct {
	*index.ListingIndex
}

// Shutdown implements do.Shutdownable.
func (h *ListingIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideListingIndex provides the Bleve keyword index.
func ProvideListingIndex(i do.Injector) (*ListingIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	idx, err := index.NewListingIndex(index.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := idx.DocumentCount()
	log.Info("Listing index initialized", "documents", docCount)

	return &ListingIndexHandle{ListingIndex: idx}, nil
}

// ProvideVariationTable provides the synonym table shared by all term
// matching. The table is immutable after construction.
func ProvideVariationTable(i do.Injector) (*search.VariationTable, error) {
	return search.DefaultVariationTable(), nil
}

// TriggerListingReindexIfNeeded checks if the keyword index is empty
// while listings exist, and kicks off a background rebuild if so.
// Should be called after all services are wired.
func TriggerListingReindexIfNeeded(i do.Injector) {
	listingService := do.MustInvoke[*service.ListingService](i)
	indexHandle := do.MustInvoke[*ListingIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.DocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	count, err := storeHandle.CountListings(ctx, "")
	if err != nil || count == 0 {
		return
	}

	log.Info("Keyword index is empty but listings exist, triggering initial reindex",
		"listing_count", count,
	)

	go func() {
		reindexCtx := context.Background()
		if err := listingService.ReindexAll(reindexCtx); err != nil {
			log.Error("Initial reindex failed", "error", err)
		} else {
			indexed, _ := indexHandle.DocumentCount()
			log.Info("Initial reindex completed", "documents", indexed)
		}
	}()
}
