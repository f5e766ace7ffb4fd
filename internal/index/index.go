package index

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/thriftshopper/thriftshopper-server/internal/domain"
)

// ListingIndex wraps a Bleve index with listing-specific operations.
//
// Thread safety: All public methods are safe for concurrent use.
// The mutex protects against index corruption during rebuild operations.
type ListingIndex struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex // Protects index operations during rebuild
}

// Options configures the listing index.
type Options struct {
	DataPath string       // Directory for index storage
	Logger   *slog.Logger // Logger for operations (uses stderr if nil)
}

// mappingVersion is incremented whenever the index mapping changes.
// This triggers an automatic rebuild on startup when the version doesn't match.
const mappingVersion = "2"

// NewListingIndex creates or opens a listing index.
// If an existing index is found, it opens it. Otherwise, creates a new one.
// If the existing index is corrupted or has an outdated mapping, it's removed and recreated.
func NewListingIndex(opts Options) (*ListingIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	indexPath := filepath.Join(opts.DataPath, "listings.bleve")
	versionPath := filepath.Join(opts.DataPath, "listings.version")

	var index bleve.Index
	var err error
	needsRebuild := false

	// Check mapping version - rebuild if version file missing or mismatched
	indexExists := false
	if _, statErr := os.Stat(indexPath); statErr == nil {
		indexExists = true
	}

	if indexExists {
		existingVersion, readErr := os.ReadFile(versionPath)
		if readErr != nil {
			// Version file missing but index exists - this is an old index
			logger.Info("listing index has no version file, will rebuild with current mapping",
				"new_version", mappingVersion,
			)
			needsRebuild = true
		} else if string(existingVersion) != mappingVersion {
			logger.Info("listing index mapping version changed, will rebuild",
				"old_version", string(existingVersion),
				"new_version", mappingVersion,
			)
			needsRebuild = true
		}
	}

	// Try to open existing index (if not forcing rebuild)
	if !needsRebuild && indexExists {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open existing index, will recreate",
				"path", indexPath,
				"error", err,
			)
			needsRebuild = true
		}
	}

	// Remove old index if rebuild needed
	if needsRebuild {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove old index: %w", removeErr)
		}
		index = nil
	}

	// Create new index if needed
	if index == nil {
		indexMapping := buildIndexMapping()
		index, err = bleve.New(indexPath, indexMapping)
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		// Write version file
		if writeErr := os.WriteFile(versionPath, []byte(mappingVersion), 0644); writeErr != nil {
			logger.Warn("failed to write listing index version file", "error", writeErr)
		}
		logger.Info("created new listing index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened existing listing index", "path", indexPath)
	}

	return &ListingIndex{
		index:  index,
		path:   indexPath,
		logger: logger,
	}, nil
}

// Close closes the index and releases resources.
func (li *ListingIndex) Close() error {
	li.mu.Lock()
	defer li.mu.Unlock()
	return li.index.Close()
}

// IndexListing indexes a single listing. Implements store.SearchIndexer.
func (li *ListingIndex) IndexListing(listing *domain.Listing) error {
	li.mu.RLock()
	defer li.mu.RUnlock()
	doc := ListingToDocument(listing)
	// Convert to map to ensure field names match the mapping (lowercase)
	return li.index.Index(doc.ID, doc.ToMap())
}

// IndexListings indexes multiple listings in a batch.
// This is significantly faster than calling IndexListing in a loop.
// For large sets (>500), listings are processed in chunks to prevent
// memory pressure during initial indexing.
func (li *ListingIndex) IndexListings(listings []*domain.Listing) error {
	li.mu.RLock()
	defer li.mu.RUnlock()

	const batchSize = 500

	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		chunk := listings[i:end]

		batch := li.index.NewBatch()
		for _, l := range chunk {
			doc := ListingToDocument(l)
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}

		if err := li.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	return nil
}

// DeleteListing removes a listing from the index. Implements store.SearchIndexer.
func (li *ListingIndex) DeleteListing(id string) error {
	li.mu.RLock()
	defer li.mu.RUnlock()
	return li.index.Delete(id)
}

// DocumentCount returns the total number of indexed listings.
func (li *ListingIndex) DocumentCount() (uint64, error) {
	li.mu.RLock()
	defer li.mu.RUnlock()
	return li.index.DocCount()
}

// Rebuild drops the existing index and creates a new one.
// Used for full reindex operations when schema changes or corruption occurs.
//
// IMPORTANT: This acquires an exclusive lock and blocks all other operations.
func (li *ListingIndex) Rebuild() error {
	li.mu.Lock()
	defer li.mu.Unlock()

	// Close existing index
	if err := li.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}

	// Remove index directory
	if err := os.RemoveAll(li.path); err != nil {
		return fmt.Errorf("remove index: %w", err)
	}

	// Create fresh index
	indexMapping := buildIndexMapping()
	index, err := bleve.New(li.path, indexMapping)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	li.index = index
	li.logger.Info("rebuilt listing index", "path", li.path)

	return nil
}
