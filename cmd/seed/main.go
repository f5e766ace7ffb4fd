// Package main provides a tool to seed the database with sample listings.
//
// This creates a set of realistic secondhand-marketplace listings with
// style, mood, and gift-intent labels so search and mood filtering can
// be exercised against real data.
//
// Usage:
//
//	DATA_PATH=~/ThriftShopper/data go run ./cmd/seed
//	DATA_PATH=~/ThriftShopper/data go run ./cmd/seed --force  # Seed even if listings exist
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/thriftshopper/thriftshopper-server/internal/domain"
	"github.com/thriftshopper/thriftshopper-server/internal/index"
	"github.com/thriftshopper/thriftshopper-server/internal/service"
	"github.com/thriftshopper/thriftshopper-server/internal/store/sqlite"
)

var force = flag.Bool("force", false, "Seed even if the database already contains listings")

// sampleListing is one seed record.
type sampleListing struct {
	title       string
	description string
	category    string
	priceCents  int64
	styles      domain.StringList
	moods       domain.StringList
	intents     domain.StringList
}

var samples = []sampleListing{
	{
		title:       "Teak Sideboard",
		description: "Low mid-century sideboard with sliding doors, original finish.",
		category:    "furniture",
		priceCents:  45000,
		styles:      domain.StringList{"Mid-Century Modern", "Vintage"},
		moods:       domain.StringList{"Warm", "Understated"},
		intents:     domain.StringList{"Living Room Upgrade"},
	},
	{
		title:       "Rotary Dial Telephone",
		description: "Working bakelite rotary phone from the sixties.",
		category:    "electronics",
		priceCents:  6500,
		styles:      domain.StringList{"Retro", "Vintage"},
		moods:       domain.StringList{"Nostalgic", "Whimsical"},
		intents:     domain.StringList{"Gift for Dad", "Conversation Piece"},
	},
	{
		title:       "Hand-Thrown Stoneware Vase",
		description: "Speckled glaze, signed on the base. Small chip on the foot ring.",
		category:    "decor",
		priceCents:  3200,
		styles:      domain.StringList{"Rustic", "Handmade"},
		moods:       domain.StringList{"Cozy", "Earthy"},
		intents:     domain.StringList{"Gift for Mom", "Housewarming"},
	},
	{
		title:       "Brass Articulating Desk Lamp",
		description: "Heavy brass lamp with a double-jointed arm, rewired.",
		category:    "lighting",
		priceCents:  8900,
		styles:      domain.StringList{"Industrial", "Vintage"},
		moods:       domain.StringList{"Moody", "Focused"},
		intents:     domain.StringList{"Home Office"},
	},
	{
		title:       "Embroidered Kantha Quilt",
		description: "Reversible cotton quilt, hand-stitched, queen size.",
		category:    "textiles",
		priceCents:  5400,
		styles:      domain.StringList{"Bohemian", "Handmade"},
		moods:       domain.StringList{"Cozy", "Colorful"},
		intents:     domain.StringList{"Housewarming", "Gift for Mom"},
	},
	{
		title:       "Cast Iron Dutch Oven",
		description: "Enameled 5qt dutch oven, light wear on the rim, cooks beautifully.",
		category:    "kitchen",
		priceCents:  4800,
		styles:      domain.StringList{"Farmhouse", "Classic"},
		moods:       domain.StringList{"Homey"},
		intents:     domain.StringList{"Wedding Gift", "First Apartment"},
	},
	{
		title:       "Chrome Bar Cart",
		description: "Two-tier rolling cart with smoked glass shelves.",
		category:    "furniture",
		priceCents:  12000,
		styles:      domain.StringList{"Art Deco", "Glam"},
		moods:       domain.StringList{"Playful", "Elegant"},
		intents:     domain.StringList{"Entertaining", "Conversation Piece"},
	},
	{
		title:       "Vintage Film Camera",
		description: "35mm rangefinder with leather case, shutter fires at all speeds.",
		category:    "electronics",
		priceCents:  15500,
		styles:      domain.StringList{"Retro", "Vintage"},
		moods:       domain.StringList{"Nostalgic", "Creative"},
		intents:     domain.StringList{"Gift for Dad", "Hobby Starter"},
	},
	{
		title:       "Macrame Wall Hanging",
		description: "Large hand-knotted cotton piece on driftwood.",
		category:    "decor",
		priceCents:  2800,
		styles:      domain.StringList{"Bohemian", "Handmade"},
		moods:       domain.StringList{"Whimsical", "Relaxed"},
		intents:     domain.StringList{"Dorm Decor", "Housewarming"},
	},
	{
		title:       "Leather Club Chair",
		description: "Deep cognac leather with brass nailhead trim, broken in just right.",
		category:    "furniture",
		priceCents:  68000,
		styles:      domain.StringList{"Classic", "Vintage"},
		moods:       domain.StringList{"Moody", "Warm"},
		intents:     domain.StringList{"Living Room Upgrade", "Reading Nook"},
	},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/ThriftShopper/data")
	}

	fmt.Printf("Opening data directory: %s\n", dataPath)

	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s, err := sqlite.Open(filepath.Join(dataPath, "thriftshopper.db"), logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	idx, err := index.NewListingIndex(index.Options{DataPath: dataPath, Logger: logger})
	if err != nil {
		log.Fatalf("Failed to open listing index: %v", err)
	}
	defer idx.Close()
	s.SetSearchIndexer(idx)

	ctx := context.Background()

	existing, err := s.CountListings(ctx, "")
	if err != nil {
		log.Fatalf("Failed to count listings: %v", err)
	}
	if existing > 0 && !*force {
		fmt.Printf("Database already has %d listings, use --force to seed anyway\n", existing)
		return
	}

	listingService := service.NewListingService(s, idx, logger)

	created := 0
	for _, sample := range samples {
		listing, err := listingService.CreateListing(ctx, service.CreateListingInput{
			SellerID:    "seed-seller",
			Title:       sample.title,
			Description: sample.description,
			Category:    sample.category,
			Status:      domain.ListingStatusActive,
			Styles:      sample.styles,
			Moods:       sample.moods,
			Intents:     sample.intents,
			PriceCents:  sample.priceCents,
		})
		if err != nil {
			log.Printf("Failed to create %q: %v", sample.title, err)
			continue
		}
		fmt.Printf("  Created %s: %s\n", listing.ID, listing.Title)
		created++
	}

	if err := listingService.ReindexAll(ctx); err != nil {
		log.Fatalf("Failed to rebuild keyword index: %v", err)
	}

	docCount, _ := idx.DocumentCount()
	fmt.Printf("\nSeeding complete: %d listings created, %d indexed\n", created, docCount)
}
