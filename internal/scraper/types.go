package scraper

import (
	"context"
	"time"

	"sjsage522/gowhere/internal/mall"
)

// Scraper builds a mall dataset from an external document
type Scraper interface {
	// Scrape fetches and parses the source into a dataset
	Scrape(ctx context.Context) (mall.Dataset, error)

	// GetName returns the scraper's name for logging and identification
	GetName() string
}

// Selectors contains CSS selectors for the listing page
type Selectors struct {
	// RegionBlock matches one block per region, in catalog order
	RegionBlock string
	// Item matches each mall entry inside a region block
	Item string
}

// ScraperConfig contains configuration for a scraper
type ScraperConfig struct {
	Name      string
	URL       string
	CacheKey  string
	BlockTime time.Duration
	CacheTTL  time.Duration
	Catalog   []string
	Selectors Selectors
	// Fixed entries for regions the page does not list as a block.
	// They replace whatever was parsed for that region.
	Fixed map[string][]string
}
