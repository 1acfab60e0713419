package scraper

import (
	"time"

	"sjsage522/gowhere/config"
	"sjsage522/gowhere/internal/mall"
	"sjsage522/gowhere/services/cache"
)

// southMalls is filled in by hand: the source page does not list South as a column block
var southMalls = []string{"VivoCity", "HarbourFront Centre", "Alexandra Retail Centre"}

// WikipediaConfig describes the Wikipedia list of shopping malls in Singapore
func WikipediaConfig(url string, blockTime, cacheTTL time.Duration) ScraperConfig {
	return ScraperConfig{
		Name:      "wikipedia",
		URL:       url,
		CacheKey:  "wikipedia_malls",
		BlockTime: blockTime,
		CacheTTL:  cacheTTL,
		Catalog:   mall.Regions,
		Selectors: Selectors{
			RegionBlock: "div.div-col",
			Item:        "li",
		},
		Fixed: map[string][]string{
			mall.South: southMalls,
		},
	}
}

// CreateScraper creates the dataset scraper from the application config.
// cacheSvc may be nil.
func CreateScraper(cfg *config.Config, cacheSvc cache.CacheService) Scraper {
	return NewConfigurableScraper(
		WikipediaConfig(cfg.SourceURL, cfg.ScrapeBlockTime, cfg.DatasetCacheTTL),
		cacheSvc,
	)
}
