package scraper

import (
	"context"
	"io"
	"strings"

	"sjsage522/gowhere/helpers"
	"sjsage522/gowhere/internal/mall"
	"sjsage522/gowhere/internal/metrics"
	"sjsage522/gowhere/logger"
	apperrors "sjsage522/gowhere/pkg/errors"
	"sjsage522/gowhere/services/cache"

	"github.com/PuerkitoBio/goquery"
)

// ConfigurableScraper maps region blocks of a page onto a catalog using selectors
type ConfigurableScraper struct {
	BaseScraper
	Catalog   []string
	Selectors Selectors
	Fixed     map[string][]string
}

// NewConfigurableScraper creates a new configurable scraper
func NewConfigurableScraper(config ScraperConfig, cacheSvc cache.CacheService) *ConfigurableScraper {
	catalog := config.Catalog
	if catalog == nil {
		catalog = mall.Regions
	}
	return &ConfigurableScraper{
		BaseScraper: BaseScraper{
			Name:      config.Name,
			URL:       config.URL,
			CacheKey:  config.CacheKey,
			CacheSvc:  cacheSvc,
			BlockTime: config.BlockTime,
			CacheTTL:  config.CacheTTL,
		},
		Catalog:   catalog,
		Selectors: config.Selectors,
		Fixed:     config.Fixed,
	}
}

// Scrape returns the cached dataset when fresh, otherwise fetches and parses the page
func (c *ConfigurableScraper) Scrape(ctx context.Context) (mall.Dataset, error) {
	log := logger.ForScraper(c.GetName())

	if ds, ok := c.cachedDataset(); ok {
		metrics.ScrapesTotal.WithLabelValues("cached").Inc()
		log.Debug().Int("malls", ds.Total()).Msg("Using cached dataset")
		return ds, nil
	}

	body, err := c.fetchWithCache(ctx)
	if err != nil {
		return nil, err
	}

	ds, err := c.Parse(body)
	if err != nil {
		metrics.ScrapesTotal.WithLabelValues(string(apperrors.ErrorTypeParsing)).Inc()
		return nil, err
	}

	c.storeDataset(ds)
	metrics.ScrapesTotal.WithLabelValues("ok").Inc()
	log.Info().
		Int("regions", len(ds)).
		Int("malls", ds.Total()).
		Msg("Scraped dataset")

	return ds, nil
}

// Parse builds a dataset from an HTML document
func (c *ConfigurableScraper) Parse(r io.Reader) (mall.Dataset, error) {
	doc, err := c.createDocument(r)
	if err != nil {
		return nil, err
	}
	return c.parseDocument(doc)
}

// parseDocument assigns the n-th region block to the n-th catalog region
func (c *ConfigurableScraper) parseDocument(doc *goquery.Document) (mall.Dataset, error) {
	blocks := doc.Find(c.Selectors.RegionBlock)
	if blocks.Length() == 0 {
		return nil, apperrors.NewParsing(c.GetName(), "no region blocks matched "+c.Selectors.RegionBlock, nil)
	}
	if blocks.Length() > len(c.Catalog) {
		logger.ForScraper(c.GetName()).Warn().
			Int("blocks", blocks.Length()).
			Int("regions", len(c.Catalog)).
			Msg("More region blocks than regions, ignoring the rest")
	}

	ds := make(mall.Dataset, len(c.Catalog))
	blocks.EachWithBreak(func(i int, block *goquery.Selection) bool {
		if i >= len(c.Catalog) {
			return false
		}
		region := c.Catalog[i]
		ds[region] = []string{}
		if _, fixed := c.Fixed[region]; fixed {
			return true
		}
		block.Find(c.Selectors.Item).Each(func(_ int, item *goquery.Selection) {
			if name := c.processItem(item); name != "" {
				ds[region] = append(ds[region], name)
			}
		})
		return true
	})

	for region, malls := range c.Fixed {
		ds[region] = append([]string(nil), malls...)
	}

	return ds, nil
}

// processItem extracts one mall name, dropping citation markers
func (c *ConfigurableScraper) processItem(item *goquery.Selection) string {
	return helpers.StripCitation(strings.Join(strings.Fields(item.Text()), " "))
}
