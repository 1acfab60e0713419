package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"sjsage522/gowhere/helpers"
	"sjsage522/gowhere/internal/mall"
	"sjsage522/gowhere/internal/metrics"
	"sjsage522/gowhere/logger"
	apperrors "sjsage522/gowhere/pkg/errors"
	"sjsage522/gowhere/services/cache"

	"github.com/PuerkitoBio/goquery"
)

// BaseScraper provides the fetch, cache and rate limit plumbing shared by scrapers
type BaseScraper struct {
	Name      string
	URL       string
	CacheKey  string
	CacheSvc  cache.CacheService
	BlockTime time.Duration
	CacheTTL  time.Duration
}

func (c *BaseScraper) blockKey() string   { return c.CacheKey + "_rate_limited" }
func (c *BaseScraper) datasetKey() string { return c.CacheKey + "_dataset" }

// fetchWithCache fetches the page unless a previous 429 put the source on hold
func (c *BaseScraper) fetchWithCache(ctx context.Context) (io.Reader, error) {
	if c.CacheSvc != nil && c.CacheKey != "" {
		if _, err := c.CacheSvc.Get(c.blockKey()); err == nil {
			metrics.ScrapesTotal.WithLabelValues("blocked").Inc()
			return nil, apperrors.NewRateLimit(c.Name, c.BlockTime)
		}
	}

	body, err := helpers.FetchWithRandomHeaders(ctx, c.URL)
	if err != nil {
		if apperrors.TypeOf(err) == apperrors.ErrorTypeRateLimit && c.CacheSvc != nil && c.CacheKey != "" {
			block := c.BlockTime
			logger.ForScraper(c.Name).Warn().Err(err).Dur("block", block).Msg("Rate limited, holding off")
			if setErr := c.CacheSvc.Set(c.blockKey(), []byte(strconv.Itoa(int(block/time.Second))), block); setErr != nil {
				logger.ForScraper(c.Name).Warn().Err(setErr).Msg("Failed to store rate limit block")
			}
		}
		metrics.ScrapesTotal.WithLabelValues(string(apperrors.TypeOf(err))).Inc()
		return nil, err
	}

	return body, nil
}

// cachedDataset returns a previously scraped dataset, if any
func (c *BaseScraper) cachedDataset() (mall.Dataset, bool) {
	if c.CacheSvc == nil || c.CacheKey == "" || c.CacheTTL <= 0 {
		return nil, false
	}
	data, err := c.CacheSvc.Get(c.datasetKey())
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			logger.ForScraper(c.Name).Warn().Err(err).Msg("Dataset cache unavailable")
		}
		return nil, false
	}
	var ds mall.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		logger.ForScraper(c.Name).Warn().Err(err).Msg("Discarding corrupt cached dataset")
		return nil, false
	}
	return ds, true
}

// storeDataset caches a freshly scraped dataset
func (c *BaseScraper) storeDataset(ds mall.Dataset) {
	if c.CacheSvc == nil || c.CacheKey == "" || c.CacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(ds)
	if err != nil {
		return
	}
	if err := c.CacheSvc.Set(c.datasetKey(), data, c.CacheTTL); err != nil {
		logger.ForScraper(c.Name).Warn().Err(err).Msg("Failed to cache dataset")
	}
}

// createDocument creates a goquery document from a reader
func (c *BaseScraper) createDocument(reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, apperrors.NewParsing(c.Name, "HTML parsing failed", err)
	}
	return doc, nil
}

// GetName returns the scraper's name for logging
func (c *BaseScraper) GetName() string {
	if c.Name == "" {
		return fmt.Sprintf("scraper(%s)", c.URL)
	}
	return c.Name
}
