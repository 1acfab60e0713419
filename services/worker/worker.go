package worker

import (
	"context"
	"time"

	"sjsage522/gowhere/internal/mall"
	"sjsage522/gowhere/internal/metrics"
	"sjsage522/gowhere/internal/scraper"
	"sjsage522/gowhere/internal/storage"
	"sjsage522/gowhere/logger"
	"sjsage522/gowhere/services/publisher"
)

// Worker periodically re-scrapes the dataset, swaps it into the holder
// and persists it, then trims the pick streams.
type Worker struct {
	ctx             context.Context
	scraper         scraper.Scraper
	holder          *mall.Holder
	publisher       publisher.Publisher
	datasetPath     string
	refreshInterval time.Duration
	log             *logger.Logger
}

// NewWorker creates a new worker
func NewWorker(
	ctx context.Context,
	s scraper.Scraper,
	holder *mall.Holder,
	pub publisher.Publisher,
	datasetPath string,
	refreshInterval time.Duration,
) *Worker {
	if pub == nil {
		pub = publisher.Nop{}
	}
	return &Worker{
		ctx:             ctx,
		scraper:         s,
		holder:          holder,
		publisher:       pub,
		datasetPath:     datasetPath,
		refreshInterval: refreshInterval,
		log:             logger.ForWorker(),
	}
}

// Start refreshes on every tick until the context is cancelled
func (w *Worker) Start() error {
	if w.refreshInterval <= 0 {
		w.log.Info().Msg("Dataset refresh disabled")
		<-w.ctx.Done()
		return nil
	}

	ticker := time.NewTicker(w.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return nil
		case <-ticker.C:
			start := time.Now()
			if err := w.Refresh(); err != nil {
				w.log.Error().Err(err).Msg("Dataset refresh failed, keeping previous dataset")
			} else {
				w.log.Debug().Dur("elapsed", time.Since(start)).Msg("Dataset refreshed")
			}
		}
	}
}

// Refresh runs a single scrape/swap/persist cycle. On scrape failure the
// current dataset is left untouched.
func (w *Worker) Refresh() error {
	ds, err := w.scraper.Scrape(w.ctx)
	if err != nil {
		return err
	}

	w.holder.Set(ds)
	ObserveDataset(ds)

	if w.datasetPath != "" {
		if err := storage.Export(ds, w.datasetPath); err != nil {
			w.log.Error().Err(err).Str("path", w.datasetPath).Msg("Failed to persist dataset")
		}
	}

	if err := w.publisher.TrimStreams(); err != nil {
		w.log.Error().Err(err).Msg("Failed to trim pick streams")
	}

	return nil
}

// ObserveDataset exports per-region mall counts as metrics
func ObserveDataset(ds mall.Dataset) {
	counts := make(map[string]int, len(ds))
	for region, malls := range ds {
		counts[region] = len(malls)
	}
	metrics.ObserveDataset(counts)
}
