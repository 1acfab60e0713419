package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"sjsage522/gowhere/config"
	"sjsage522/gowhere/internal"
	"sjsage522/gowhere/internal/mall"
	"sjsage522/gowhere/internal/scraper"
	"sjsage522/gowhere/internal/storage"
	"sjsage522/gowhere/internal/web"
	"sjsage522/gowhere/logger"
	"sjsage522/gowhere/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("addr", cfg.HTTPAddr).
		Str("dataset", cfg.DatasetPath).
		Dur("refresh_interval", cfg.RefreshInterval).
		Msg("Starting application")

	// Cancel everything on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := internal.NewDependencies(ctx, cfg)
	defer deps.Cleanup()

	s := scraper.CreateScraper(cfg, deps.Cache)

	ds, err := storage.Load(ctx, cfg.DatasetPath, s)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load dataset")
	}
	if err := ds.Validate(mall.Regions); err != nil {
		log.Warn().Err(err).Msg("Dataset holds unknown regions, they will never be picked")
	}
	if _, statErr := os.Stat(cfg.DatasetPath); os.IsNotExist(statErr) {
		if err := storage.Export(ds, cfg.DatasetPath); err != nil {
			log.Warn().Err(err).Msg("Failed to save scraped dataset")
		}
	}
	worker.ObserveDataset(ds)

	log.Info().
		Int("regions", len(ds)).
		Int("malls", ds.Total()).
		Msg("Dataset loaded")

	holder := mall.NewHolder(ds)

	// Background refresh
	w := worker.NewWorker(ctx, s, holder, deps.Publisher, cfg.DatasetPath, cfg.RefreshInterval)
	go func() {
		if err := w.Start(); err != nil {
			log.Error().Err(err).Msg("Worker exited with error")
		}
	}()

	srv, err := web.NewServer(web.Options{
		Holder:    holder,
		Sampler:   mall.NewSampler(cfg.MaxRegionAttempts, nil),
		Publisher: deps.Publisher,
		PickMin:   cfg.PickMin,
		PickMax:   cfg.PickMax,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build web server")
	}

	if err := srv.Run(ctx, cfg.HTTPAddr); err != nil {
		log.Error().Err(err).Msg("HTTP server exited with error")
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
}
