package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"sjsage522/gowhere/config"
	"sjsage522/gowhere/internal/scraper"
	"sjsage522/gowhere/internal/storage"
	"sjsage522/gowhere/logger"

	"github.com/spf13/cobra"
)

func newScrapeCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "scrape [--format json|csv|txt|yaml]",
		Short: "Scrapes the mall list and writes it to the dataset file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := withFormat(root.file, format)
			if err != nil {
				return err
			}

			cfg := config.LoadConfig()
			s := scraper.CreateScraper(cfg, nil)
			ds, err := s.Scrape(cmd.Context())
			if err != nil {
				return fmt.Errorf("scrape %s: %w", s.GetName(), err)
			}

			if err := storage.Export(ds, path); err != nil {
				return err
			}
			logger.ForStore().Info().
				Str("path", path).
				Int("regions", len(ds)).
				Int("malls", ds.Total()).
				Msg("Dataset written")
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Output format, replaces the file extension")
	return cmd
}

func newExportCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path/to/output.(json|csv|txt|yaml)>",
		Short: "Converts the dataset file into another format.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := storage.FormatForPath(args[0]); err != nil {
				return err
			}
			ds, err := loadDataset(cmd.Context(), root.file)
			if err != nil {
				return err
			}
			if err := storage.Export(ds, args[0]); err != nil {
				return err
			}
			logger.ForStore().Info().Str("from", root.file).Str("to", args[0]).Msg("Dataset exported")
			return nil
		},
	}
}

// withFormat swaps the extension of path for format, when one is given
func withFormat(path, format string) (string, error) {
	if format == "" {
		_, err := storage.FormatForPath(path)
		return path, err
	}
	f, err := storage.ParseFormat(format)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + string(f), nil
}
