package commands

import (
	"context"
	"fmt"
	"os"

	"sjsage522/gowhere/config"
	"sjsage522/gowhere/internal/mall"
	"sjsage522/gowhere/internal/scraper"
	"sjsage522/gowhere/internal/storage"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	all    bool
	pretty bool
	human  bool
	random int
	region string
	file   string
}

// NewRootCmd builds the gowhere command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "gowhere",
		Short:         "Get a random mall in Singapore, this uses data from Wikipedia",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.all, "all", "a", false, "Show all the malls in Singapore")
	flags.BoolVarP(&opts.pretty, "pretty", "p", false, "Pretty print the dataset: gowhere -p -a")
	flags.BoolVarP(&opts.human, "human", "H", false, "Human readable printing: gowhere -H -r 3")
	flags.IntVarP(&opts.random, "random", "r", 0, "Number of malls to get: gowhere -r 3")
	flags.StringVar(&opts.region, "region", "", "Pick from this region instead of a random one")
	cmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "dataset.json", "Dataset file (.json, .csv, .txt, .yaml)")

	cmd.AddCommand(newScrapeCmd(opts), newExportCmd(opts))
	return cmd
}

// ExecuteContext runs the CLI and exits non-zero on failure
func ExecuteContext(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runRoot dispatches on the first set flag in the order pretty, human, all, random.
// -p and -H only pick the rendering; they still need -a or -r.
func runRoot(cmd *cobra.Command, opts *rootOptions) error {
	if !opts.all && opts.random == 0 {
		return cmd.Help()
	}

	mode := modePlain
	switch {
	case opts.pretty:
		mode = modePretty
	case opts.human:
		mode = modeHuman
	}

	ds, err := loadDataset(cmd.Context(), opts.file)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.all {
		return printAll(out, ds, mode)
	}

	cfg := config.LoadConfig()
	region := opts.region
	if canonical, ok := mall.NormalizeRegion(mall.Regions, region); ok {
		region = canonical
	}
	pick, err := mall.NewSampler(cfg.MaxRegionAttempts, nil).Sample(ds, opts.random, region)
	if err != nil {
		return err
	}
	return printPick(out, pick, mode)
}

// loadDataset imports path, scraping the source when the file is missing
func loadDataset(ctx context.Context, path string) (mall.Dataset, error) {
	cfg := config.LoadConfig()
	return storage.Load(ctx, path, scraper.CreateScraper(cfg, nil))
}
