package main

import (
	"context"
	"errors"
	"io"

	"github.com/pevans/ussdcodes/config"
	"github.com/pevans/ussdcodes/dataset"
	"github.com/pevans/ussdcodes/discovery"
	"github.com/pevans/ussdcodes/profile"
	"github.com/pevans/ussdcodes/scraper"
	"github.com/spf13/cobra"
)

var (
	scrapeAll         bool
	scrapeOutDir      string
	scrapeFormats     []string
	scrapeOffline     bool
	scrapeConcurrency int
)

func init() {
	flags := scrapeCmd.Flags()
	flags.BoolVar(&scrapeAll, "all", false, "scrape every known country")
	flags.StringVarP(&scrapeOutDir, "out-dir", "o", "", "directory to write datasets to")
	flags.StringSliceVarP(&scrapeFormats, "format", "f", nil, "export formats: json, xlsx, sqlite (repeatable)")
	flags.BoolVar(&scrapeOffline, "offline", false, "skip live scraping and use fallback tables only")
	flags.IntVar(&scrapeConcurrency, "concurrency", 0, "sources fetched at once within a domain")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [country...]",
	Short: "Scrape and export datasets for the named countries.",
	Example: `  ussdcodes scrape ghana
  ussdcodes scrape --all --offline -f json -f xlsx -o ./datasets`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !scrapeAll && len(args) == 0 {
			return errors.New("name at least one country or pass --all")
		}

		overrides := make(map[string]any)
		if cmd.Flags().Changed("out-dir") {
			overrides["output.dir"] = scrapeOutDir
		}
		if cmd.Flags().Changed("format") {
			overrides["output.formats"] = scrapeFormats
		}
		if cmd.Flags().Changed("offline") {
			overrides["scraper.live"] = !scrapeOffline
		}
		if cmd.Flags().Changed("concurrency") {
			overrides["scraper.concurrency"] = scrapeConcurrency
		}

		cfg, err := loadConfig(cmd, overrides)
		if err != nil {
			return err
		}

		registry, err := loadProfiles(cfg)
		if err != nil {
			return err
		}

		profiles, err := selectProfiles(registry, args, scrapeAll)
		if err != nil {
			return err
		}

		return runScrape(cmd.Context(), cfg, profiles, cmd.OutOrStdout())
	},
}

// selectProfiles resolves country arguments in the order given, skipping
// repeats.
func selectProfiles(r *profile.Registry, names []string, all bool) ([]*profile.Profile, error) {
	if all {
		return r.All(), nil
	}

	seen := make(map[string]bool)
	var profiles []*profile.Profile
	for _, name := range names {
		p, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		if seen[p.Prefix] {
			continue
		}
		seen[p.Prefix] = true
		profiles = append(profiles, p)
	}

	return profiles, nil
}

// runScrape scrapes and exports each profile in turn, printing a summary
// after each country. Only a failed JSON export stops the run.
func runScrape(ctx context.Context, cfg *config.Config, profiles []*profile.Profile, out io.Writer) error {
	store, err := dataset.NewStore(cfg.Output.Dir)
	if err != nil {
		return err
	}

	fetcher := discovery.NewFetcher(discovery.FetcherOptions{
		Timeout:          cfg.Scraper.Timeout,
		UserAgent:        cfg.Scraper.UserAgent,
		CloudflareBypass: cfg.Scraper.CloudflareBypass,
	})
	engine := scraper.New(fetcher, scraper.Options{
		RequestDelay: cfg.Scraper.RequestDelay,
		Concurrency:  cfg.Scraper.Concurrency,
		Live:         cfg.Scraper.Live,
	})

	for _, p := range profiles {
		result := engine.Run(ctx, p)

		exported, err := store.Export(result.Records, dataset.ExportOptions{
			Filename:  p.Output,
			Prefix:    p.Prefix,
			Country:   p.Country,
			Timestamp: cfg.Output.Timestamp,
			Formats:   cfg.Output.Formats,
			RunID:     result.RunID,
		})
		if err != nil {
			return err
		}

		printRunSummary(out, p, result, exported)
	}

	return nil
}
