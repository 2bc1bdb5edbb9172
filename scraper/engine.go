package scraper

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/ussdcodes/dataset"
	"github.com/pevans/ussdcodes/discovery"
	"github.com/pevans/ussdcodes/internal/logger"
	"github.com/pevans/ussdcodes/profile"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Fetcher retrieves a page body. Implementations report any failure as an
// empty string.
type Fetcher interface {
	Fetch(ctx context.Context, url string, verifyTLS bool) string
}

// Options controls how an Engine scrapes.
type Options struct {
	// RequestDelay is the minimum spacing between requests. Zero disables
	// pacing.
	RequestDelay time.Duration

	// Concurrency is the number of sources fetched at once within a domain.
	Concurrency int

	// Live enables fetching. When false every domain uses its fallback
	// table.
	Live bool
}

// DomainReport summarizes one domain driver's run.
type DomainReport struct {
	Name     string
	Live     int
	Fallback int
}

// Result is the outcome of scraping one country.
type Result struct {
	RunID   uuid.UUID
	Country string

	// Records is the deduplicated collection in driver order.
	Records []dataset.Record
	Domains []DomainReport
}

// Engine runs a country profile's domain drivers.
type Engine struct {
	fetcher Fetcher
	opts    Options
	limiter *rate.Limiter
	log     *logrus.Entry
}

// New creates an engine that fetches pages with fetcher.
func New(fetcher Fetcher, opts Options) *Engine {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	limit := rate.Inf
	if opts.RequestDelay > 0 {
		limit = rate.Every(opts.RequestDelay)
	}

	return &Engine{
		fetcher: fetcher,
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
		log:     logger.New("scraper"),
	}
}

// Run scrapes every domain of p in order. Each domain tries its live sources
// and, if together they yield no records, contributes its whole fallback
// table instead. Records are deduplicated once all domains have finished.
// Run never fails: fetch errors only reduce the live yield.
func (e *Engine) Run(ctx context.Context, p *profile.Profile) *Result {
	runID := uuid.New()
	log := e.log.WithFields(logrus.Fields{
		"run_id":  runID.String(),
		"country": p.Country,
	})
	log.Info("starting scrape")

	assembler := p.Assembler()

	var collected []dataset.Record
	reports := make([]DomainReport, 0, len(p.Domains))
	for _, d := range p.Domains {
		records, report := e.runDomain(ctx, d, assembler, log.WithField("domain", d.Name))
		collected = append(collected, records...)
		reports = append(reports, report)
	}

	records := dataset.Dedupe(collected)
	log.WithFields(logrus.Fields{
		"collected": len(collected),
		"unique":    len(records),
	}).Info("scrape complete")

	return &Result{
		RunID:   runID,
		Country: p.Country,
		Records: records,
		Domains: reports,
	}
}

func (e *Engine) runDomain(
	ctx context.Context,
	d profile.Domain,
	assembler *discovery.Assembler,
	log *logrus.Entry,
) ([]dataset.Record, DomainReport) {
	report := DomainReport{Name: d.Name}

	var live []dataset.Record
	if e.opts.Live && len(d.Sources) > 0 {
		live = e.scrapeSources(ctx, d.Sources, assembler, log)
	}

	if len(live) > 0 {
		report.Live = len(live)
		log.WithField("count", report.Live).Info("scraped live records")
		return live, report
	}

	fallback := slices.Clone(d.Fallback)
	report.Fallback = len(fallback)
	if len(fallback) > 0 {
		log.WithField("count", report.Fallback).Warn("no live records, using fallback table")
	}

	return fallback, report
}

// scrapeSources fetches sources with at most opts.Concurrency in flight and
// returns their records in source order.
func (e *Engine) scrapeSources(
	ctx context.Context,
	sources []profile.Source,
	assembler *discovery.Assembler,
	log *logrus.Entry,
) []dataset.Record {
	results := make([][]dataset.Record, len(sources))

	var g errgroup.Group
	g.SetLimit(e.opts.Concurrency)
	for i, src := range sources {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = e.scrapeSource(ctx, src, assembler, log.WithField("url", src.URL))
			return nil
		})
	}
	_ = g.Wait()

	var records []dataset.Record
	for _, r := range results {
		records = append(records, r...)
	}

	return records
}

func (e *Engine) scrapeSource(
	ctx context.Context,
	src profile.Source,
	assembler *discovery.Assembler,
	log *logrus.Entry,
) []dataset.Record {
	if err := e.limiter.Wait(ctx); err != nil {
		log.WithError(err).Warn("skipping source")
		return nil
	}

	body := e.fetcher.Fetch(ctx, src.URL, !src.InsecureTLS)
	if body == "" {
		return nil
	}

	text, err := PageText(body, src)
	if err != nil {
		log.WithError(err).Warn("skipping source")
		return nil
	}

	records := assembler.Records(text, src.Page())
	log.WithField("codes", len(records)).Info("scraped page")

	return records
}

// PageText returns the text codes are extracted from: item text for feeds,
// normalized page text otherwise.
func PageText(body string, src profile.Source) (string, error) {
	if src.IsFeed() {
		return discovery.FeedText(body)
	}
	return discovery.Normalize(body), nil
}
