package main

import (
	"context"
	"fmt"
	"io"
	"time"

	mediascraper "github.com/mitchlinDEV/media-scraper"
	"github.com/mitchlinDEV/media-scraper/config"
	"github.com/mitchlinDEV/media-scraper/crawl"
	"github.com/mitchlinDEV/media-scraper/download"
	"github.com/mitchlinDEV/media-scraper/fs"
	"github.com/mitchlinDEV/media-scraper/rod"
	scraperzerolog "github.com/mitchlinDEV/media-scraper/zerolog"
	"github.com/rs/zerolog"
)

// Dependencies holds the wired services shared by all targets in a run.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Logger     zerolog.Logger
	Browsers   *rod.Manager
	Fetcher    mediascraper.MediaFetcher
	Extractors mediascraper.ExtractorRegistry
	Limiter    mediascraper.DomainLimiter
}

// ScrapeCmd crawls each target in sequence, sharing the browser process
// but using a fresh tab, download pool, and report per target.
type ScrapeCmd struct {
	Targets []mediascraper.Target
	Config  config.Config
}

// Run executes the scrape for every target. Targets are independent: a
// failed run aborts only on configuration errors or cancellation.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	for _, target := range c.Targets {
		if err := c.runTarget(deps, target); err != nil {
			return err
		}
	}
	return nil
}

func (c *ScrapeCmd) runTarget(deps *Dependencies, target mediascraper.Target) error {
	sessionOpts := []rod.SessionOption{}
	if c.Config.DebugDir != "" {
		sessionOpts = append(sessionOpts, rod.WithDebugDir(c.Config.DebugDir))
	}
	if c.Config.ScrollPause > 0 {
		sessionOpts = append(sessionOpts, rod.WithScrollPause(time.Duration(c.Config.ScrollPause)))
	}
	session, err := rod.NewSession(deps.Browsers, sessionOpts...)
	if err != nil {
		return err
	}
	defer session.Close()

	downloadOpts := []download.Option{download.WithWorkers(c.Config.Workers)}
	if delays := c.Config.RetryDelayDurations(); delays != nil {
		downloadOpts = append(downloadOpts, download.WithRetryDelays(delays))
	}
	downloads := download.NewManager(deps.Fetcher, fs.NewWriter(c.Config.OutputDir), downloadOpts...)
	downloads.Start(deps.Ctx)

	engine := &crawl.Engine{
		Session:        scraperzerolog.NewBrowserSession(session, deps.Logger),
		Extractors:     deps.Extractors,
		Downloads:      downloads,
		Limiter:        deps.Limiter,
		MaxDepth:       c.Config.MaxDepth,
		SameDomainOnly: c.Config.SameDomainOnly,
		Progress:       c.progressPrinter(deps.Stdout),
	}

	deps.Logger.Info().Stringer("target", target).Msg("starting scrape")

	report, runErr := engine.Run(deps.Ctx, target, config.CredentialsFor(target.Kind))
	if report != nil {
		if path, err := fs.WriteReport(c.Config.OutputDir, report); err != nil {
			deps.Logger.Warn().Err(err).Msg("could not write run report")
		} else {
			deps.Logger.Debug().Str("path", path).Msg("wrote run report")
		}
		c.printSummary(deps.Stdout, target, report)
	}

	return runErr
}

// progressPrinter reports per-page progress in normal and verbose
// modes.
func (c *ScrapeCmd) progressPrinter(w io.Writer) crawl.ProgressFunc {
	if c.Config.Mode == config.ModeSilent {
		return nil
	}
	return func(ev crawl.ProgressEvent) {
		switch ev.Kind {
		case crawl.ProgressFetching:
			fmt.Fprintf(w, "fetching %s (depth %d)\n", ev.URL, ev.Depth)
		case crawl.ProgressCompleted:
			if ev.Media > 0 {
				fmt.Fprintf(w, "  found %d media candidates\n", ev.Media)
			}
		case crawl.ProgressFailed:
			fmt.Fprintf(w, "  failed: %v\n", ev.Err)
		}
	}
}

func (c *ScrapeCmd) printSummary(w io.Writer, target mediascraper.Target, report *mediascraper.Report) {
	if c.Config.Mode == config.ModeSilent {
		return
	}
	fmt.Fprintf(w, "\n%s: %d pages visited (%d failed), %d media found, %d saved, %d duplicates, %d failed\n",
		target,
		report.PagesVisited, report.PagesFailed,
		report.MediaDiscovered, report.MediaSaved, report.MediaDuplicate, report.MediaFailed)
	for _, f := range report.Failures {
		fmt.Fprintf(w, "  [%s] %s: %s\n", f.Code, f.URL, f.Message)
	}
}
