// Command mediascraper crawls a site or social media profile and
// downloads the images and videos it finds.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	mediascraper "github.com/mitchlinDEV/media-scraper"
	"github.com/mitchlinDEV/media-scraper/config"
	"github.com/mitchlinDEV/media-scraper/crawl"
	"github.com/mitchlinDEV/media-scraper/goquery"
	scraperhttp "github.com/mitchlinDEV/media-scraper/http"
	"github.com/mitchlinDEV/media-scraper/rod"
	scraperzerolog "github.com/mitchlinDEV/media-scraper/zerolog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("mediascraper"),
		kong.Description("Recursively scrape images and videos from websites and social media profiles"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	_, err = parser.Parse(args)
	if err != nil {
		return err
	}

	if err := config.LoadEnv(".env"); err != nil {
		return err
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	cli.applyOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Validate every target before launching the browser, so a typo in
	// the last argument does not waste a partial run.
	kind := mediascraper.TargetKind(cli.Kind)
	targets := make([]mediascraper.Target, 0, len(cli.Targets))
	for _, value := range cli.Targets {
		target, err := mediascraper.NewTarget(kind, value)
		if err != nil {
			return err
		}
		targets = append(targets, target)
	}

	logger := scraperzerolog.New(stderr, cfg.Mode)

	browsers, err := rod.NewManager(rod.WithHeadless(cfg.Headless))
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer browsers.Close()

	fetcher := scraperzerolog.NewMediaFetcher(scraperhttp.NewClient(), logger)

	extractors := goquery.NewRegistry()
	extractors.Register(mediascraper.TargetGeneral,
		&goquery.GeneralExtractor{MaxScrolls: cfg.MaxScrolls})
	extractors.Register(mediascraper.TargetInstagram,
		&goquery.InstagramExtractor{MaxScrolls: cfg.MaxScrolls})
	extractors.Register(mediascraper.TargetTwitter,
		&goquery.TwitterExtractor{
			Resolver:   scraperhttp.NewResolver(fetcher),
			MaxScrolls: cfg.MaxScrolls,
		})

	cmd := &ScrapeCmd{
		Targets: targets,
		Config:  cfg,
	}

	deps := &Dependencies{
		Ctx:        ctx,
		Stdout:     stdout,
		Logger:     logger,
		Browsers:   browsers,
		Fetcher:    fetcher,
		Extractors: extractors,
		Limiter:    crawl.NewDomainLimiter(cfg.RequestsPerSecond),
	}

	return cmd.Run(deps)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config     string   `short:"c" help:"Path to a YAML config file"`
	Output     string   `short:"o" help:"Output directory (overrides config)"`
	Depth      int      `short:"d" default:"0" help:"Maximum link depth (overrides config)"`
	Mode       string   `short:"m" help:"Verbosity: silent, normal or verbose (overrides config)"`
	AllDomains bool     `help:"Follow links to other domains"`
	Kind       string   `short:"k" default:"general" enum:"general,instagram,twitter" help:"Target kind"`
	Targets    []string `arg:"" required:"" help:"URLs (general) or usernames (instagram, twitter) to scrape"`
}

// applyOverrides layers non-zero CLI flags over the file configuration.
func (c *CLI) applyOverrides(cfg *config.Config) {
	if c.Output != "" {
		cfg.OutputDir = c.Output
	}
	if c.Depth > 0 {
		cfg.MaxDepth = c.Depth
	}
	if c.Mode != "" {
		cfg.Mode = c.Mode
	}
	if c.AllDomains {
		cfg.SameDomainOnly = false
	}
}
