// Package config loads runtime configuration from an optional YAML
// file and platform credentials from the environment, with .env file
// support for local runs.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	mediascraper "github.com/mitchlinDEV/media-scraper"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML duration strings
// like "2s" or "500ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"2s\"")
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	*d = Duration(parsed)
	return nil
}

// Output verbosity modes.
const (
	ModeSilent  = "silent"
	ModeNormal  = "normal"
	ModeVerbose = "verbose"
)

// Config holds the runtime settings for a scrape run.
type Config struct {
	// OutputDir is the root directory for downloaded media and reports.
	OutputDir string `yaml:"output_dir"`

	// MaxDepth bounds link recursion below the entry point.
	MaxDepth int `yaml:"max_depth"`

	// SameDomainOnly restricts link traversal to the entry point's
	// domain. Media is downloaded from any domain regardless.
	SameDomainOnly bool `yaml:"same_domain_only"`

	// Workers is the download pool size.
	Workers int `yaml:"workers"`

	// Mode controls logging verbosity: silent, normal, or verbose.
	Mode string `yaml:"mode"`

	// RequestsPerSecond throttles page fetches per domain.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// MaxScrolls bounds scroll-to-bottom pagination per page.
	MaxScrolls int `yaml:"max_scrolls"`

	// ScrollPause is the wait after each scroll before the DOM is read,
	// e.g. "2s". Zero keeps the session default.
	ScrollPause Duration `yaml:"scroll_pause"`

	// RetryDelays spaces download retry attempts, e.g. ["1s", "5s"].
	// Empty keeps the download manager's defaults.
	RetryDelays []Duration `yaml:"retry_delays"`

	// Headless runs the browser without a visible window.
	Headless bool `yaml:"headless"`

	// DebugDir, when set, receives a DOM snapshot of every rendered
	// page for troubleshooting extraction problems.
	DebugDir string `yaml:"debug_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OutputDir:         "downloads",
		MaxDepth:          3,
		SameDomainOnly:    true,
		Workers:           4,
		Mode:              ModeNormal,
		RequestsPerSecond: 1,
		MaxScrolls:        20,
		ScrollPause:       Duration(2 * time.Second),
		Headless:          true,
	}
}

// Load reads configuration from the YAML file at path, layered over the
// defaults. An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, mediascraper.Errorf(mediascraper.ECONFIG, "read config file %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, mediascraper.Errorf(mediascraper.ECONFIG, "parse config file %s: %v", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration for values that would make a run
// impossible. Validation errors are fatal configuration errors.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeSilent, ModeNormal, ModeVerbose:
	default:
		return mediascraper.Errorf(mediascraper.ECONFIG, "invalid mode %q: must be one of silent, normal, verbose", c.Mode)
	}
	if c.OutputDir == "" {
		return mediascraper.Errorf(mediascraper.ECONFIG, "output_dir must not be empty")
	}
	if c.MaxDepth < 1 {
		return mediascraper.Errorf(mediascraper.ECONFIG, "max_depth must be at least 1")
	}
	if c.Workers < 1 {
		return mediascraper.Errorf(mediascraper.ECONFIG, "workers must be at least 1")
	}
	if c.RequestsPerSecond <= 0 {
		return mediascraper.Errorf(mediascraper.ECONFIG, "requests_per_second must be positive")
	}
	if c.MaxScrolls < 1 {
		return mediascraper.Errorf(mediascraper.ECONFIG, "max_scrolls must be at least 1")
	}
	if c.ScrollPause < 0 {
		return mediascraper.Errorf(mediascraper.ECONFIG, "scroll_pause must not be negative")
	}
	for _, d := range c.RetryDelays {
		if d < 0 {
			return mediascraper.Errorf(mediascraper.ECONFIG, "retry_delays must not be negative")
		}
	}
	return nil
}

// RetryDelayDurations returns the retry delays as time.Durations.
func (c Config) RetryDelayDurations() []time.Duration {
	if len(c.RetryDelays) == 0 {
		return nil
	}
	delays := make([]time.Duration, len(c.RetryDelays))
	for i, d := range c.RetryDelays {
		delays[i] = time.Duration(d)
	}
	return delays
}

// LoadEnv loads variables from .env files into the process environment.
// Missing files are not an error; a malformed file is.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return mediascraper.Errorf(mediascraper.ECONFIG, "load env file %s: %v", f, err)
		}
	}
	return nil
}

// CredentialsFor reads platform login credentials from the environment,
// e.g. INSTAGRAM_USERNAME and INSTAGRAM_PASSWORD. Returns nil when no
// credentials are set for the kind.
func CredentialsFor(kind mediascraper.TargetKind) *mediascraper.Credentials {
	prefix := strings.ToUpper(string(kind))
	creds := &mediascraper.Credentials{
		Username: os.Getenv(fmt.Sprintf("%s_USERNAME", prefix)),
		Password: os.Getenv(fmt.Sprintf("%s_PASSWORD", prefix)),
	}
	if creds.Empty() {
		return nil
	}
	return creds
}
