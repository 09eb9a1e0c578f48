package zerolog

import (
	"context"
	"time"

	mediascraper "github.com/mitchlinDEV/media-scraper"
	"github.com/rs/zerolog"
)

var _ mediascraper.MediaFetcher = (*MediaFetcher)(nil)

// MediaFetcher wraps a media fetcher with structured logging.
type MediaFetcher struct {
	fetcher mediascraper.MediaFetcher
	logger  zerolog.Logger
}

// NewMediaFetcher decorates f with logging.
func NewMediaFetcher(f mediascraper.MediaFetcher, logger zerolog.Logger) *MediaFetcher {
	return &MediaFetcher{fetcher: f, logger: logger}
}

func (f *MediaFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	data, err := f.fetcher.Fetch(ctx, url)
	if err != nil {
		f.logger.Warn().Err(err).Str("url", url).Msg("fetch failed")
		return nil, err
	}
	f.logger.Debug().
		Str("url", url).
		Int("bytes", len(data)).
		Dur("elapsed", time.Since(start)).
		Msg("fetched media")
	return data, nil
}
