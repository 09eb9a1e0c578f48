package mock

import (
	"context"

	mediascraper "github.com/mitchlinDEV/media-scraper"
)

var _ mediascraper.MediaFetcher = (*MediaFetcher)(nil)

// MediaFetcher is a mock implementation of mediascraper.MediaFetcher.
type MediaFetcher struct {
	FetchFn func(ctx context.Context, url string) ([]byte, error)
}

func (f *MediaFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.FetchFn(ctx, url)
}

var _ mediascraper.MediaSink = (*MediaSink)(nil)

// MediaSink is a mock implementation of mediascraper.MediaSink.
type MediaSink struct {
	SubmitFn func(item *mediascraper.MediaItem, folder string) error
	CloseFn  func() []mediascraper.DownloadResult
}

func (s *MediaSink) Submit(item *mediascraper.MediaItem, folder string) error {
	return s.SubmitFn(item, folder)
}

func (s *MediaSink) Close() []mediascraper.DownloadResult {
	return s.CloseFn()
}
