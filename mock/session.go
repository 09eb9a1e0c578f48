package mock

import (
	"context"

	mediascraper "github.com/mitchlinDEV/media-scraper"
)

var _ mediascraper.BrowserSession = (*BrowserSession)(nil)

// BrowserSession is a mock implementation of mediascraper.BrowserSession.
type BrowserSession struct {
	RenderFn        func(ctx context.Context, url string) (string, error)
	ScrollAndWaitFn func(ctx context.Context) (string, error)
	CurrentURLFn    func() string
	LoginFn         func(ctx context.Context, loginURL string, creds mediascraper.Credentials) error
	CloseFn         func() error
}

func (s *BrowserSession) Render(ctx context.Context, url string) (string, error) {
	return s.RenderFn(ctx, url)
}

func (s *BrowserSession) ScrollAndWait(ctx context.Context) (string, error) {
	return s.ScrollAndWaitFn(ctx)
}

func (s *BrowserSession) CurrentURL() string {
	return s.CurrentURLFn()
}

func (s *BrowserSession) Login(ctx context.Context, loginURL string, creds mediascraper.Credentials) error {
	return s.LoginFn(ctx, loginURL, creds)
}

func (s *BrowserSession) Close() error {
	return s.CloseFn()
}
