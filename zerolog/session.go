package zerolog

import (
	"context"
	"time"

	mediascraper "github.com/mitchlinDEV/media-scraper"
	"github.com/rs/zerolog"
)

var _ mediascraper.BrowserSession = (*BrowserSession)(nil)

// BrowserSession wraps a browser session with structured logging.
type BrowserSession struct {
	session mediascraper.BrowserSession
	logger  zerolog.Logger
}

// NewBrowserSession decorates sess with logging.
func NewBrowserSession(sess mediascraper.BrowserSession, logger zerolog.Logger) *BrowserSession {
	return &BrowserSession{session: sess, logger: logger}
}

func (s *BrowserSession) Render(ctx context.Context, url string) (string, error) {
	start := time.Now()
	dom, err := s.session.Render(ctx, url)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("render failed")
		return "", err
	}
	s.logger.Debug().
		Str("url", url).
		Int("bytes", len(dom)).
		Dur("elapsed", time.Since(start)).
		Msg("rendered page")
	return dom, nil
}

func (s *BrowserSession) ScrollAndWait(ctx context.Context) (string, error) {
	dom, err := s.session.ScrollAndWait(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", s.session.CurrentURL()).Msg("scroll failed")
		return "", err
	}
	s.logger.Debug().Str("url", s.session.CurrentURL()).Msg("scrolled page")
	return dom, nil
}

func (s *BrowserSession) CurrentURL() string {
	return s.session.CurrentURL()
}

func (s *BrowserSession) Login(ctx context.Context, loginURL string, creds mediascraper.Credentials) error {
	if err := s.session.Login(ctx, loginURL, creds); err != nil {
		s.logger.Warn().Err(err).Str("url", loginURL).Str("user", creds.Username).Msg("login failed")
		return err
	}
	s.logger.Info().Str("url", loginURL).Str("user", creds.Username).Msg("logged in")
	return nil
}

func (s *BrowserSession) Close() error {
	return s.session.Close()
}
