package rod

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	mediascraper "github.com/mitchlinDEV/media-scraper"
)

// defaultScrollPause gives lazy-loaded content time to arrive after a
// scroll before the DOM is read back.
const defaultScrollPause = 2 * time.Second

// Ensure Session implements mediascraper.BrowserSession at compile time.
var _ mediascraper.BrowserSession = (*Session)(nil)

// Session drives a single browser tab. All operations share the same
// tab, so cookies, login state, and scroll position persist between
// calls. The crawl engine serializes page operations, but Session
// guards its tab with a mutex so decorators and callers need not.
type Session struct {
	manager *Manager

	mu         sync.Mutex
	page       *rod.Page
	currentURL string

	scrollPause time.Duration
	debugDir    string
	snapshots   int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithScrollPause sets the wait after each scroll before the DOM is
// read. Defaults to 2 seconds.
func WithScrollPause(d time.Duration) SessionOption {
	return func(s *Session) {
		s.scrollPause = d
	}
}

// WithDebugDir enables DOM snapshot capture: every rendered page is
// written to dir as an HTML file for troubleshooting extraction.
func WithDebugDir(dir string) SessionOption {
	return func(s *Session) {
		s.debugDir = dir
	}
}

// NewSession opens a fresh tab in the manager's browser. Close must be
// called when the session is no longer needed; it closes the tab but
// leaves the browser running.
func NewSession(manager *Manager, opts ...SessionOption) (*Session, error) {
	s := &Session{
		manager:     manager,
		scrollPause: defaultScrollPause,
	}
	for _, opt := range opts {
		opt(s)
	}

	page, err := manager.browserForSession().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, mediascraper.Errorf(mediascraper.EFETCH, "open browser tab: %v", err)
	}
	s.page = page

	return s, nil
}

// Render navigates the tab to the URL, waits for the page to load, and
// returns the rendered HTML.
func (s *Session) Render(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	page := s.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return "", mediascraper.Errorf(mediascraper.EFETCH, "navigate to %s: %v", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", mediascraper.Errorf(mediascraper.EFETCH, "wait for %s: %v", url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", mediascraper.Errorf(mediascraper.EFETCH, "read DOM of %s: %v", url, err)
	}

	s.currentURL = url
	s.manager.incrementPageCount()
	s.captureSnapshot(html)
	return html, nil
}

// ScrollAndWait scrolls the current page to the bottom, waits for lazy
// content, and returns the updated DOM.
func (s *Session) ScrollAndWait(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	page := s.page.Context(ctx)
	if _, err := page.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
		return "", mediascraper.Errorf(mediascraper.EFETCH, "scroll %s: %v", s.currentURL, err)
	}

	timer := time.NewTimer(s.scrollPause)
	select {
	case <-ctx.Done():
		timer.Stop()
		return "", ctx.Err()
	case <-timer.C:
	}

	html, err := page.HTML()
	if err != nil {
		return "", mediascraper.Errorf(mediascraper.EFETCH, "read DOM of %s: %v", s.currentURL, err)
	}
	return html, nil
}

// CurrentURL returns the URL of the last successful Render.
func (s *Session) CurrentURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentURL
}

// Login navigates to the login page, fills the credential form, and
// submits it. The logged-in state lives in the tab's cookies and
// carries over to subsequent renders.
func (s *Session) Login(ctx context.Context, loginURL string, creds mediascraper.Credentials) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	page := s.page.Context(ctx)
	if err := page.Navigate(loginURL); err != nil {
		return mediascraper.Errorf(mediascraper.EFETCH, "navigate to login %s: %v", loginURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return mediascraper.Errorf(mediascraper.EFETCH, "wait for login %s: %v", loginURL, err)
	}

	username, err := page.Element(`input[name="username"], input[type="text"], input[type="email"]`)
	if err != nil {
		return mediascraper.Errorf(mediascraper.EFETCH, "find username field on %s: %v", loginURL, err)
	}
	if err := username.Input(creds.Username); err != nil {
		return mediascraper.Errorf(mediascraper.EFETCH, "fill username on %s: %v", loginURL, err)
	}

	password, err := page.Element(`input[type="password"]`)
	if err != nil {
		return mediascraper.Errorf(mediascraper.EFETCH, "find password field on %s: %v", loginURL, err)
	}
	if err := password.Input(creds.Password); err != nil {
		return mediascraper.Errorf(mediascraper.EFETCH, "fill password on %s: %v", loginURL, err)
	}

	submit, err := page.Element(`button[type="submit"], input[type="submit"]`)
	if err != nil {
		return mediascraper.Errorf(mediascraper.EFETCH, "find submit button on %s: %v", loginURL, err)
	}
	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return mediascraper.Errorf(mediascraper.EFETCH, "submit login on %s: %v", loginURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return mediascraper.Errorf(mediascraper.EFETCH, "wait after login on %s: %v", loginURL, err)
	}

	return nil
}

// Close closes the tab. The browser itself stays up for reuse by the
// next session.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page == nil {
		return nil
	}
	err := s.page.Close()
	s.page = nil
	return err
}

// captureSnapshot writes the DOM to the debug directory when enabled.
// Snapshot failures are ignored; debugging must not break a crawl.
// Must be called with mu held.
func (s *Session) captureSnapshot(html string) {
	if s.debugDir == "" {
		return
	}
	s.snapshots++
	name := fmt.Sprintf("page-%04d.html", s.snapshots)
	if err := os.MkdirAll(s.debugDir, 0o755); err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(s.debugDir, name), []byte(html), 0o644)
}
