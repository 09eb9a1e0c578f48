// Package http provides plain HTTP fetching for media bytes and HLS
// manifest resolution. Page rendering lives in the rod package; this
// package only touches URLs that point at files.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	mediascraper "github.com/mitchlinDEV/media-scraper"
)

// defaultUserAgent mirrors a desktop browser so media CDNs serve the
// same bytes they would to the rendering session.
const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

var _ mediascraper.MediaFetcher = (*Client)(nil)

// Client fetches media bytes over HTTP.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent overrides the User-Agent header sent with each request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a media fetcher with a 60 second request timeout.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads the URL and returns the response body. Twitter-style
// ":large" size suffixes are preserved as-is; CDNs accept them in the
// path. Non-2xx responses are download errors.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, mediascraper.Errorf(mediascraper.EDOWNLOAD, "build request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, mediascraper.Errorf(mediascraper.EDOWNLOAD, "fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, mediascraper.Errorf(mediascraper.EDOWNLOAD, "fetch %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, mediascraper.Errorf(mediascraper.EDOWNLOAD, "read body of %s: %v", url, err)
	}
	return data, nil
}
