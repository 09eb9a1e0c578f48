package crawl

import (
	"strings"
	"sync"

	mediascraper "github.com/mitchlinDEV/media-scraper"
	"github.com/mitchlinDEV/media-scraper/bloom"
	"github.com/mitchlinDEV/media-scraper/purell"
)

// Frontier sizing defaults.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
)

// Compile-time interface verification.
var _ mediascraper.Frontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO crawl queue with Bloom filter deduplication.
// URLs are canonicalized on Push, so URLs differing only by fragment, query
// order, or default port are considered duplicates. Preserving discovery
// order makes traversal deterministic for a fixed link graph.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue []mediascraper.QueuedPage
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen: bloom.NewFilter(n, fpRate),
	}
}

// canonical normalizes a URL for deduplication. URLs that cannot be parsed
// fall back to manual fragment stripping.
func canonical(rawURL string) string {
	if normalized, err := purell.Canonicalize(rawURL); err == nil {
		return normalized
	}
	if idx := strings.Index(rawURL, "#"); idx != -1 {
		return rawURL[:idx]
	}
	return rawURL
}

// Push adds a page to the frontier.
// Returns false if the URL has already been seen.
func (f *Frontier) Push(p mediascraper.QueuedPage) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	url := canonical(p.URL)
	if f.seen.Test(url) {
		return false
	}
	f.seen.Add(url)

	p.URL = url
	f.queue = append(f.queue, p)
	return true
}

// Pop returns the next page in discovery order.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (mediascraper.QueuedPage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return mediascraper.QueuedPage{}, false
	}
	p := f.queue[0]
	f.queue = f.queue[1:]
	return p, true
}

// Len returns the number of pages in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been processed or queued.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(canonical(rawURL))
}
