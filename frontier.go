package mediascraper

import "context"

// QueuedPage is a frontier entry: a URL with its traversal depth and the
// page it was discovered on.
type QueuedPage struct {
	URL       string
	Depth     int
	ParentURL string
}

// Frontier manages the crawl queue with visited-set deduplication. URLs are
// canonicalized on entry, so a possibly cyclic link graph is traversed with
// each canonical URL processed at most once per run.
type Frontier interface {
	// Push adds a page to the frontier.
	// Returns false if the URL has already been seen.
	Push(p QueuedPage) bool

	// Pop returns the next page in discovery (FIFO) order.
	// Returns false if the frontier is empty.
	Pop() (QueuedPage, bool)

	// Len returns the number of pages in the queue.
	Len() int

	// Seen returns true if the URL has been processed or queued.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
