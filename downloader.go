package mediascraper

import "context"

// MediaFetcher retrieves raw media bytes from a URL.
type MediaFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// DownloadResult is the terminal record for one submitted MediaItem: every
// item ends Saved (File set), Duplicate (content hash already written this
// run), or Failed (Err set with a specific reason).
type DownloadResult struct {
	Item      *MediaItem
	File      *SavedFile
	Duplicate bool
	Err       error
}

// Failed reports whether the item ended in a failure state.
func (r DownloadResult) Failed() bool {
	return r.Err != nil
}

// MediaSink accepts discovered media items for asynchronous download and
// persistence. The crawl engine submits items as pages are extracted and
// closes the sink when the frontier is exhausted; the two sides communicate
// only through the sink's queue so neither blocks the other.
type MediaSink interface {
	// Submit enqueues an item for download into the (pre-sanitization)
	// folder hint. Returns an error when the sink is no longer accepting
	// work.
	Submit(item *MediaItem, folder string) error

	// Close stops intake, waits for in-flight downloads to complete or
	// abort cleanly, and returns the terminal result for every submitted
	// item.
	Close() []DownloadResult
}
