package mediascraper

import "context"

// Extraction holds the candidates produced from a single rendered page.
type Extraction struct {
	// Title is the page title, used to derive the destination folder for
	// general targets.
	Title string

	// Media are the discovered media candidates, deduplicated by URL.
	Media []*MediaItem

	// Links are outbound link URLs, absolute, fragment-stripped, and
	// deduplicated in document order.
	Links []string
}

// Extractor produces media candidates and outbound links from a rendered
// page. Variants exist per platform; a malformed or empty DOM yields empty
// candidate sets, never a panic.
//
// Platform extractors may drive the session further (scrolling to paginate
// a profile grid, rendering individual posts); the session is the same
// sequential session the crawl engine renders with, so extractors must not
// retain it past the Extract call.
type Extractor interface {
	// Extract parses the DOM snapshot of page and returns candidates.
	Extract(ctx context.Context, dom string, page *PageNode, sess BrowserSession) (*Extraction, error)

	// EntryPoints returns the traversal seeds for a target, e.g. a profile
	// page for platform usernames.
	EntryPoints(target Target) ([]string, error)

	// LoginURL returns the platform login page, or "" when the variant
	// needs no authentication.
	LoginURL() string

	// Name returns the extractor's identifier (e.g. "instagram").
	Name() string
}

// ExtractorRegistry maps a target kind to the matching extractor variant.
// Adding a platform requires only a new Extractor implementation plus a
// registry entry.
type ExtractorRegistry interface {
	// Get returns the extractor for a target kind, or nil when none is
	// registered.
	Get(kind TargetKind) Extractor

	// Register adds an extractor for a target kind, replacing any
	// previous entry.
	Register(kind TargetKind, e Extractor)

	// Kinds returns all registered target kinds.
	Kinds() []TargetKind
}

// ManifestResolver resolves manifest-style (m3u8) playlist URLs to the
// direct media URL of the highest-bitrate variant. Unresolvable manifests
// return an EUNSUPPORTED error rather than crashing extraction.
type ManifestResolver interface {
	Resolve(ctx context.Context, manifestURL string) (string, error)
}
