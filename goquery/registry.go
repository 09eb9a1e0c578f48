package goquery

import mediascraper "github.com/mitchlinDEV/media-scraper"

var _ mediascraper.ExtractorRegistry = (*Registry)(nil)

// Registry maps target kinds to extractor variants. The crawl engine and
// download manager are unaware of platforms; adding one means registering a
// new Extractor here.
type Registry struct {
	extractors map[mediascraper.TargetKind]mediascraper.Extractor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[mediascraper.TargetKind]mediascraper.Extractor),
	}
}

// NewDefaultRegistry creates a Registry with the built-in variants
// registered: general, Instagram, and Twitter (using resolver for m3u8
// playlists).
func NewDefaultRegistry(resolver mediascraper.ManifestResolver) *Registry {
	r := NewRegistry()
	r.Register(mediascraper.TargetGeneral, NewGeneralExtractor())
	r.Register(mediascraper.TargetInstagram, NewInstagramExtractor())
	r.Register(mediascraper.TargetTwitter, NewTwitterExtractor(resolver))
	return r
}

// Get returns the extractor for a target kind.
// Returns nil if no extractor is registered for the kind.
func (r *Registry) Get(kind mediascraper.TargetKind) mediascraper.Extractor {
	return r.extractors[kind]
}

// Register adds an extractor for a target kind.
// If one is already registered for the kind, it is replaced.
func (r *Registry) Register(kind mediascraper.TargetKind, e mediascraper.Extractor) {
	r.extractors[kind] = e
}

// Kinds returns all registered target kinds.
func (r *Registry) Kinds() []mediascraper.TargetKind {
	kinds := make([]mediascraper.TargetKind, 0, len(r.extractors))
	for k := range r.extractors {
		kinds = append(kinds, k)
	}
	return kinds
}
