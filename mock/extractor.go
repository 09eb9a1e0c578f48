package mock

import (
	"context"

	mediascraper "github.com/mitchlinDEV/media-scraper"
)

var _ mediascraper.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of mediascraper.Extractor.
type Extractor struct {
	ExtractFn     func(ctx context.Context, dom string, page *mediascraper.PageNode, sess mediascraper.BrowserSession) (*mediascraper.Extraction, error)
	EntryPointsFn func(target mediascraper.Target) ([]string, error)
	LoginURLFn    func() string
	NameFn        func() string
}

func (e *Extractor) Extract(ctx context.Context, dom string, page *mediascraper.PageNode, sess mediascraper.BrowserSession) (*mediascraper.Extraction, error) {
	return e.ExtractFn(ctx, dom, page, sess)
}

func (e *Extractor) EntryPoints(target mediascraper.Target) ([]string, error) {
	return e.EntryPointsFn(target)
}

func (e *Extractor) LoginURL() string {
	if e.LoginURLFn == nil {
		return ""
	}
	return e.LoginURLFn()
}

func (e *Extractor) Name() string {
	if e.NameFn == nil {
		return "mock"
	}
	return e.NameFn()
}

var _ mediascraper.ExtractorRegistry = (*ExtractorRegistry)(nil)

// ExtractorRegistry is a mock implementation of
// mediascraper.ExtractorRegistry.
type ExtractorRegistry struct {
	GetFn      func(kind mediascraper.TargetKind) mediascraper.Extractor
	RegisterFn func(kind mediascraper.TargetKind, e mediascraper.Extractor)
	KindsFn    func() []mediascraper.TargetKind
}

func (r *ExtractorRegistry) Get(kind mediascraper.TargetKind) mediascraper.Extractor {
	return r.GetFn(kind)
}

func (r *ExtractorRegistry) Register(kind mediascraper.TargetKind, e mediascraper.Extractor) {
	r.RegisterFn(kind, e)
}

func (r *ExtractorRegistry) Kinds() []mediascraper.TargetKind {
	return r.KindsFn()
}

var _ mediascraper.ManifestResolver = (*ManifestResolver)(nil)

// ManifestResolver is a mock implementation of mediascraper.ManifestResolver.
type ManifestResolver struct {
	ResolveFn func(ctx context.Context, manifestURL string) (string, error)
}

func (r *ManifestResolver) Resolve(ctx context.Context, manifestURL string) (string, error) {
	return r.ResolveFn(ctx, manifestURL)
}
