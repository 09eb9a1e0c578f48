package mock

import (
	"context"

	mediascraper "github.com/mitchlinDEV/media-scraper"
)

var _ mediascraper.Frontier = (*Frontier)(nil)

// Frontier is a mock implementation of mediascraper.Frontier.
type Frontier struct {
	PushFn func(p mediascraper.QueuedPage) bool
	PopFn  func() (mediascraper.QueuedPage, bool)
	LenFn  func() int
	SeenFn func(url string) bool
}

func (f *Frontier) Push(p mediascraper.QueuedPage) bool {
	return f.PushFn(p)
}

func (f *Frontier) Pop() (mediascraper.QueuedPage, bool) {
	return f.PopFn()
}

func (f *Frontier) Len() int {
	return f.LenFn()
}

func (f *Frontier) Seen(url string) bool {
	return f.SeenFn(url)
}

var _ mediascraper.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of mediascraper.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
