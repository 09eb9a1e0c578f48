// Package crawl implements the depth-bounded recursive traversal that
// drives a scrape run. The engine owns the single browser session, walks
// pages in discovery order, hands rendered documents to the target's
// extractor, and feeds media candidates to the download sink.
package crawl

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/google/uuid"
	mediascraper "github.com/mitchlinDEV/media-scraper"
)

// DefaultMaxDepth is the default recursion limit. Depth 0 is the entry
// point itself, so the default walks the entry page plus three levels of
// links below it.
const DefaultMaxDepth = 3

// ProgressKind identifies a crawl progress event.
type ProgressKind int

const (
	ProgressFetching ProgressKind = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressEvent reports crawl progress to an optional observer.
type ProgressEvent struct {
	Kind  ProgressKind
	URL   string
	Depth int
	Media int
	Err   error
}

// ProgressFunc receives progress events during a crawl run.
type ProgressFunc func(ProgressEvent)

// Engine performs a breadth-first crawl of a target using a single
// browser session. Page fetching is strictly sequential because the
// session is a stateful single-tab facade; downloads run concurrently
// behind the Downloads sink.
type Engine struct {
	// Session is the browser facade used to render pages. Required.
	Session mediascraper.BrowserSession

	// Extractors maps target kinds to extraction strategies. Required.
	Extractors mediascraper.ExtractorRegistry

	// Downloads receives media candidates as pages are processed.
	// Optional; when nil, discovered media is counted but not fetched.
	Downloads mediascraper.MediaSink

	// Limiter throttles page fetches per domain. Optional.
	Limiter mediascraper.DomainLimiter

	// Frontier holds the visit queue. Optional; defaults to an
	// in-memory FIFO frontier with Bloom deduplication.
	Frontier mediascraper.Frontier

	// MaxDepth bounds recursion. Values < 1 mean DefaultMaxDepth.
	MaxDepth int

	// SameDomainOnly restricts link traversal to the entry point's
	// host. Media downloads are never restricted by domain.
	SameDomainOnly bool

	// Progress receives per-page events. Optional.
	Progress ProgressFunc
}

// Run crawls the target and returns a report accounting for every page
// visited and every media item discovered. Page-level failures are
// recorded in the report and do not abort the run; only configuration
// errors and context cancellation do. On cancellation the report built
// so far is returned alongside the context error.
func (e *Engine) Run(ctx context.Context, target mediascraper.Target, creds *mediascraper.Credentials) (*mediascraper.Report, error) {
	report := &mediascraper.Report{
		RunID:     uuid.NewString(),
		Target:    target,
		StartedAt: time.Now(),
	}

	ext := e.Extractors.Get(target.Kind)
	if ext == nil {
		return nil, mediascraper.Errorf(mediascraper.ECONFIG, "no extractor registered for target kind %q", target.Kind)
	}

	entries, err := ext.EntryPoints(target)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, mediascraper.Errorf(mediascraper.ECONFIG, "target %s has no entry points", target)
	}

	// Authentication failures are recoverable: public content may
	// still be reachable, so the run continues logged out.
	if creds != nil && !creds.Empty() && ext.LoginURL() != "" {
		if err := e.Session.Login(ctx, ext.LoginURL(), *creds); err != nil {
			report.RecordFailure(ext.LoginURL(), err)
		}
	}

	frontier := e.Frontier
	if frontier == nil {
		frontier = NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	}
	for _, entry := range entries {
		frontier.Push(mediascraper.QueuedPage{URL: entry, Depth: 0})
	}
	seedHost := hostOf(entries[0])

	maxDepth := e.MaxDepth
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}

	runErr := e.walk(ctx, frontier, ext, target, seedHost, maxDepth, report)

	// Let in-flight downloads finish even when the walk was cut short,
	// so every submitted item reaches a terminal state in the report.
	if e.Downloads != nil {
		for _, res := range e.Downloads.Close() {
			switch {
			case res.Failed():
				report.MediaFailed++
				report.RecordFailure(res.Item.SourceURL, res.Err)
			case res.Duplicate:
				report.MediaDuplicate++
			default:
				report.MediaSaved++
			}
		}
	}

	report.FinishedAt = time.Now()
	e.progress(ProgressEvent{Kind: ProgressFinished, Media: report.MediaDiscovered})
	return report, runErr
}

// walk drains the frontier sequentially, rendering and extracting one
// page at a time.
func (e *Engine) walk(ctx context.Context, frontier mediascraper.Frontier, ext mediascraper.Extractor, target mediascraper.Target, seedHost string, maxDepth int, report *mediascraper.Report) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		qp, ok := frontier.Pop()
		if !ok {
			return nil
		}

		node := &mediascraper.PageNode{
			URL:          qp.URL,
			Depth:        qp.Depth,
			State:        mediascraper.PageDiscovered,
			ParentURL:    qp.ParentURL,
			DiscoveredAt: time.Now(),
		}
		e.progress(ProgressEvent{Kind: ProgressFetching, URL: node.URL, Depth: node.Depth})

		if e.Limiter != nil {
			if err := e.Limiter.Wait(ctx, hostOf(node.URL)); err != nil {
				// Wait only fails when the context is done.
				return err
			}
		}

		node.State = mediascraper.PageFetching
		report.PagesVisited++

		dom, err := e.Session.Render(ctx, node.URL)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			node.State = mediascraper.PageFetchFailed
			node.Err = err
			report.PagesFailed++
			report.RecordFailure(node.URL, coerce(mediascraper.EFETCH, err))
			e.progress(ProgressEvent{Kind: ProgressFailed, URL: node.URL, Depth: node.Depth, Err: err})
			continue
		}

		extraction, err := ext.Extract(ctx, dom, node, e.Session)
		if err != nil {
			// Extraction failures are recoverable: the page simply
			// yields no candidates.
			report.RecordFailure(node.URL, coerce(mediascraper.EEXTRACT, err))
			extraction = &mediascraper.Extraction{}
		}
		node.State = mediascraper.PageExtracted

		folder := folderHint(target, extraction, node)
		for _, item := range extraction.Media {
			report.MediaDiscovered++
			if e.Downloads == nil {
				continue
			}
			if err := e.Downloads.Submit(item, folder); err != nil {
				report.MediaFailed++
				report.RecordFailure(item.SourceURL, err)
			}
		}

		if qp.Depth < maxDepth {
			for _, link := range extraction.Links {
				if e.SameDomainOnly && hostOf(link) != seedHost {
					continue
				}
				frontier.Push(mediascraper.QueuedPage{
					URL:       link,
					Depth:     qp.Depth + 1,
					ParentURL: node.URL,
				})
			}
		}

		node.State = mediascraper.PageCompleted
		e.progress(ProgressEvent{Kind: ProgressCompleted, URL: node.URL, Depth: node.Depth, Media: len(extraction.Media)})
	}
}

func (e *Engine) progress(ev ProgressEvent) {
	if e.Progress != nil {
		e.Progress(ev)
	}
}

// folderHint derives the destination folder name for a page's media.
// Platform targets group everything under the username; general targets
// use the page title with the host as fallback.
func folderHint(target mediascraper.Target, extraction *mediascraper.Extraction, node *mediascraper.PageNode) string {
	if target.Kind != mediascraper.TargetGeneral {
		return target.Value
	}
	if extraction.Title != "" {
		return extraction.Title
	}
	return hostOf(node.URL)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

func coerce(code string, err error) error {
	var appErr *mediascraper.Error
	if errors.As(err, &appErr) {
		return err
	}
	return mediascraper.Errorf(code, "%v", err)
}
