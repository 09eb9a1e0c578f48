// Package download implements the concurrent media download pipeline.
// Media candidates are submitted by the crawl engine as pages are
// processed; a bounded worker pool fetches them with retries,
// deduplicates by content hash, and writes each file once under a
// sanitized folder.
package download

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	mediascraper "github.com/mitchlinDEV/media-scraper"
	"github.com/mitchlinDEV/media-scraper/fs"
	"golang.org/x/sync/errgroup"
)

// Pool defaults.
const (
	DefaultWorkers   = 4
	defaultQueueSize = 256
)

// DefaultRetryDelays spaces retry attempts for transient fetch
// failures. A fetch is attempted len(delays)+1 times in total.
var DefaultRetryDelays = []time.Duration{1 * time.Second, 5 * time.Second, 15 * time.Second}

// FileWriter persists media bytes under a folder.
type FileWriter interface {
	Save(folder, name string, data []byte) (*mediascraper.SavedFile, error)
}

var _ mediascraper.MediaSink = (*Manager)(nil)

// Manager is a bounded worker pool that downloads submitted media
// items. Content deduplication happens after download: two URLs serving
// identical bytes produce one file and one duplicate result. Close
// drains the queue and returns a terminal result for every submitted
// item.
type Manager struct {
	fetcher     mediascraper.MediaFetcher
	writer      FileWriter
	workers     int
	retryDelays []time.Duration

	jobs  chan job
	group errgroup.Group

	// sendMu serializes queue sends against Close so a racing Submit
	// never sends on the closed channel. Workers drain under mu, so a
	// Submit blocked on a full queue while holding sendMu still makes
	// progress.
	sendMu sync.Mutex
	closed bool

	mu      sync.Mutex
	hashes  map[string]struct{}
	names   map[string]map[string]struct{}
	results []mediascraper.DownloadResult
}

type job struct {
	item   *mediascraper.MediaItem
	folder string
}

// Option configures a Manager.
type Option func(*Manager)

// WithWorkers sets the number of concurrent download workers.
func WithWorkers(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.workers = n
		}
	}
}

// WithRetryDelays sets the delays between retry attempts. An empty
// slice disables retries.
func WithRetryDelays(delays []time.Duration) Option {
	return func(m *Manager) {
		m.retryDelays = delays
	}
}

// NewManager creates a download manager that fetches with fetcher and
// persists with writer. Call Start before submitting.
func NewManager(fetcher mediascraper.MediaFetcher, writer FileWriter, opts ...Option) *Manager {
	m := &Manager{
		fetcher:     fetcher,
		writer:      writer,
		workers:     DefaultWorkers,
		retryDelays: DefaultRetryDelays,
		jobs:        make(chan job, defaultQueueSize),
		hashes:      make(map[string]struct{}),
		names:       make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start launches the worker pool. Workers keep draining the queue after
// ctx is cancelled so that every submitted item still reaches a
// terminal result; cancelled items fail fast instead of fetching.
func (m *Manager) Start(ctx context.Context) {
	for i := 0; i < m.workers; i++ {
		m.group.Go(func() error {
			for j := range m.jobs {
				m.record(m.process(ctx, j))
			}
			return nil
		})
	}
}

// Submit queues a media item for download into the given folder. The
// folder is sanitized before use. Submit is safe to call concurrently
// with Close; submissions that lose the race are rejected.
func (m *Manager) Submit(item *mediascraper.MediaItem, folder string) error {
	m.sendMu.Lock()
	defer m.sendMu.Unlock()
	if m.closed {
		return mediascraper.Errorf(mediascraper.EINTERNAL, "download manager is closed")
	}
	m.jobs <- job{item: item, folder: folder}
	return nil
}

// Close stops accepting submissions, waits for in-flight downloads, and
// returns one result per submitted item.
func (m *Manager) Close() []mediascraper.DownloadResult {
	m.sendMu.Lock()
	alreadyClosed := m.closed
	m.closed = true
	if !alreadyClosed {
		close(m.jobs)
	}
	m.sendMu.Unlock()

	if !alreadyClosed {
		m.group.Wait()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.results
}

func (m *Manager) record(res mediascraper.DownloadResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, res)
}

func (m *Manager) process(ctx context.Context, j job) mediascraper.DownloadResult {
	res := mediascraper.DownloadResult{Item: j.item}

	if unsupportedSource(j.item.SourceURL) {
		res.Err = mediascraper.Errorf(mediascraper.EUNSUPPORTED, "cannot fetch stream URL %s", j.item.SourceURL)
		return res
	}

	data, err := m.fetchWithRetry(ctx, j.item.SourceURL)
	if err != nil {
		res.Err = coerce(mediascraper.EDOWNLOAD, err)
		return res
	}

	hash := fmt.Sprintf("%016x", xxhash.Sum64(data))
	j.item.ContentHash = hash

	// Claim the hash before writing so concurrent workers with
	// identical bytes race for exactly one file.
	m.mu.Lock()
	if _, dup := m.hashes[hash]; dup {
		m.mu.Unlock()
		res.Duplicate = true
		return res
	}
	m.hashes[hash] = struct{}{}

	folder := fs.SanitizeName(j.folder)
	name := m.reserveName(folder, fileName(j.item, hash))
	m.mu.Unlock()

	saved, err := m.writer.Save(folder, name, data)
	if err != nil {
		m.mu.Lock()
		delete(m.hashes, hash)
		m.mu.Unlock()
		res.Err = coerce(mediascraper.EDOWNLOAD, err)
		return res
	}

	res.File = saved
	return res
}

// fetchWithRetry attempts the fetch up to len(retryDelays)+1 times,
// sleeping between attempts. Cancellation cuts retries short.
func (m *Manager) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= len(m.retryDelays); attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := m.fetcher.Fetch(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err

		if attempt == len(m.retryDelays) {
			break
		}
		timer := time.NewTimer(m.retryDelays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

// reserveName returns a name unique within the folder, appending _1,
// _2, ... on collision. Callers must hold mu.
func (m *Manager) reserveName(folder, name string) string {
	reserved, ok := m.names[folder]
	if !ok {
		reserved = make(map[string]struct{})
		m.names[folder] = reserved
	}

	if _, taken := reserved[name]; !taken {
		reserved[name] = struct{}{}
		return name
	}

	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if _, taken := reserved[candidate]; !taken {
			reserved[candidate] = struct{}{}
			return candidate
		}
	}
}

// fileName derives a file name from the media URL, falling back to the
// content hash when the URL has no usable basename.
func fileName(item *mediascraper.MediaItem, hash string) string {
	base := urlBase(item.SourceURL)
	stem := strings.TrimSuffix(base, path.Ext(base))
	stem = fs.SanitizeName(stem)
	if stem == "" || stem == "untitled" {
		stem = hash
	}
	return stem + item.Ext
}

func urlBase(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	// Twitter size suffixes (photo.jpg:large) ride on the path.
	if i := strings.Index(base, ":"); i != -1 {
		base = base[:i]
	}
	if base == "." || base == "/" {
		return ""
	}
	return base
}

// unsupportedSource reports URLs that cannot be fetched as plain files:
// browser-internal blob references and unresolved HLS manifests.
func unsupportedSource(rawURL string) bool {
	if strings.HasPrefix(rawURL, "blob:") {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".m3u8")
}

func coerce(code string, err error) error {
	var appErr *mediascraper.Error
	if errors.As(err, &appErr) {
		return err
	}
	return mediascraper.Errorf(code, "%v", err)
}
