package download_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	mediascraper "github.com/mitchlinDEV/media-scraper"
	"github.com/mitchlinDEV/media-scraper/download"
	"github.com/mitchlinDEV/media-scraper/fs"
	scraperhttp "github.com/mitchlinDEV/media-scraper/http"
	"github.com/mitchlinDEV/media-scraper/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(url, ext string) *mediascraper.MediaItem {
	return &mediascraper.MediaItem{
		SourceURL: url,
		Kind:      mediascraper.MediaImage,
		Ext:       ext,
	}
}

func bytesFetcher(pages map[string][]byte) *mock.MediaFetcher {
	return &mock.MediaFetcher{
		FetchFn: func(ctx context.Context, url string) ([]byte, error) {
			data, ok := pages[url]
			if !ok {
				return nil, mediascraper.Errorf(mediascraper.EDOWNLOAD, "fetch %s: status 404", url)
			}
			return data, nil
		},
	}
}

func countResults(results []mediascraper.DownloadResult) (saved, duplicate, failed int) {
	for _, res := range results {
		switch {
		case res.Failed():
			failed++
		case res.Duplicate:
			duplicate++
		default:
			saved++
		}
	}
	return saved, duplicate, failed
}

func TestManager(t *testing.T) {
	t.Parallel()

	t.Run("downloads submitted items into sanitized folders", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		fetcher := bytesFetcher(map[string][]byte{
			"https://example.com/a.jpg": []byte("first image"),
			"https://example.com/b.png": []byte("second image"),
		})

		m := download.NewManager(fetcher, fs.NewWriter(root))
		m.Start(context.Background())

		require.NoError(t, m.Submit(item("https://example.com/a.jpg", ".jpg"), "My: Page?"))
		require.NoError(t, m.Submit(item("https://example.com/b.png", ".png"), "My: Page?"))

		results := m.Close()
		require.Len(t, results, 2)
		saved, duplicate, failed := countResults(results)
		assert.Equal(t, 2, saved)
		assert.Equal(t, 0, duplicate)
		assert.Equal(t, 0, failed)

		_, err := os.Stat(filepath.Join(root, "My_ Page_", "a.jpg"))
		assert.NoError(t, err)
		_, err = os.Stat(filepath.Join(root, "My_ Page_", "b.png"))
		assert.NoError(t, err)
	})

	t.Run("retries transient failures before succeeding", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32
		fetcher := &mock.MediaFetcher{
			FetchFn: func(ctx context.Context, url string) ([]byte, error) {
				if attempts.Add(1) < 3 {
					return nil, mediascraper.Errorf(mediascraper.EDOWNLOAD, "status 503")
				}
				return []byte("payload"), nil
			},
		}

		m := download.NewManager(fetcher, fs.NewWriter(t.TempDir()),
			download.WithRetryDelays([]time.Duration{time.Millisecond, time.Millisecond}))
		m.Start(context.Background())

		require.NoError(t, m.Submit(item("https://example.com/flaky.jpg", ".jpg"), "f"))

		results := m.Close()
		require.Len(t, results, 1)
		assert.False(t, results[0].Failed())
		assert.EqualValues(t, 3, attempts.Load())
	})

	t.Run("exhausted retries fail the item with a download error", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32
		fetcher := &mock.MediaFetcher{
			FetchFn: func(ctx context.Context, url string) ([]byte, error) {
				attempts.Add(1)
				return nil, mediascraper.Errorf(mediascraper.EDOWNLOAD, "status 500")
			},
		}

		m := download.NewManager(fetcher, fs.NewWriter(t.TempDir()),
			download.WithRetryDelays([]time.Duration{time.Millisecond, time.Millisecond}))
		m.Start(context.Background())

		require.NoError(t, m.Submit(item("https://example.com/down.jpg", ".jpg"), "f"))

		results := m.Close()
		require.Len(t, results, 1)
		require.True(t, results[0].Failed())
		assert.Equal(t, mediascraper.EDOWNLOAD, mediascraper.ErrorCode(results[0].Err))
		assert.EqualValues(t, 3, attempts.Load())
	})

	t.Run("identical content from different URLs is stored once", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		fetcher := bytesFetcher(map[string][]byte{
			"https://example.com/one.jpg":           []byte("same bytes"),
			"https://mirror.example.com/other.jpg":  []byte("same bytes"),
		})

		m := download.NewManager(fetcher, fs.NewWriter(root))
		m.Start(context.Background())

		require.NoError(t, m.Submit(item("https://example.com/one.jpg", ".jpg"), "pics"))
		require.NoError(t, m.Submit(item("https://mirror.example.com/other.jpg", ".jpg"), "pics"))

		results := m.Close()
		require.Len(t, results, 2)
		saved, duplicate, failed := countResults(results)
		assert.Equal(t, 1, saved)
		assert.Equal(t, 1, duplicate)
		assert.Equal(t, 0, failed)

		entries, err := os.ReadDir(filepath.Join(root, "pics"))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("name collisions get numeric suffixes", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		fetcher := bytesFetcher(map[string][]byte{
			"https://a.example.com/photo.jpg": []byte("content a"),
			"https://b.example.com/photo.jpg": []byte("content b"),
		})

		m := download.NewManager(fetcher, fs.NewWriter(root), download.WithWorkers(1))
		m.Start(context.Background())

		require.NoError(t, m.Submit(item("https://a.example.com/photo.jpg", ".jpg"), "pics"))
		require.NoError(t, m.Submit(item("https://b.example.com/photo.jpg", ".jpg"), "pics"))

		results := m.Close()
		saved, _, failed := countResults(results)
		require.Equal(t, 2, saved)
		require.Equal(t, 0, failed)

		_, err := os.Stat(filepath.Join(root, "pics", "photo.jpg"))
		assert.NoError(t, err)
		_, err = os.Stat(filepath.Join(root, "pics", "photo_1.jpg"))
		assert.NoError(t, err)
	})

	t.Run("blob stream URLs fail as unsupported without fetching", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.MediaFetcher{
			FetchFn: func(ctx context.Context, url string) ([]byte, error) {
				t.Error("fetch should not be called for blob URLs")
				return nil, nil
			},
		}

		m := download.NewManager(fetcher, fs.NewWriter(t.TempDir()))
		m.Start(context.Background())

		blob := &mediascraper.MediaItem{
			SourceURL: "blob:https://twitter.com/0a1b2c3d",
			Kind:      mediascraper.MediaVideo,
			Ext:       ".mp4",
		}
		require.NoError(t, m.Submit(blob, "vids"))

		results := m.Close()
		require.Len(t, results, 1)
		require.True(t, results[0].Failed())
		assert.Equal(t, mediascraper.EUNSUPPORTED, mediascraper.ErrorCode(results[0].Err))
	})

	t.Run("unresolved manifests fail as unsupported", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.MediaFetcher{
			FetchFn: func(ctx context.Context, url string) ([]byte, error) {
				t.Error("fetch should not be called for manifest URLs")
				return nil, nil
			},
		}

		m := download.NewManager(fetcher, fs.NewWriter(t.TempDir()))
		m.Start(context.Background())

		manifest := &mediascraper.MediaItem{
			SourceURL: "https://video.example.com/pl/master.m3u8",
			Kind:      mediascraper.MediaVideo,
			Ext:       ".mp4",
		}
		require.NoError(t, m.Submit(manifest, "vids"))

		results := m.Close()
		require.Len(t, results, 1)
		require.True(t, results[0].Failed())
		assert.Equal(t, mediascraper.EUNSUPPORTED, mediascraper.ErrorCode(results[0].Err))
	})

	t.Run("resolved manifests download as direct files", func(t *testing.T) {
		t.Parallel()

		master := "#EXTM3U\n#EXT-X-STREAM-INF:BANDWIDTH=2048000\nhigh/stream.m3u8\n"
		variant := "#EXTM3U\n#EXT-X-TARGETDURATION:3\n#EXTINF:3.0,\nvid_720.mp4\n#EXTINF:2.5,\nvid_720.mp4\n#EXT-X-ENDLIST\n"
		root := t.TempDir()
		fetcher := bytesFetcher(map[string][]byte{
			"https://video.example.com/pl/master.m3u8":      []byte(master),
			"https://video.example.com/pl/high/stream.m3u8": []byte(variant),
			"https://video.example.com/pl/high/vid_720.mp4": []byte("video bytes"),
		})

		resolver := scraperhttp.NewResolver(fetcher)
		resolved, err := resolver.Resolve(context.Background(), "https://video.example.com/pl/master.m3u8")
		require.NoError(t, err)

		m := download.NewManager(fetcher, fs.NewWriter(root))
		m.Start(context.Background())

		video := &mediascraper.MediaItem{
			SourceURL: resolved,
			Kind:      mediascraper.MediaVideo,
			Ext:       ".mp4",
		}
		require.NoError(t, m.Submit(video, "vids"))

		results := m.Close()
		require.Len(t, results, 1)
		require.False(t, results[0].Failed())

		_, err = os.Stat(filepath.Join(root, "vids", "vid_720.mp4"))
		assert.NoError(t, err)
	})

	t.Run("URLs without a basename fall back to the content hash", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		fetcher := bytesFetcher(map[string][]byte{
			"https://example.com/": []byte("root served image"),
		})

		m := download.NewManager(fetcher, fs.NewWriter(root))
		m.Start(context.Background())

		require.NoError(t, m.Submit(item("https://example.com/", ".jpg"), "pics"))

		results := m.Close()
		require.Len(t, results, 1)
		require.False(t, results[0].Failed())

		entries, err := os.ReadDir(filepath.Join(root, "pics"))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		name := entries[0].Name()
		assert.Equal(t, ".jpg", filepath.Ext(name))
		assert.Len(t, name, 16+len(".jpg"))
	})

	t.Run("content hash is recorded on the item", func(t *testing.T) {
		t.Parallel()

		fetcher := bytesFetcher(map[string][]byte{
			"https://example.com/a.jpg": []byte("image"),
		})

		m := download.NewManager(fetcher, fs.NewWriter(t.TempDir()))
		m.Start(context.Background())

		it := item("https://example.com/a.jpg", ".jpg")
		require.NoError(t, m.Submit(it, "pics"))
		m.Close()

		assert.Len(t, it.ContentHash, 16)
	})

	t.Run("submit after close is rejected", func(t *testing.T) {
		t.Parallel()

		m := download.NewManager(bytesFetcher(nil), fs.NewWriter(t.TempDir()))
		m.Start(context.Background())
		m.Close()

		err := m.Submit(item("https://example.com/a.jpg", ".jpg"), "pics")
		require.Error(t, err)
		assert.Equal(t, mediascraper.EINTERNAL, mediascraper.ErrorCode(err))
	})

	t.Run("submits racing close are rejected or resolved, never dropped", func(t *testing.T) {
		t.Parallel()

		m := download.NewManager(bytesFetcher(nil), fs.NewWriter(t.TempDir()),
			download.WithRetryDelays(nil))
		m.Start(context.Background())

		var accepted atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 64; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if m.Submit(item("https://example.com/x.jpg", ".jpg"), "pics") == nil {
					accepted.Add(1)
				}
			}()
		}

		results := m.Close()
		wg.Wait()

		assert.Len(t, results, int(accepted.Load()),
			"every accepted submission reaches a terminal result")
	})
}
