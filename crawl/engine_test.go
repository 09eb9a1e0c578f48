package crawl_test

import (
	"context"
	"testing"

	mediascraper "github.com/mitchlinDEV/media-scraper"
	"github.com/mitchlinDEV/media-scraper/crawl"
	"github.com/mitchlinDEV/media-scraper/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// graphExtractor builds a mock extractor backed by a static link/media
// graph keyed by page URL.
func graphExtractor(seed string, graph map[string]*mediascraper.Extraction) *mock.Extractor {
	return &mock.Extractor{
		EntryPointsFn: func(target mediascraper.Target) ([]string, error) {
			return []string{seed}, nil
		},
		ExtractFn: func(ctx context.Context, dom string, page *mediascraper.PageNode, sess mediascraper.BrowserSession) (*mediascraper.Extraction, error) {
			if ex, ok := graph[page.URL]; ok {
				return ex, nil
			}
			return &mediascraper.Extraction{}, nil
		},
	}
}

func registryFor(e mediascraper.Extractor) *mock.ExtractorRegistry {
	return &mock.ExtractorRegistry{
		GetFn: func(kind mediascraper.TargetKind) mediascraper.Extractor {
			return e
		},
	}
}

// recordingSink accumulates submitted items and reports them all saved.
type recordingSink struct {
	items   []*mediascraper.MediaItem
	folders []string
}

func (s *recordingSink) sink() *mock.MediaSink {
	return &mock.MediaSink{
		SubmitFn: func(item *mediascraper.MediaItem, folder string) error {
			s.items = append(s.items, item)
			s.folders = append(s.folders, folder)
			return nil
		},
		CloseFn: func() []mediascraper.DownloadResult {
			results := make([]mediascraper.DownloadResult, 0, len(s.items))
			for _, item := range s.items {
				results = append(results, mediascraper.DownloadResult{
					Item: item,
					File: &mediascraper.SavedFile{Name: "file"},
				})
			}
			return results
		},
	}
}

func renderedPages(rendered *[]string) *mock.BrowserSession {
	return &mock.BrowserSession{
		RenderFn: func(ctx context.Context, url string) (string, error) {
			*rendered = append(*rendered, url)
			return "<html></html>", nil
		},
	}
}

func TestEngine_Run(t *testing.T) {
	t.Parallel()

	target := mediascraper.Target{Kind: mediascraper.TargetGeneral, Value: "https://example.com/"}

	t.Run("walks the link graph breadth-first without revisiting", func(t *testing.T) {
		t.Parallel()

		graph := map[string]*mediascraper.Extraction{
			"https://example.com/": {
				Title: "Home",
				Links: []string{"https://example.com/a", "https://example.com/b"},
			},
			"https://example.com/a": {
				Title: "A",
				Links: []string{"https://example.com/", "https://example.com/c"},
				Media: []*mediascraper.MediaItem{{
					SourceURL: "https://example.com/img.jpg",
					Kind:      mediascraper.MediaImage,
					Ext:       ".jpg",
				}},
			},
			"https://example.com/b": {
				Title: "B",
				Links: []string{"https://example.com/c"},
			},
		}

		var rendered []string
		sink := &recordingSink{}
		engine := &crawl.Engine{
			Session:    renderedPages(&rendered),
			Extractors: registryFor(graphExtractor("https://example.com/", graph)),
			Downloads:  sink.sink(),
			MaxDepth:   2,
		}

		report, err := engine.Run(context.Background(), target, nil)
		require.NoError(t, err)

		assert.Equal(t, []string{
			"https://example.com/",
			"https://example.com/a",
			"https://example.com/b",
			"https://example.com/c",
		}, rendered)
		assert.Equal(t, 4, report.PagesVisited)
		assert.Equal(t, 0, report.PagesFailed)
		assert.Equal(t, 1, report.MediaDiscovered)
		assert.Equal(t, 1, report.MediaSaved)
		assert.Empty(t, report.Failures)
		assert.NotEmpty(t, report.RunID)
		assert.False(t, report.FinishedAt.Before(report.StartedAt))
	})

	t.Run("depth limit stops link expansion", func(t *testing.T) {
		t.Parallel()

		graph := map[string]*mediascraper.Extraction{
			"https://example.com/": {
				Links: []string{"https://example.com/a"},
			},
			"https://example.com/a": {
				Links: []string{"https://example.com/deep"},
			},
		}

		var rendered []string
		engine := &crawl.Engine{
			Session:    renderedPages(&rendered),
			Extractors: registryFor(graphExtractor("https://example.com/", graph)),
			MaxDepth:   1,
		}

		report, err := engine.Run(context.Background(), target, nil)
		require.NoError(t, err)

		assert.Equal(t, []string{"https://example.com/", "https://example.com/a"}, rendered)
		assert.Equal(t, 2, report.PagesVisited)
	})

	t.Run("fetch failures are recorded and the walk continues", func(t *testing.T) {
		t.Parallel()

		graph := map[string]*mediascraper.Extraction{
			"https://example.com/": {
				Links: []string{"https://example.com/bad", "https://example.com/good"},
			},
		}

		var rendered []string
		sess := &mock.BrowserSession{
			RenderFn: func(ctx context.Context, url string) (string, error) {
				rendered = append(rendered, url)
				if url == "https://example.com/bad" {
					return "", mediascraper.Errorf(mediascraper.EFETCH, "navigation timed out")
				}
				return "<html></html>", nil
			},
		}

		engine := &crawl.Engine{
			Session:    sess,
			Extractors: registryFor(graphExtractor("https://example.com/", graph)),
			MaxDepth:   2,
		}

		report, err := engine.Run(context.Background(), target, nil)
		require.NoError(t, err)

		assert.Contains(t, rendered, "https://example.com/good")
		assert.Equal(t, 3, report.PagesVisited)
		assert.Equal(t, 1, report.PagesFailed)
		require.Len(t, report.Failures, 1)
		assert.Equal(t, "https://example.com/bad", report.Failures[0].URL)
		assert.Equal(t, mediascraper.EFETCH, report.Failures[0].Code)
	})

	t.Run("extraction failures yield zero candidates but do not abort", func(t *testing.T) {
		t.Parallel()

		ext := &mock.Extractor{
			EntryPointsFn: func(target mediascraper.Target) ([]string, error) {
				return []string{"https://example.com/"}, nil
			},
			ExtractFn: func(ctx context.Context, dom string, page *mediascraper.PageNode, sess mediascraper.BrowserSession) (*mediascraper.Extraction, error) {
				return nil, mediascraper.Errorf(mediascraper.EEXTRACT, "selector engine crashed")
			},
		}

		var rendered []string
		engine := &crawl.Engine{
			Session:    renderedPages(&rendered),
			Extractors: registryFor(ext),
		}

		report, err := engine.Run(context.Background(), target, nil)
		require.NoError(t, err)

		assert.Equal(t, 1, report.PagesVisited)
		assert.Equal(t, 0, report.PagesFailed)
		require.Len(t, report.Failures, 1)
		assert.Equal(t, mediascraper.EEXTRACT, report.Failures[0].Code)
	})

	t.Run("same-domain mode skips external links", func(t *testing.T) {
		t.Parallel()

		graph := map[string]*mediascraper.Extraction{
			"https://example.com/": {
				Links: []string{"https://other.example.org/x", "https://example.com/a"},
			},
		}

		var rendered []string
		engine := &crawl.Engine{
			Session:        renderedPages(&rendered),
			Extractors:     registryFor(graphExtractor("https://example.com/", graph)),
			SameDomainOnly: true,
		}

		report, err := engine.Run(context.Background(), target, nil)
		require.NoError(t, err)

		assert.Equal(t, []string{"https://example.com/", "https://example.com/a"}, rendered)
		assert.Equal(t, 2, report.PagesVisited)
	})

	t.Run("platform targets group media under the username", func(t *testing.T) {
		t.Parallel()

		ext := &mock.Extractor{
			EntryPointsFn: func(target mediascraper.Target) ([]string, error) {
				return []string{"https://www.instagram.com/someone/"}, nil
			},
			ExtractFn: func(ctx context.Context, dom string, page *mediascraper.PageNode, sess mediascraper.BrowserSession) (*mediascraper.Extraction, error) {
				return &mediascraper.Extraction{
					Media: []*mediascraper.MediaItem{{
						SourceURL: "https://cdn.example.com/a.jpg",
						Kind:      mediascraper.MediaImage,
						Ext:       ".jpg",
					}},
				}, nil
			},
		}

		var rendered []string
		sink := &recordingSink{}
		engine := &crawl.Engine{
			Session:    renderedPages(&rendered),
			Extractors: registryFor(ext),
			Downloads:  sink.sink(),
		}

		igTarget := mediascraper.Target{Kind: mediascraper.TargetInstagram, Value: "someone"}
		_, err := engine.Run(context.Background(), igTarget, nil)
		require.NoError(t, err)

		require.Len(t, sink.folders, 1)
		assert.Equal(t, "someone", sink.folders[0])
	})

	t.Run("logs in before crawling when credentials are provided", func(t *testing.T) {
		t.Parallel()

		var loggedIn bool
		sess := &mock.BrowserSession{
			LoginFn: func(ctx context.Context, loginURL string, creds mediascraper.Credentials) error {
				loggedIn = true
				assert.Equal(t, "https://www.instagram.com/accounts/login/", loginURL)
				assert.Equal(t, "someone", creds.Username)
				return nil
			},
			RenderFn: func(ctx context.Context, url string) (string, error) {
				assert.True(t, loggedIn, "render before login")
				return "<html></html>", nil
			},
		}

		ext := &mock.Extractor{
			EntryPointsFn: func(target mediascraper.Target) ([]string, error) {
				return []string{"https://www.instagram.com/someone/"}, nil
			},
			ExtractFn: func(ctx context.Context, dom string, page *mediascraper.PageNode, sess mediascraper.BrowserSession) (*mediascraper.Extraction, error) {
				return &mediascraper.Extraction{}, nil
			},
			LoginURLFn: func() string { return "https://www.instagram.com/accounts/login/" },
		}

		engine := &crawl.Engine{
			Session:    sess,
			Extractors: registryFor(ext),
		}

		igTarget := mediascraper.Target{Kind: mediascraper.TargetInstagram, Value: "someone"}
		creds := &mediascraper.Credentials{Username: "someone", Password: "secret"}
		_, err := engine.Run(context.Background(), igTarget, creds)
		require.NoError(t, err)
		assert.True(t, loggedIn)
	})

	t.Run("cancelled context stops the walk and returns the partial report", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var rendered []string
		engine := &crawl.Engine{
			Session:    renderedPages(&rendered),
			Extractors: registryFor(graphExtractor("https://example.com/", nil)),
		}

		report, err := engine.Run(ctx, target, nil)
		require.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, report)
		assert.Empty(t, rendered)
		assert.Equal(t, 0, report.PagesVisited)
	})

	t.Run("missing extractor is a configuration error", func(t *testing.T) {
		t.Parallel()

		engine := &crawl.Engine{
			Session: &mock.BrowserSession{},
			Extractors: &mock.ExtractorRegistry{
				GetFn: func(kind mediascraper.TargetKind) mediascraper.Extractor { return nil },
			},
		}

		_, err := engine.Run(context.Background(), target, nil)
		require.Error(t, err)
		assert.Equal(t, mediascraper.ECONFIG, mediascraper.ErrorCode(err))
	})
}
