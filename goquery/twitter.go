package goquery

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	mediascraper "github.com/mitchlinDEV/media-scraper"
)

const (
	twitterBaseURL  = "https://twitter.com"
	twitterLoginURL = "https://twitter.com/login"
)

// Ensure TwitterExtractor implements mediascraper.Extractor at compile time.
var _ mediascraper.Extractor = (*TwitterExtractor)(nil)

// TwitterExtractor paginates a user's media timeline, extracts photo URLs
// at :large size, and extracts video URLs. Manifest-style (m3u8) playlists
// are resolved through the Resolver to the direct media file of the
// highest-bitrate variant;
// blob: stream URLs cannot be resolved and are passed through so the
// download manager records them as unsupported failures.
type TwitterExtractor struct {
	// Resolver resolves m3u8 playlists. When nil, manifest URLs are
	// passed through unresolved.
	Resolver mediascraper.ManifestResolver

	// MaxScrolls bounds timeline pagination. Defaults to DefaultMaxScrolls.
	MaxScrolls int
}

// NewTwitterExtractor creates a TwitterExtractor using the given manifest
// resolver.
func NewTwitterExtractor(resolver mediascraper.ManifestResolver) *TwitterExtractor {
	return &TwitterExtractor{
		Resolver:   resolver,
		MaxScrolls: DefaultMaxScrolls,
	}
}

// Name returns the extractor's identifier.
func (e *TwitterExtractor) Name() string { return "twitter" }

// LoginURL returns the Twitter login page.
func (e *TwitterExtractor) LoginURL() string { return twitterLoginURL }

// EntryPoints returns the media timeline for the target username.
func (e *TwitterExtractor) EntryPoints(target mediascraper.Target) ([]string, error) {
	if target.Kind != mediascraper.TargetTwitter {
		return nil, mediascraper.Errorf(mediascraper.ECONFIG, "twitter extractor cannot handle %q targets", target.Kind)
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	return []string{twitterBaseURL + "/" + target.Value + "/media"}, nil
}

// Extract scrolls the timeline to the bottom, then collects photo and video
// references from tweets containing media. Malformed markup yields empty
// candidate sets.
func (e *TwitterExtractor) Extract(ctx context.Context, dom string, page *mediascraper.PageNode, sess mediascraper.BrowserSession) (*mediascraper.Extraction, error) {
	maxScrolls := e.MaxScrolls
	if maxScrolls <= 0 {
		maxScrolls = DefaultMaxScrolls
	}
	dom = scrollToBottom(ctx, sess, dom, maxScrolls)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(dom))
	if err != nil {
		return &mediascraper.Extraction{}, nil
	}
	base, err := url.Parse(page.URL)
	if err != nil {
		return &mediascraper.Extraction{}, nil
	}

	seen := make(map[string]bool)
	var media []*mediascraper.MediaItem
	add := func(item *mediascraper.MediaItem) {
		if item.SourceURL == "" || seen[item.SourceURL] {
			return
		}
		seen[item.SourceURL] = true
		media = append(media, item)
	}

	// Photos: the timeline marks them with data-image-url containers.
	doc.Find("div.AdaptiveMedia-photoContainer[data-image-url]").Each(func(_ int, sel *goquery.Selection) {
		imageURL, exists := sel.Attr("data-image-url")
		if !exists || imageURL == "" {
			return
		}
		_, ext, known := ClassifyMediaURL(imageURL)
		if !known {
			ext = ".jpg"
		}
		add(&mediascraper.MediaItem{
			SourceURL: imageURL + ":large",
			Kind:      mediascraper.MediaImage,
			OriginURL: page.URL,
			Ext:       ext,
		})
	})

	// Videos: direct sources, manifests, and unresolvable blob streams.
	doc.Find("video[src]").Each(func(_ int, sel *goquery.Selection) {
		src, exists := sel.Attr("src")
		if !exists || src == "" {
			return
		}
		add(e.videoItem(ctx, base, src, page.URL))
	})

	return &mediascraper.Extraction{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Media: media,
	}, nil
}

// videoItem builds the media item for a video source, resolving manifest
// playlists when possible. Blob streams and unresolvable manifests are
// passed through unchanged; the download manager records them as
// unsupported.
func (e *TwitterExtractor) videoItem(ctx context.Context, base *url.URL, src, originURL string) *mediascraper.MediaItem {
	item := &mediascraper.MediaItem{
		SourceURL: src,
		Kind:      mediascraper.MediaVideo,
		OriginURL: originURL,
	}

	if strings.HasPrefix(src, "blob:") {
		return item
	}

	item.SourceURL = resolveMedia(base, src)
	if item.SourceURL == "" {
		item.SourceURL = src
	}

	if isManifestURL(item.SourceURL) && e.Resolver != nil {
		if resolved, err := e.Resolver.Resolve(ctx, item.SourceURL); err == nil {
			item.SourceURL = resolved
		}
	}

	_, ext, known := ClassifyMediaURL(item.SourceURL)
	if !known {
		ext = ".mp4"
	}
	item.Ext = ext
	return item
}
