package goquery

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	mediascraper "github.com/mitchlinDEV/media-scraper"
)

const (
	instagramBaseURL  = "https://www.instagram.com"
	instagramLoginURL = "https://www.instagram.com/accounts/login/"
)

// Post permalinks look like /p/<shortcode>/. Shortcodes are not a fixed
// length (private accounts use longer ones).
var instagramPostRegexp = regexp.MustCompile(`^/p/[^/]+/?$`)

// Ensure InstagramExtractor implements mediascraper.Extractor at compile time.
var _ mediascraper.Extractor = (*InstagramExtractor)(nil)

// InstagramExtractor paginates a profile's post grid via repeated scrolls
// until no new post URLs appear across two consecutive scrolls, then visits
// each post to extract its image or video URL.
type InstagramExtractor struct {
	// MaxScrolls bounds grid pagination. Defaults to DefaultMaxScrolls.
	MaxScrolls int
}

// NewInstagramExtractor creates an InstagramExtractor with defaults.
func NewInstagramExtractor() *InstagramExtractor {
	return &InstagramExtractor{MaxScrolls: DefaultMaxScrolls}
}

// Name returns the extractor's identifier.
func (e *InstagramExtractor) Name() string { return "instagram" }

// LoginURL returns the Instagram login page.
func (e *InstagramExtractor) LoginURL() string { return instagramLoginURL }

// EntryPoints returns the profile page for the target username.
func (e *InstagramExtractor) EntryPoints(target mediascraper.Target) ([]string, error) {
	if target.Kind != mediascraper.TargetInstagram {
		return nil, mediascraper.Errorf(mediascraper.ECONFIG, "instagram extractor cannot handle %q targets", target.Kind)
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	return []string{instagramBaseURL + "/" + target.Value + "/"}, nil
}

// Extract paginates the post grid and renders each discovered post for its
// media URL. Posts that fail to render are skipped; the profile extraction
// itself never fails on malformed markup.
func (e *InstagramExtractor) Extract(ctx context.Context, dom string, page *mediascraper.PageNode, sess mediascraper.BrowserSession) (*mediascraper.Extraction, error) {
	if sess == nil {
		return &mediascraper.Extraction{}, nil
	}

	maxScrolls := e.MaxScrolls
	if maxScrolls <= 0 {
		maxScrolls = DefaultMaxScrolls
	}

	seen := make(map[string]bool)
	var posts []string
	collect := func(snapshot string) int {
		added := 0
		for _, postURL := range postLinks(snapshot) {
			if !seen[postURL] {
				seen[postURL] = true
				posts = append(posts, postURL)
				added++
			}
		}
		return added
	}
	collect(dom)

	// Terminate when two consecutive scrolls surface nothing new.
	stable := 0
	for i := 0; i < maxScrolls && stable < 2; i++ {
		if ctx.Err() != nil {
			break
		}
		next, err := sess.ScrollAndWait(ctx)
		if err != nil {
			break
		}
		if collect(next) == 0 {
			stable++
		} else {
			stable = 0
		}
	}

	var media []*mediascraper.MediaItem
	for _, postURL := range posts {
		if ctx.Err() != nil {
			break
		}
		postDOM, err := sess.Render(ctx, postURL)
		if err != nil {
			continue
		}
		if item := parseInstagramPost(postDOM, postURL); item != nil {
			media = append(media, item)
		}
	}

	return &mediascraper.Extraction{Media: media}, nil
}

// postLinks returns the absolute post permalinks present in a profile grid
// snapshot, in document order.
func postLinks(dom string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(dom))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists {
			return
		}
		u, err := url.Parse(href)
		if err != nil || !instagramPostRegexp.MatchString(u.Path) {
			return
		}
		abs := instagramBaseURL + strings.TrimSuffix(u.Path, "/") + "/"
		if !seen[abs] {
			seen[abs] = true
			links = append(links, abs)
		}
	})
	return links
}

// parseInstagramPost extracts the media URL from a rendered post page.
// Video posts expose og:video, image posts og:image.
func parseInstagramPost(dom, postURL string) *mediascraper.MediaItem {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(dom))
	if err != nil {
		return nil
	}

	if src, ok := metaContent(doc, "og:video", "og:video:secure_url"); ok {
		_, ext, known := ClassifyMediaURL(src)
		if !known {
			ext = ".mp4"
		}
		return &mediascraper.MediaItem{
			SourceURL: src,
			Kind:      mediascraper.MediaVideo,
			OriginURL: postURL,
			Ext:       ext,
		}
	}
	if src, ok := metaContent(doc, "og:image"); ok {
		_, ext, known := ClassifyMediaURL(src)
		if !known {
			ext = ".jpg"
		}
		return &mediascraper.MediaItem{
			SourceURL: src,
			Kind:      mediascraper.MediaImage,
			OriginURL: postURL,
			Ext:       ext,
		}
	}
	return nil
}

// metaContent returns the first non-empty content attribute among the given
// meta property names.
func metaContent(doc *goquery.Document, properties ...string) (string, bool) {
	for _, prop := range properties {
		sel := doc.Find("meta[property='" + prop + "']").First()
		if content, exists := sel.Attr("content"); exists && content != "" {
			return content, true
		}
	}
	return "", false
}
