// Package goquery provides DOM-based media extractors. The general variant
// scans any rendered page for media references; the Instagram and Twitter
// variants know the platforms' profile structure and drive the browser
// session to paginate it.
package goquery

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	mediascraper "github.com/mitchlinDEV/media-scraper"
)

// DefaultMaxScrolls bounds scroll-driven pagination so an infinitely
// growing page cannot stall a run.
const DefaultMaxScrolls = 20

// Ensure GeneralExtractor implements mediascraper.Extractor at compile time.
var _ mediascraper.Extractor = (*GeneralExtractor)(nil)

// GeneralExtractor scans a rendered page for media referenced by hyperlink
// targets, embedded image sources, and embedded video sources. Outbound
// links are every same-page hyperlink target, deduplicated and canonicalized.
type GeneralExtractor struct {
	// MaxScrolls bounds the scroll-to-bottom loop used to surface
	// lazily loaded content. Defaults to DefaultMaxScrolls.
	MaxScrolls int
}

// NewGeneralExtractor creates a GeneralExtractor with defaults.
func NewGeneralExtractor() *GeneralExtractor {
	return &GeneralExtractor{MaxScrolls: DefaultMaxScrolls}
}

// Name returns the extractor's identifier.
func (e *GeneralExtractor) Name() string { return "general" }

// LoginURL returns "" since general targets need no authentication.
func (e *GeneralExtractor) LoginURL() string { return "" }

// EntryPoints returns the target URL itself as the single depth-0 seed.
func (e *GeneralExtractor) EntryPoints(target mediascraper.Target) ([]string, error) {
	if target.Kind != mediascraper.TargetGeneral {
		return nil, mediascraper.Errorf(mediascraper.ECONFIG, "general extractor cannot handle %q targets", target.Kind)
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	return []string{target.Value}, nil
}

// Extract scrolls the page to the bottom to surface lazily loaded content,
// then parses the final snapshot. A malformed or empty DOM yields empty
// candidate sets.
func (e *GeneralExtractor) Extract(ctx context.Context, dom string, page *mediascraper.PageNode, sess mediascraper.BrowserSession) (*mediascraper.Extraction, error) {
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

	add := func(raw string) {
		kind, ext, ok := ClassifyMediaURL(raw)
		if !ok {
			return
		}
		abs := resolveMedia(base, raw)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true
		media = append(media, &mediascraper.MediaItem{
			SourceURL: abs,
			Kind:      kind,
			OriginURL: page.URL,
			Ext:       ext,
		})
	}

	// Hyperlinks carry media both in the href and, on index-style pages,
	// as the link text itself.
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, exists := sel.Attr("href"); exists {
			add(href)
		}
		if txt := strings.TrimSpace(sel.Text()); txt != "" {
			add(txt)
		}
	})
	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		if src, exists := sel.Attr("src"); exists {
			add(src)
		}
	})
	doc.Find("video[src]").Each(func(_ int, sel *goquery.Selection) {
		if src, exists := sel.Attr("src"); exists {
			add(src)
		}
	})

	return &mediascraper.Extraction{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Media: media,
		Links: collectLinks(doc, base),
	}, nil
}
