package goquery

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	mediascraper "github.com/mitchlinDEV/media-scraper"
)

// resolveLink resolves a relative href against a base URL for outbound link
// discovery. Returns empty string if the href cannot be parsed or if the
// resolved URL is self-referential (same as base URL after stripping
// fragment). Fragments are stripped for deduplication purposes.
func resolveLink(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// resolveMedia resolves a media reference against a base URL without the
// self-referential filtering applied to outbound links.
func resolveMedia(base *url.URL, raw string) string {
	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// collectLinks returns every same-page hyperlink target, resolved to
// absolute, fragment-stripped, and deduplicated in document order.
func collectLinks(doc *goquery.Document, base *url.URL) []string {
	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" || isNonHTTPLink(href) {
			return
		}
		resolved := resolveLink(base, href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	return links
}

// scrollToBottom repeatedly scrolls the session's current page until the
// DOM snapshot stops changing or maxScrolls is reached, returning the final
// snapshot. Scroll errors fall back to the last good snapshot.
func scrollToBottom(ctx context.Context, sess mediascraper.BrowserSession, dom string, maxScrolls int) string {
	if sess == nil {
		return dom
	}
	for i := 0; i < maxScrolls; i++ {
		if ctx.Err() != nil {
			return dom
		}
		next, err := sess.ScrollAndWait(ctx)
		if err != nil {
			return dom
		}
		if next == dom {
			return next
		}
		dom = next
	}
	return dom
}
