package goquery

import (
	"net/url"
	"path"
	"strings"

	mediascraper "github.com/mitchlinDEV/media-scraper"
)

// Recognized media file extensions, lowercased, including the leading dot.
var (
	imageExts = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".bmp":  true,
		".webp": true,
	}
	videoExts = map[string]bool{
		".mp4":  true,
		".webm": true,
		".mov":  true,
		".avi":  true,
		".mkv":  true,
		".m4v":  true,
	}
)

// ClassifyMediaURL reports the media kind and extension for a URL whose path
// ends in a recognized media extension. Query strings and Twitter's ":large"
// size suffix are ignored when inferring the extension.
func ClassifyMediaURL(rawURL string) (mediascraper.MediaKind, string, bool) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(rawURL), ":large")

	p := trimmed
	if u, err := url.Parse(trimmed); err == nil && u.Path != "" {
		p = u.Path
	}

	ext := strings.ToLower(path.Ext(p))
	switch {
	case imageExts[ext]:
		return mediascraper.MediaImage, ext, true
	case videoExts[ext]:
		return mediascraper.MediaVideo, ext, true
	}
	return "", "", false
}

// isManifestURL reports whether the URL references an m3u8-style playlist.
func isManifestURL(rawURL string) bool {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	return strings.EqualFold(path.Ext(p), ".m3u8")
}
