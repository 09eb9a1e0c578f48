package http

import (
	"bufio"
	"context"
	"net/url"
	"strconv"
	"strings"

	mediascraper "github.com/mitchlinDEV/media-scraper"
)

var _ mediascraper.ManifestResolver = (*Resolver)(nil)

// maxManifestDepth bounds nested playlist indirection so a manifest
// referencing itself cannot loop the resolver.
const maxManifestDepth = 3

// Resolver resolves an HLS playlist to a direct media file URL.
// Twitter serves video as .m3u8 master playlists listing variant
// playlists by bandwidth; the highest-bandwidth variant is followed to
// its media playlist, whose segments address the actual file.
type Resolver struct {
	fetcher mediascraper.MediaFetcher
}

// NewResolver creates a Resolver that fetches manifests with f.
func NewResolver(f mediascraper.MediaFetcher) *Resolver {
	return &Resolver{fetcher: f}
}

// Resolve fetches the playlist at manifestURL and returns a direct
// media URL. Master playlists are resolved through their
// highest-bandwidth variant; media playlists resolve to the single file
// their segments address. Manifests with no variants or segments, and
// streams chunked across distinct segment files, are unsupported media.
func (r *Resolver) Resolve(ctx context.Context, manifestURL string) (string, error) {
	return r.resolve(ctx, manifestURL, maxManifestDepth)
}

func (r *Resolver) resolve(ctx context.Context, manifestURL string, depth int) (string, error) {
	if depth == 0 {
		return "", mediascraper.Errorf(mediascraper.EUNSUPPORTED, "manifest %s nests too deeply", manifestURL)
	}

	data, err := r.fetcher.Fetch(ctx, manifestURL)
	if err != nil {
		return "", err
	}

	base, err := url.Parse(manifestURL)
	if err != nil {
		return "", mediascraper.Errorf(mediascraper.EEXTRACT, "parse manifest URL %s: %v", manifestURL, err)
	}

	pl := parsePlaylist(base, string(data))

	if pl.bestVariant != "" {
		if !isPlaylistURL(pl.bestVariant) {
			return pl.bestVariant, nil
		}
		return r.resolve(ctx, pl.bestVariant, depth-1)
	}

	// Media playlist. Twitter addresses the whole video as one MP4 via
	// byte-range segments, so every segment names the same URL; streams
	// split across distinct chunk files have no single downloadable URL.
	if len(pl.segments) == 0 {
		return "", mediascraper.Errorf(mediascraper.EUNSUPPORTED, "manifest %s lists no variant streams or segments", manifestURL)
	}
	for _, seg := range pl.segments[1:] {
		if seg != pl.segments[0] {
			return "", mediascraper.Errorf(mediascraper.EUNSUPPORTED, "manifest %s splits media across %d segment files", manifestURL, len(pl.segments))
		}
	}
	if isPlaylistURL(pl.segments[0]) {
		return "", mediascraper.Errorf(mediascraper.EUNSUPPORTED, "manifest %s segments reference another playlist", manifestURL)
	}
	return pl.segments[0], nil
}

type playlist struct {
	bestVariant string
	segments    []string
}

// parsePlaylist scans an HLS playlist body, keeping the
// highest-bandwidth variant URI and all media segment URIs, resolved
// against base.
func parsePlaylist(base *url.URL, body string) playlist {
	var (
		pl            playlist
		bestBandwidth = -1
		variantNext   = -1
		segmentNext   bool
	)

	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "#EXT-X-STREAM-INF:"):
			variantNext = parseBandwidth(line)
			segmentNext = false
		case strings.HasPrefix(line, "#EXTINF:"):
			segmentNext = true
			variantNext = -1
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		default:
			u := resolveRef(base, line)
			switch {
			case variantNext >= 0:
				if u != "" && variantNext > bestBandwidth {
					bestBandwidth = variantNext
					pl.bestVariant = u
				}
				variantNext = -1
			case segmentNext:
				if u != "" {
					pl.segments = append(pl.segments, u)
				}
				segmentNext = false
			}
		}
	}
	return pl
}

// parseBandwidth extracts the BANDWIDTH attribute from a stream-info
// tag. Variants without a bandwidth are treated as lowest priority.
func parseBandwidth(line string) int {
	attrs := strings.TrimPrefix(line, "#EXT-X-STREAM-INF:")
	for _, attr := range strings.Split(attrs, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(attr), "=")
		if !ok || !strings.EqualFold(k, "BANDWIDTH") {
			continue
		}
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

func resolveRef(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

func isPlaylistURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".m3u8")
}
