package mediascraper

// MediaKind classifies a media item.
type MediaKind string

// Supported media kinds.
const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaItem is a discovered media reference. Items are created by an
// Extractor and consumed by the download manager; their terminal state is
// Saved or Failed, reported as a DownloadResult.
type MediaItem struct {
	// SourceURL is the absolute URL the media bytes are fetched from.
	SourceURL string

	// Kind is image or video.
	Kind MediaKind

	// OriginURL is the page the item was discovered on. Diagnostics only.
	OriginURL string

	// Ext is the inferred file extension including the leading dot
	// (".jpg"). May be empty when the URL carries no recognizable
	// extension.
	Ext string

	// ContentHash is computed lazily after download and used for
	// content-level deduplication. Empty until the item is fetched.
	ContentHash string
}

// SavedFile is the persisted artifact for a downloaded media item. Within
// one run no two SavedFiles share an identical (Folder, Name) pair.
type SavedFile struct {
	// Folder is the sanitized directory name, relative to the output root.
	Folder string

	// Name is the sanitized, collision-resolved filename.
	Name string

	// Size is the persisted byte size.
	Size int64
}
