package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	mediascraper "github.com/mitchlinDEV/media-scraper"
)

// Writer saves media files under a root output directory. Writes are
// atomic with respect to crashes: data lands in a temp file first and is
// renamed into place only once fully written.
type Writer struct {
	// Root is the output directory. Folder paths are created beneath it
	// as needed.
	Root string
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{Root: dir}
}

// Save writes data to Root/folder/name and returns a record of the saved
// file. The folder and name are used as given; callers are expected to
// sanitize them first.
func (w *Writer) Save(folder, name string, data []byte) (*mediascraper.SavedFile, error) {
	dir := filepath.Join(w.Root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, mediascraper.Errorf(mediascraper.EDOWNLOAD, "create output directory %s: %v", dir, err)
	}

	dest := filepath.Join(dir, name)
	tmp := fmt.Sprintf("%s.%s.tmp", dest, uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return nil, mediascraper.Errorf(mediascraper.EDOWNLOAD, "write %s: %v", tmp, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return nil, mediascraper.Errorf(mediascraper.EDOWNLOAD, "rename %s: %v", dest, err)
	}

	return &mediascraper.SavedFile{
		Folder: folder,
		Name:   name,
		Size:   int64(len(data)),
	}, nil
}

// Exists reports whether Root/folder/name already exists on disk.
func (w *Writer) Exists(folder, name string) bool {
	_, err := os.Stat(filepath.Join(w.Root, folder, name))
	return err == nil
}
