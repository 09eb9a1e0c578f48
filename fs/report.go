package fs

import (
	"encoding/json"
	"os"
	"path/filepath"

	mediascraper "github.com/mitchlinDEV/media-scraper"
)

// WriteReport persists a run report as indented JSON under the output
// root, named after the run ID.
func WriteReport(root string, report *mediascraper.Report) (string, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", mediascraper.Errorf(mediascraper.ECONFIG, "create output directory %s: %v", root, err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", mediascraper.Errorf(mediascraper.EINTERNAL, "encode report: %v", err)
	}

	path := filepath.Join(root, "report-"+report.RunID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", mediascraper.Errorf(mediascraper.EINTERNAL, "write report %s: %v", path, err)
	}
	return path, nil
}
