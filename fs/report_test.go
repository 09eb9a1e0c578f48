package fs_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	mediascraper "github.com/mitchlinDEV/media-scraper"
	"github.com/mitchlinDEV/media-scraper/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReport(t *testing.T) {
	t.Parallel()

	t.Run("writes an indented report named after the run ID", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		report := &mediascraper.Report{
			RunID:        "run-1234",
			Target:       mediascraper.Target{Kind: mediascraper.TargetGeneral, Value: "https://example.com"},
			StartedAt:    time.Now().Add(-time.Minute),
			FinishedAt:   time.Now(),
			PagesVisited: 3,
			MediaSaved:   2,
			Failures: []mediascraper.Failure{
				{URL: "https://example.com/x.jpg", Code: mediascraper.EDOWNLOAD, Message: "status 404"},
			},
		}

		path, err := fs.WriteReport(root, report)
		require.NoError(t, err)
		assert.Contains(t, path, "report-run-1234.json")

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var got mediascraper.Report
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, report.RunID, got.RunID)
		assert.Equal(t, report.PagesVisited, got.PagesVisited)
		require.Len(t, got.Failures, 1)
		assert.Equal(t, mediascraper.EDOWNLOAD, got.Failures[0].Code)
	})

	t.Run("unreachable output root is a configuration error", func(t *testing.T) {
		t.Parallel()

		// A file standing where the output directory should go.
		blocker := filepath.Join(t.TempDir(), "out")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

		_, err := fs.WriteReport(blocker, &mediascraper.Report{RunID: "run-1"})
		require.Error(t, err)
		assert.Equal(t, mediascraper.ECONFIG, mediascraper.ErrorCode(err))
	})
}
