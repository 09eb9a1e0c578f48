package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	mediascraper "github.com/mitchlinDEV/media-scraper"
	scraperhttp "github.com/mitchlinDEV/media-scraper/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns the response body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("image bytes"))
		}))
		defer srv.Close()

		c := scraperhttp.NewClient()
		data, err := c.Fetch(context.Background(), srv.URL+"/photo.jpg")
		require.NoError(t, err)
		assert.Equal(t, []byte("image bytes"), data)
	})

	t.Run("sends a browser user agent", func(t *testing.T) {
		t.Parallel()

		var gotUA string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
		}))
		defer srv.Close()

		c := scraperhttp.NewClient()
		_, err := c.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Contains(t, gotUA, "Mozilla/5.0")
	})

	t.Run("user agent can be overridden", func(t *testing.T) {
		t.Parallel()

		var gotUA string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
		}))
		defer srv.Close()

		c := scraperhttp.NewClient(scraperhttp.WithUserAgent("custom-agent/1.0"))
		_, err := c.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "custom-agent/1.0", gotUA)
	})

	t.Run("non-2xx status is a download error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		c := scraperhttp.NewClient()
		_, err := c.Fetch(context.Background(), srv.URL+"/missing.jpg")
		require.Error(t, err)
		assert.Equal(t, mediascraper.EDOWNLOAD, mediascraper.ErrorCode(err))
	})

	t.Run("cancelled context surfaces the context error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := scraperhttp.NewClient()
		_, err := c.Fetch(ctx, srv.URL)
		require.ErrorIs(t, err, context.Canceled)
	})
}
