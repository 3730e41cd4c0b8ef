package api

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librisapp/libris-server/internal/media/covers"
	"github.com/librisapp/libris-server/internal/media/images"
	"github.com/librisapp/libris-server/internal/ratelimit"
	"github.com/librisapp/libris-server/internal/service"
)

// coverJPEG encodes a small solid-colour JPEG for upstream stubbing.
func coverJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, color.RGBA{R: 120, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// withCovers attaches a cover service backed by a stub upstream.
func withCovers(t *testing.T, ts *testServer) {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(coverJPEG(t, 120, 180))
	}))
	t.Cleanup(upstream.Close)

	storage, err := images.NewStorage(t.TempDir())
	require.NoError(t, err)

	limiter := ratelimit.New(100, 100)
	t.Cleanup(limiter.Stop)

	resolver := covers.NewResolver(upstream.URL)
	fetcher := covers.NewFetcher(resolver, storage, limiter, ts.logger)
	ts.services.Covers = service.NewCoverService(fetcher, resolver, ts.catalog, ts.logger)
}

func TestGetCover(t *testing.T) {
	ts := setupTestServer(t)
	withCovers(t, ts)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/books/b1/cover", nil)
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("ETag"))
	assert.NotEmpty(t, rec.Body.Bytes())

	// A matching If-None-Match short-circuits to 304.
	etag := rec.Header().Get("ETag")
	req = httptest.NewRequest(http.MethodGet, "/api/v1/books/b1/cover", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestGetCoverNoISBN(t *testing.T) {
	ts := setupTestServer(t)
	withCovers(t, ts)

	// b2 has no publication info and therefore no ISBN.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/books/b2/cover", nil)
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCoverInvalidSize(t *testing.T) {
	ts := setupTestServer(t)
	withCovers(t, ts)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/books/b1/cover?size=XL", nil)
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCoverDisabled(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/books/b1/cover", nil)
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
