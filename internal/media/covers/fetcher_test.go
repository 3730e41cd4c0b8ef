package covers

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librisapp/libris-server/internal/domain"
	"github.com/librisapp/libris-server/internal/media/images"
	"github.com/librisapp/libris-server/internal/ratelimit"
)

func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func setupFetcher(t *testing.T, handler http.Handler) (*Fetcher, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	storage, err := images.NewStorage(t.TempDir())
	require.NoError(t, err)

	limiter := ratelimit.New(100, 100)
	t.Cleanup(limiter.Stop)

	return NewFetcher(NewResolver(srv.URL), storage, limiter, nil), srv
}

func TestFetcher_Fetch(t *testing.T) {
	cover := testJPEG(t, 180, 270)
	var requests int
	f, _ := setupFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/isbn/9780618002221-M.jpg", r.URL.Path)
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(cover)
	}))

	book := domain.Book{ID: "b1", ISBN: "978-0-618-00222-1"}

	result, err := f.Fetch(context.Background(), book, SizeMedium)
	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Equal(t, 180, result.Width)
	assert.Equal(t, 270, result.Height)
	assert.Equal(t, int64(len(cover)), result.Size)
	assert.NotEmpty(t, result.BlurHash)

	// Second fetch serves from disk.
	result, err = f.Fetch(context.Background(), book, SizeMedium)
	require.NoError(t, err)
	assert.True(t, result.Cached)
	assert.Equal(t, 1, requests)
}

func TestFetcher_Fetch_NoISBN(t *testing.T) {
	f, _ := setupFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for a book without an ISBN")
	}))

	_, err := f.Fetch(context.Background(), domain.Book{ID: "b1"}, SizeMedium)
	assert.Error(t, err)
}

func TestFetcher_Fetch_PlaceholderPixelRejected(t *testing.T) {
	// Open Library answers unknown ISBNs with a 1x1 image.
	pixel := testJPEG(t, 1, 1)
	f, _ := setupFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(pixel)
	}))

	book := domain.Book{ID: "b1", ISBN: "0000000000"}
	_, err := f.Fetch(context.Background(), book, SizeSmall)
	assert.Error(t, err)
	assert.False(t, f.HasCached("b1", SizeSmall))
}

func TestFetcher_Fetch_UpstreamError(t *testing.T) {
	f, _ := setupFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))

	_, err := f.Fetch(context.Background(), domain.Book{ID: "b1", ISBN: "9780618002221"}, SizeLarge)
	assert.ErrorContains(t, err, "status 500")
}

func TestFetcher_Fetch_NonImageContentType(t *testing.T) {
	f, _ := setupFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>not a cover</html>"))
	}))

	_, err := f.Fetch(context.Background(), domain.Book{ID: "b1", ISBN: "9780618002221"}, SizeMedium)
	assert.ErrorContains(t, err, "content type")
}

func TestFetcher_CachedAndEvict(t *testing.T) {
	cover := testJPEG(t, 120, 180)
	f, _ := setupFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(cover)
	}))

	book := domain.Book{ID: "b1", ISBN: "9780618002221"}
	_, err := f.Fetch(context.Background(), book, SizeMedium)
	require.NoError(t, err)

	data, err := f.Cached("b1", SizeMedium)
	require.NoError(t, err)
	assert.Equal(t, cover, data)

	hash, err := f.CachedHash("b1", SizeMedium)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	require.NoError(t, f.Evict("b1"))
	assert.False(t, f.HasCached("b1", SizeMedium))

	// Evicting an uncached book is a no-op.
	require.NoError(t, f.Evict("b1"))
}

func TestFetcher_Fetch_ContextCancelled(t *testing.T) {
	f, _ := setupFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, domain.Book{ID: "b1", ISBN: "9780618002221"}, SizeMedium)
	assert.Error(t, err)
}

func TestParseImageDimensions(t *testing.T) {
	jpegData := testJPEG(t, 300, 450)
	w, h, err := parseImageDimensions(jpegData)
	require.NoError(t, err)
	assert.Equal(t, 300, w)
	assert.Equal(t, 450, h)

	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, image.NewRGBA(image.Rect(0, 0, 64, 96))))
	w, h, err = parseImageDimensions(pngBuf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 64, w)
	assert.Equal(t, 96, h)

	_, _, err = parseImageDimensions([]byte("definitely not an image"))
	assert.Error(t, err)

	_, _, err = parseImageDimensions([]byte{0xFF})
	assert.Error(t, err)
}
