package covers

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/librisapp/libris-server/internal/domain"
	"github.com/librisapp/libris-server/internal/media/images"
	"github.com/librisapp/libris-server/internal/ratelimit"
)

const (
	// maxCoverSize caps downloaded cover payloads at 10MB.
	maxCoverSize = 10 * 1024 * 1024

	downloadTimeout = 30 * time.Second

	userAgent = "libris-server/1.0"
)

// FetchResult describes the outcome of a cover fetch.
type FetchResult struct {
	BookID   string
	URL      string
	Cached   bool // served from disk, no network request made
	Width    int
	Height   int
	Size     int64
	BlurHash string
}

// Fetcher downloads cover images from the Open Library covers API and
// caches them on disk. Requests are rate limited per remote host so a
// catalogue-wide warmup cannot hammer the upstream service.
type Fetcher struct {
	resolver *Resolver
	storage  *images.Storage
	limiter  *ratelimit.KeyedLimiter
	client   *http.Client
	logger   *slog.Logger
}

// NewFetcher creates a cover Fetcher. A nil logger discards output.
func NewFetcher(resolver *Resolver, storage *images.Storage, limiter *ratelimit.KeyedLimiter, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Fetcher{
		resolver: resolver,
		storage:  storage,
		limiter:  limiter,
		client: &http.Client{
			Timeout: downloadTimeout,
		},
		logger: logger,
	}
}

// Fetch returns the cover for a book, downloading and caching it on
// first access. Books without an ISBN return a validation error
// before any network activity.
func (f *Fetcher) Fetch(ctx context.Context, book domain.Book, size Size) (*FetchResult, error) {
	coverURL := f.resolver.URLForBook(book, size)
	if coverURL == "" {
		return nil, fmt.Errorf("book %s has no ISBN", book.ID)
	}

	cacheID := cacheKey(book.ID, size)
	if f.storage.Exists(cacheID) {
		return &FetchResult{
			BookID: book.ID,
			URL:    coverURL,
			Cached: true,
		}, nil
	}

	data, err := f.download(ctx, coverURL)
	if err != nil {
		return nil, err
	}

	width, height, err := parseImageDimensions(data)
	if err != nil {
		// Open Library returns a 1x1 GIF for unknown ISBNs instead of
		// a 404. Treat anything we cannot parse as a miss.
		return nil, fmt.Errorf("cover for %s is not a usable image: %w", book.ID, err)
	}
	if width <= 1 || height <= 1 {
		return nil, fmt.Errorf("cover for %s is a placeholder pixel", book.ID)
	}

	if err := f.storage.Save(cacheID, data); err != nil {
		return nil, fmt.Errorf("failed to cache cover: %w", err)
	}

	hash, err := images.ComputeBlurHashBytes(data)
	if err != nil {
		f.logger.Warn("failed to compute cover blurhash",
			slog.String("book_id", book.ID),
			slog.String("error", err.Error()))
		hash = ""
	}

	f.logger.Debug("cover downloaded",
		slog.String("book_id", book.ID),
		slog.String("size", string(size)),
		slog.Int("width", width),
		slog.Int("height", height),
		slog.Int("bytes", len(data)))

	return &FetchResult{
		BookID:   book.ID,
		URL:      coverURL,
		Width:    width,
		Height:   height,
		Size:     int64(len(data)),
		BlurHash: hash,
	}, nil
}

// Cached returns the raw cached cover bytes for a book, or an error
// when nothing has been fetched yet.
func (f *Fetcher) Cached(bookID string, size Size) ([]byte, error) {
	return f.storage.Get(cacheKey(bookID, size))
}

// CachedHash returns the SHA256 of the cached cover for ETag use.
func (f *Fetcher) CachedHash(bookID string, size Size) (string, error) {
	return f.storage.Hash(cacheKey(bookID, size))
}

// HasCached reports whether a cover is already on disk.
func (f *Fetcher) HasCached(bookID string, size Size) bool {
	return f.storage.Exists(cacheKey(bookID, size))
}

// Evict removes a cached cover in every size variant.
func (f *Fetcher) Evict(bookID string) error {
	for _, size := range []Size{SizeSmall, SizeMedium, SizeLarge} {
		if err := f.storage.Delete(cacheKey(bookID, size)); err != nil {
			return err
		}
	}
	return nil
}

func (f *Fetcher) download(ctx context.Context, coverURL string) ([]byte, error) {
	parsed, err := url.Parse(coverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid cover URL: %w", err)
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, parsed.Host); err != nil {
			return nil, fmt.Errorf("rate limit wait aborted: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, coverURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cover request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cover request returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("unexpected content type %q", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read cover body: %w", err)
	}
	if len(data) > maxCoverSize {
		return nil, fmt.Errorf("cover exceeds %d byte limit", maxCoverSize)
	}

	return data, nil
}

func cacheKey(bookID string, size Size) string {
	return fmt.Sprintf("%s-%s", bookID, size)
}

// parseImageDimensions reads width and height from JPEG, PNG or GIF
// headers without decoding the full image.
func parseImageDimensions(data []byte) (width, height int, err error) {
	if len(data) < 12 {
		return 0, 0, fmt.Errorf("data too short to be an image")
	}

	switch {
	case data[0] == 0xFF && data[1] == 0xD8:
		return parseJPEGDimensions(data)
	case data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G':
		return parsePNGDimensions(data)
	case data[0] == 'G' && data[1] == 'I' && data[2] == 'F':
		return parseGIFDimensions(data)
	}

	return 0, 0, fmt.Errorf("unrecognized image format")
}

func parseJPEGDimensions(data []byte) (int, int, error) {
	// Walk the segment chain looking for a start-of-frame marker.
	i := 2
	for i+9 < len(data) {
		if data[i] != 0xFF {
			i++
			continue
		}
		marker := data[i+1]
		// SOF0-SOF15 excluding DHT(C4), JPG(C8), DAC(CC).
		if marker >= 0xC0 && marker <= 0xCF && marker != 0xC4 && marker != 0xC8 && marker != 0xCC {
			height := int(binary.BigEndian.Uint16(data[i+5 : i+7]))
			width := int(binary.BigEndian.Uint16(data[i+7 : i+9]))
			return width, height, nil
		}
		segLen := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		if segLen < 2 {
			break
		}
		i += 2 + segLen
	}
	return 0, 0, fmt.Errorf("no JPEG frame header found")
}

func parsePNGDimensions(data []byte) (int, int, error) {
	// IHDR is always the first chunk: width and height at offsets 16, 20.
	if len(data) < 24 {
		return 0, 0, fmt.Errorf("PNG header truncated")
	}
	width := int(binary.BigEndian.Uint32(data[16:20]))
	height := int(binary.BigEndian.Uint32(data[20:24]))
	return width, height, nil
}

func parseGIFDimensions(data []byte) (int, int, error) {
	// Logical screen descriptor follows the 6-byte signature.
	if len(data) < 10 {
		return 0, 0, fmt.Errorf("GIF header truncated")
	}
	width := int(binary.LittleEndian.Uint16(data[6:8]))
	height := int(binary.LittleEndian.Uint16(data[8:10]))
	return width, height, nil
}
