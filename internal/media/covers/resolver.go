// Package covers resolves and fetches book cover images from the
// Open Library covers API.
package covers

import (
	"fmt"
	"strings"

	"github.com/librisapp/libris-server/internal/domain"
)

// Size selects an Open Library cover variant.
type Size string

const (
	SizeSmall  Size = "S"
	SizeMedium Size = "M"
	SizeLarge  Size = "L"
)

// DefaultBaseURL is the public Open Library covers endpoint.
const DefaultBaseURL = "https://covers.openlibrary.org/b"

// ValidSize reports whether s is a recognized cover size.
func ValidSize(s Size) bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// Resolver builds cover image URLs for books. URL construction is
// deterministic and requires no network access.
type Resolver struct {
	baseURL string
}

// NewResolver creates a Resolver. An empty baseURL falls back to
// DefaultBaseURL.
func NewResolver(baseURL string) *Resolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Resolver{baseURL: strings.TrimRight(baseURL, "/")}
}

// URL returns the cover URL for an ISBN at the given size, or an
// empty string when the ISBN is empty after normalization. Hyphens
// and spaces in the ISBN are stripped before building the path.
func (r *Resolver) URL(isbn string, size Size) string {
	normalized := domain.NormalizeISBN(isbn)
	if normalized == "" {
		return ""
	}
	if !ValidSize(size) {
		size = SizeMedium
	}
	return fmt.Sprintf("%s/isbn/%s-%s.jpg", r.baseURL, normalized, size)
}

// URLForBook returns the cover URL for a book, or an empty string
// when the book carries no ISBN.
func (r *Resolver) URLForBook(book domain.Book, size Size) string {
	return r.URL(book.ISBN, size)
}
