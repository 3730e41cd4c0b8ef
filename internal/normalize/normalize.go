// Package normalize provides text normalization used for display
// sorting, cache file names, and diacritic-insensitive comparison.
package normalize

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/librisapp/libris-server/internal/domain"
)

// foldTransformer decomposes to NFD, strips combining marks, and
// recomposes. "Müller" becomes "Muller".
//
//nolint:gochecknoglobals // static transformer chain, safe for reuse
var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Fold lowercases s and strips diacritics. Catalogue rows exported from
// library systems mix composed and decomposed accents; folding makes
// comparisons stable across both.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(folded)
}

// Slug converts s to a filesystem- and URL-safe identifier: folded,
// with runs of non-alphanumerics collapsed to single hyphens.
func Slug(s string) string {
	folded := Fold(s)

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true // suppress leading hyphen
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// SortBooks orders books for display by the given preference using
// locale-aware collation. Unknown preferences sort by title. Sorting is
// a presentation concern only and runs on a copy of the caller's slice
// header order, never on the filter engine's output semantics.
func SortBooks(books []domain.Book, by string) {
	c := collate.New(language.English, collate.IgnoreCase)

	switch by {
	case domain.SortAuthor:
		sort.SliceStable(books, func(i, j int) bool {
			if cmp := c.CompareString(books[i].Author, books[j].Author); cmp != 0 {
				return cmp < 0
			}
			return c.CompareString(books[i].Title, books[j].Title) < 0
		})
	case domain.SortYear:
		// Books without a year sort last.
		sort.SliceStable(books, func(i, j int) bool {
			yi, yj := books[i].Year, books[j].Year
			if (yi == 0) != (yj == 0) {
				return yj == 0
			}
			if yi != yj {
				return yi < yj
			}
			return c.CompareString(books[i].Title, books[j].Title) < 0
		})
	default:
		sort.SliceStable(books, func(i, j int) bool {
			return c.CompareString(books[i].Title, books[j].Title) < 0
		})
	}
}
