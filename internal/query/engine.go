// Package query implements the catalogue's filter, search and suggestion
// engine as pure functions over an in-memory book list. The functions hold
// no state: computing the same view twice over the same inputs produces
// identical results.
package query

import (
	"slices"
	"strconv"
	"strings"

	"github.com/librisapp/libris-server/internal/domain"
)

// Metadata resolves the ebook-presence and biography-presence facets.
// Both are lookups against externally supplied tables: ebook links are
// keyed by "{author} - {title}", biographies by the exact author string.
type Metadata interface {
	HasEbook(key string) bool
	HasBiography(author string) bool
}

// NoMetadata is the lookup used when no metadata maps were supplied.
// Every presence check fails, so the ebook and bio facets match nothing.
type NoMetadata struct{}

// HasEbook always reports false.
func (NoMetadata) HasEbook(string) bool { return false }

// HasBiography always reports false.
func (NoMetadata) HasBiography(string) bool { return false }

// Selection is one facet selection. Values within a facet combine with OR;
// facets combine with AND. The zero value selects nothing, meaning no
// facet filtering at all.
type Selection struct {
	Authors    []string
	Categories []string
	YearMin    int // inclusive; 0 means unbounded below
	YearMax    int // inclusive; 0 means unbounded above
	HasEbook   bool
	HasBio     bool

	// Partition restricts results to one source table when the catalogue
	// is split across tabs. Empty means no restriction.
	Partition string
}

// Active reports whether any facet is engaged. The full-store identity in
// ComputeView is gated on this flag together with the query, never on
// result length: an empty result from an active filter means zero matches,
// not "show everything".
func (s Selection) Active() bool {
	return len(s.Authors) > 0 ||
		len(s.Categories) > 0 ||
		s.YearMin > 0 || s.YearMax > 0 ||
		s.HasEbook || s.HasBio ||
		s.Partition != ""
}

// FromSnapshot rebuilds a Selection from its persisted form.
func FromSnapshot(snap domain.SelectionSnapshot) Selection {
	return Selection{
		Authors:    snap.Authors,
		Categories: snap.Categories,
		YearMin:    snap.YearMin,
		YearMax:    snap.YearMax,
		HasEbook:   snap.HasEbook,
		HasBio:     snap.HasBio,
		Partition:  snap.Partition,
	}
}

// Snapshot converts the selection to its persisted form.
func (s Selection) Snapshot() domain.SelectionSnapshot {
	return domain.SelectionSnapshot{
		Authors:    s.Authors,
		Categories: s.Categories,
		YearMin:    s.YearMin,
		YearMax:    s.YearMax,
		HasEbook:   s.HasEbook,
		HasBio:     s.HasBio,
		Partition:  s.Partition,
	}
}

// ComputeView filters the book list by free-text query and facet selection.
//
// The text query is a case-insensitive substring match against title,
// author, call number and the year rendered as a string; a book matches if
// any field matches. An empty or whitespace-only query applies no text
// filter. When neither the query nor any facet is active the result is the
// input list itself, preserving the full-store identity.
//
// Output order is input order; no sorting happens here.
func ComputeView(books []domain.Book, query string, sel Selection, meta Metadata) []domain.Book {
	if meta == nil {
		meta = NoMetadata{}
	}

	query = strings.TrimSpace(query)
	if query == "" && !sel.Active() {
		return books
	}

	lowerQuery := strings.ToLower(query)

	view := make([]domain.Book, 0, len(books))
	for _, b := range books {
		if query != "" && !matchesQuery(&b, lowerQuery) {
			continue
		}
		if !matchesSelection(&b, sel, meta) {
			continue
		}
		view = append(view, b)
	}
	return view
}

// matchesQuery checks the free-text match against the four searchable
// fields. lowerQuery must already be lowercased and trimmed.
func matchesQuery(b *domain.Book, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(b.Title), lowerQuery) {
		return true
	}
	if strings.Contains(strings.ToLower(b.Author), lowerQuery) {
		return true
	}
	if b.CallNumber != "" && strings.Contains(strings.ToLower(b.CallNumber), lowerQuery) {
		return true
	}
	if b.HasYear() && strings.Contains(strconv.Itoa(b.Year), lowerQuery) {
		return true
	}
	return false
}

// matchesSelection applies every active facet with AND semantics.
func matchesSelection(b *domain.Book, sel Selection, meta Metadata) bool {
	if sel.Partition != "" && b.Partition != sel.Partition {
		return false
	}

	if len(sel.Authors) > 0 && !slices.Contains(sel.Authors, b.Author) {
		return false
	}

	if len(sel.Categories) > 0 {
		// A record without a call number cannot satisfy a category filter.
		cat := b.Category()
		if cat == "" || !slices.Contains(sel.Categories, cat) {
			return false
		}
	}

	if sel.YearMin > 0 || sel.YearMax > 0 {
		// Missing years pass the range facet; the range is only checked
		// against records that carry a year.
		if b.HasYear() {
			if sel.YearMin > 0 && b.Year < sel.YearMin {
				return false
			}
			if sel.YearMax > 0 && b.Year > sel.YearMax {
				return false
			}
		}
	}

	if sel.HasEbook && !meta.HasEbook(b.EbookKey()) {
		return false
	}
	if sel.HasBio && !meta.HasBiography(b.Author) {
		return false
	}

	return true
}
