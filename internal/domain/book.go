// Package domain contains the core business entities for the Libris library catalogue.
package domain

import "strings"

// Book represents a single catalogue record.
//
// Records are immutable after the catalogue is built, with one exception:
// the publication-info enrichment merge may overwrite Year, ISBN and
// Publisher once, keyed by ID. Everything else keeps the value it had in
// the source row.
type Book struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	CallNumber string `json:"call_number,omitempty"`
	Year       int    `json:"year,omitempty"` // 0 means unknown
	ISBN       string `json:"isbn,omitempty"` // digits only, hyphens stripped
	Publisher  string `json:"publisher,omitempty"`
	Copy       string `json:"copy,omitempty"`

	// Partition identifies the source table the record came from when the
	// catalogue is split across multiple files (tabs in the original page).
	// Empty for single-source catalogues.
	Partition string `json:"partition,omitempty"`
}

// Category returns the leading run of uppercase ASCII letters in the call
// number, which the catalogue treats as a coarse classification code.
// Returns "" when there is no call number or it does not start with an
// uppercase letter.
func (b *Book) Category() string {
	n := 0
	for n < len(b.CallNumber) {
		c := b.CallNumber[n]
		if c < 'A' || c > 'Z' {
			break
		}
		n++
	}
	return b.CallNumber[:n]
}

// EbookKey returns the lookup key used by the ebook-links metadata map.
// The map is keyed by the exact "{author} - {title}" string.
func (b *Book) EbookKey() string {
	return b.Author + " - " + b.Title
}

// HasYear reports whether the record carries a publication year.
func (b *Book) HasYear() bool {
	return b.Year != 0
}

// EbookLink points at an external electronic edition of a book.
type EbookLink struct {
	Source string `json:"source"`
	URL    string `json:"url"`
	Format string `json:"format,omitempty"`
}

// AuthorBiography holds supplementary information about an author.
// Bio text is normalized to Markdown when the source supplied HTML.
type AuthorBiography struct {
	Bio     string   `json:"bio"`
	Dates   string   `json:"dates,omitempty"`
	Sources []string `json:"sources,omitempty"`
}

// PublicationInfo is the enrichment side table entry, keyed by book ID.
type PublicationInfo struct {
	Year      int    `json:"year,omitempty"`
	ISBN      string `json:"isbn,omitempty"`
	Publisher string `json:"publisher,omitempty"`
}

// NormalizeISBN strips hyphens and spaces so the value matches the
// digits-only form the cover resolver expects.
func NormalizeISBN(isbn string) string {
	isbn = strings.ReplaceAll(isbn, "-", "")
	return strings.ReplaceAll(isbn, " ", "")
}
