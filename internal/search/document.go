// Package search provides full-text catalogue search using Bleve: ranked
// relevance over titles and authors with faceted filtering on category,
// author, and partition. It complements the exact filter engine, which
// stays the source of truth for deterministic view computation.
package search

import (
	"github.com/librisapp/libris-server/internal/domain"
)

// BookDocument is the flat record indexed per catalogue book. Category
// and the presence flags are denormalized at index time so facet counts
// and filters need no store lookup.
type BookDocument struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	CallNumber string `json:"call_number,omitempty"`
	Category   string `json:"category,omitempty"`
	Partition  string `json:"partition,omitempty"`
	Publisher  string `json:"publisher,omitempty"`
	ISBN       string `json:"isbn,omitempty"`
	Year       int    `json:"year,omitempty"`
	HasEbook   bool   `json:"has_ebook"`
	HasBio     bool   `json:"has_bio"`
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but the
// mapping uses lowercase names, so we convert explicitly.
func (d *BookDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":        d.ID,
		"title":     d.Title,
		"author":    d.Author,
		"has_ebook": d.HasEbook,
		"has_bio":   d.HasBio,
	}

	if d.CallNumber != "" {
		m["call_number"] = d.CallNumber
	}
	if d.Category != "" {
		m["category"] = d.Category
	}
	if d.Partition != "" {
		m["partition"] = d.Partition
	}
	if d.Publisher != "" {
		m["publisher"] = d.Publisher
	}
	if d.ISBN != "" {
		m["isbn"] = d.ISBN
	}
	if d.Year > 0 {
		m["year"] = d.Year
	}

	return m
}

// Metadata is the subset of catalogue metadata the indexer needs to
// denormalize presence flags.
type Metadata interface {
	HasEbook(key string) bool
	HasBiography(author string) bool
}

// BookToDocument converts a catalogue book to its index document.
// meta may be nil when no sidecar metadata is loaded.
func BookToDocument(book domain.Book, meta Metadata) *BookDocument {
	doc := &BookDocument{
		ID:         book.ID,
		Title:      book.Title,
		Author:     book.Author,
		CallNumber: book.CallNumber,
		Category:   book.Category(),
		Partition:  book.Partition,
		Publisher:  book.Publisher,
		ISBN:       book.ISBN,
	}
	if book.HasYear() {
		doc.Year = book.Year
	}
	if meta != nil {
		doc.HasEbook = meta.HasEbook(book.EbookKey())
		doc.HasBio = meta.HasBiography(book.Author)
	}
	return doc
}
