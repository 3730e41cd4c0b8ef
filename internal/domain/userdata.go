package domain

import (
	"slices"
	"time"
)

// Favorite marks a book as a user favorite. It stores a denormalized copy
// of the record so the favorite survives catalogue reloads that drop or
// change the book, at the cost of possible staleness.
type Favorite struct {
	BookID  string    `json:"book_id"`
	Book    Book      `json:"book"`
	AddedAt time.Time `json:"added_at"`
}

// ReadingListEntry is one book on a reading list, denormalized like a
// favorite.
type ReadingListEntry struct {
	BookID  string    `json:"book_id"`
	Book    Book      `json:"book"`
	AddedAt time.Time `json:"added_at"`
}

// ReadingList is a named, ordered list of books curated by the user.
type ReadingList struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Entries   []ReadingListEntry `json:"entries"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// AddEntry appends a book to the list if it is not already present.
// Returns false for a duplicate. Updates UpdatedAt on success.
func (l *ReadingList) AddEntry(book Book) bool {
	if l.ContainsBook(book.ID) {
		return false
	}
	l.Entries = append(l.Entries, ReadingListEntry{
		BookID:  book.ID,
		Book:    book,
		AddedAt: time.Now(),
	})
	l.UpdatedAt = time.Now()
	return true
}

// RemoveEntry removes a book from the list. Returns false if the book was
// not present.
func (l *ReadingList) RemoveEntry(bookID string) bool {
	for i, e := range l.Entries {
		if e.BookID == bookID {
			l.Entries = append(l.Entries[:i], l.Entries[i+1:]...)
			l.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// ContainsBook checks whether a book is on the list.
func (l *ReadingList) ContainsBook(bookID string) bool {
	return slices.ContainsFunc(l.Entries, func(e ReadingListEntry) bool {
		return e.BookID == bookID
	})
}

// Note is free-form user text attached to a book.
type Note struct {
	BookID    string    `json:"book_id"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SavedSearch is a named, replayable query plus facet selection. It is a
// query, not a frozen result set: replaying it runs against the catalogue
// as it exists at replay time.
type SavedSearch struct {
	ID        string            `json:"id"` // timestamp-derived, unique
	Name      string            `json:"name"`
	Query     string            `json:"query"`
	Selection SelectionSnapshot `json:"selection"`
	CreatedAt time.Time         `json:"created_at"`
}

// SelectionSnapshot is the persisted form of a facet selection.
type SelectionSnapshot struct {
	Authors    []string `json:"authors,omitempty"`
	Categories []string `json:"categories,omitempty"`
	YearMin    int      `json:"year_min,omitempty"`
	YearMax    int      `json:"year_max,omitempty"`
	HasEbook   bool     `json:"has_ebook,omitempty"`
	HasBio     bool     `json:"has_bio,omitempty"`
	Partition  string   `json:"partition,omitempty"`
}
