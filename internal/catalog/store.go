package catalog

import (
	"github.com/librisapp/libris-server/internal/domain"
)

// Store is the immutable in-memory book list plus its metadata tables.
// Build it with NewStore and treat it as read-only afterwards; a reload
// constructs a new Store rather than mutating this one.
type Store struct {
	books      []domain.Book
	byID       map[string]int
	partitions []string
	meta       *MetadataSet
}

// NewStore builds a store from parsed rows grouped by partition, applying
// the one-time publication-info enrichment merge. Partitions are kept in
// the order given; books keep their row order within each partition.
func NewStore(partitions []Partition, meta *MetadataSet) *Store {
	if meta == nil {
		meta = EmptyMetadata()
	}

	s := &Store{
		byID: make(map[string]int),
		meta: meta,
	}

	for _, p := range partitions {
		s.partitions = append(s.partitions, p.Name)
		for _, row := range p.Rows {
			book := row.Book(p.Name)
			enrich(&book, meta.PublicationInfo)

			if _, dup := s.byID[book.ID]; dup {
				// Duplicate IDs violate the source contract; first wins.
				continue
			}
			s.byID[book.ID] = len(s.books)
			s.books = append(s.books, book)
		}
	}

	return s
}

// Partition is one source table's worth of rows.
type Partition struct {
	Name string
	Rows []Row
}

// enrich applies the publication side table to a freshly built record.
// Present fields overwrite the row's values; this happens exactly once,
// at build time.
func enrich(b *domain.Book, info map[string]domain.PublicationInfo) {
	pub, ok := info[b.ID]
	if !ok {
		return
	}
	if pub.Year != 0 {
		b.Year = pub.Year
	}
	if pub.ISBN != "" {
		b.ISBN = pub.ISBN
	}
	if pub.Publisher != "" {
		b.Publisher = pub.Publisher
	}
}

// Books returns the full book list in load order. Callers must not mutate
// the returned slice.
func (s *Store) Books() []domain.Book {
	return s.books
}

// Get returns the book with the given ID.
func (s *Store) Get(id string) (domain.Book, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return domain.Book{}, false
	}
	return s.books[idx], true
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	return len(s.books)
}

// Partitions returns the source table names in load order.
func (s *Store) Partitions() []string {
	return s.partitions
}

// Metadata returns the store's lookup tables. Never nil.
func (s *Store) Metadata() *MetadataSet {
	return s.meta
}

// Authors returns the distinct author strings in first-seen order. These
// are the values the author facet offers.
func (s *Store) Authors() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, b := range s.books {
		if _, ok := seen[b.Author]; ok {
			continue
		}
		seen[b.Author] = struct{}{}
		out = append(out, b.Author)
	}
	return out
}

// YearRange returns the minimum and maximum observed publication years.
// ok is false when no record carries a year.
func (s *Store) YearRange() (min, max int, ok bool) {
	for _, b := range s.books {
		if !b.HasYear() {
			continue
		}
		if !ok {
			min, max, ok = b.Year, b.Year, true
			continue
		}
		if b.Year < min {
			min = b.Year
		}
		if b.Year > max {
			max = b.Year
		}
	}
	return min, max, ok
}
