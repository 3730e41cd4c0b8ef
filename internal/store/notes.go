package store

import (
	"context"

	"github.com/librisapp/libris-server/internal/domain"
)

// SetNote stores the note for a book, replacing any previous text.
func (s *Store) SetNote(ctx context.Context, note *domain.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.set(notePrefix+note.BookID, note)
}

// GetNote returns the note for a book, or ErrNotFound.
func (s *Store) GetNote(ctx context.Context, bookID string) (*domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var note domain.Note
	if err := s.get(notePrefix+bookID, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote removes the note for a book. Deleting an absent note is a
// no-op.
func (s *Store) DeleteNote(ctx context.Context, bookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.delete(notePrefix + bookID)
}

// ListNotes returns all notes in key order.
func (s *Store) ListNotes(ctx context.Context) ([]*domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return listPrefix[*domain.Note](s, notePrefix)
}
