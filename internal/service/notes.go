package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/librisapp/libris-server/internal/domain"
	apperrors "github.com/librisapp/libris-server/internal/errors"
	"github.com/librisapp/libris-server/internal/sse"
	"github.com/librisapp/libris-server/internal/store"
)

// maxNoteLength bounds note text.
const maxNoteLength = 10000

// NotesService manages free-form user notes attached to books.
type NotesService struct {
	store     *store.Store
	catalogue *CatalogueService
	events    *sse.Manager
	logger    *slog.Logger
}

// NewNotesService creates a notes service.
func NewNotesService(store *store.Store, catalogue *CatalogueService, events *sse.Manager, logger *slog.Logger) *NotesService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &NotesService{
		store:     store,
		catalogue: catalogue,
		events:    events,
		logger:    logger,
	}
}

// Set writes a book's note, replacing any existing text. Saving empty
// text deletes the note instead of storing a blank one.
func (s *NotesService) Set(ctx context.Context, bookID, text string) (*domain.Note, error) {
	if _, err := s.catalogue.GetBook(ctx, bookID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		if err := s.Delete(ctx, bookID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if len(text) > maxNoteLength {
		return nil, apperrors.Validationf("note exceeds %d characters", maxNoteLength)
	}

	note := &domain.Note{
		BookID:    bookID,
		Text:      text,
		UpdatedAt: time.Now(),
	}
	if err := s.store.SetNote(ctx, note); err != nil {
		return nil, err
	}

	s.emit(bookID, "set")
	return note, nil
}

// Get returns a book's note.
func (s *NotesService) Get(ctx context.Context, bookID string) (*domain.Note, error) {
	return s.store.GetNote(ctx, bookID)
}

// Delete removes a book's note. Deleting an absent note is a no-op.
func (s *NotesService) Delete(ctx context.Context, bookID string) error {
	if err := s.store.DeleteNote(ctx, bookID); err != nil {
		return err
	}
	s.emit(bookID, "deleted")
	return nil
}

// List returns all notes.
func (s *NotesService) List(ctx context.Context) ([]*domain.Note, error) {
	return s.store.ListNotes(ctx)
}

func (s *NotesService) emit(bookID, action string) {
	if s.events != nil {
		s.events.Emit(sse.NewChangeEvent(sse.EventNoteChanged, bookID, action))
	}
}
