package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/librisapp/libris-server/internal/domain"
	apperrors "github.com/librisapp/libris-server/internal/errors"
	"github.com/librisapp/libris-server/internal/id"
	"github.com/librisapp/libris-server/internal/sse"
	"github.com/librisapp/libris-server/internal/store"
)

// maxReadingListNameLength bounds list names.
const maxReadingListNameLength = 120

// ReadingListService manages named, ordered book lists.
type ReadingListService struct {
	store     *store.Store
	catalogue *CatalogueService
	events    *sse.Manager
	logger    *slog.Logger
}

// NewReadingListService creates a reading list service.
func NewReadingListService(store *store.Store, catalogue *CatalogueService, events *sse.Manager, logger *slog.Logger) *ReadingListService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ReadingListService{
		store:     store,
		catalogue: catalogue,
		events:    events,
		logger:    logger,
	}
}

// Create creates an empty reading list.
func (s *ReadingListService) Create(ctx context.Context, name string) (*domain.ReadingList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("reading list name cannot be empty")
	}
	if len(name) > maxReadingListNameLength {
		return nil, apperrors.Validationf("reading list name exceeds %d characters", maxReadingListNameLength)
	}

	listID, err := id.Generate("list")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to generate list ID")
	}

	now := time.Now()
	list := &domain.ReadingList{
		ID:        listID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateReadingList(ctx, list); err != nil {
		return nil, err
	}

	s.emit(listID, "set")
	s.logger.Info("reading list created", "list_id", listID, "name", name)
	return list, nil
}

// Rename changes a list's name.
func (s *ReadingListService) Rename(ctx context.Context, listID, name string) (*domain.ReadingList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("reading list name cannot be empty")
	}
	if len(name) > maxReadingListNameLength {
		return nil, apperrors.Validationf("reading list name exceeds %d characters", maxReadingListNameLength)
	}

	list, err := s.store.GetReadingList(ctx, listID)
	if err != nil {
		return nil, err
	}

	list.Name = name
	list.UpdatedAt = time.Now()
	if err := s.store.UpdateReadingList(ctx, list); err != nil {
		return nil, err
	}

	s.emit(listID, "set")
	return list, nil
}

// Delete removes a list entirely.
func (s *ReadingListService) Delete(ctx context.Context, listID string) error {
	if _, err := s.store.GetReadingList(ctx, listID); err != nil {
		return err
	}
	if err := s.store.DeleteReadingList(ctx, listID); err != nil {
		return err
	}
	s.emit(listID, "deleted")
	return nil
}

// AddBook appends a catalogue book to a list. Adding a book already on
// the list is a conflict.
func (s *ReadingListService) AddBook(ctx context.Context, listID, bookID string) (*domain.ReadingList, error) {
	book, err := s.catalogue.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	list, err := s.store.GetReadingList(ctx, listID)
	if err != nil {
		return nil, err
	}

	if !list.AddEntry(book) {
		return nil, apperrors.Conflictf("book %s is already on list %s", bookID, listID)
	}

	if err := s.store.UpdateReadingList(ctx, list); err != nil {
		return nil, err
	}

	s.emit(listID, "set")
	return list, nil
}

// RemoveBook takes a book off a list.
func (s *ReadingListService) RemoveBook(ctx context.Context, listID, bookID string) (*domain.ReadingList, error) {
	list, err := s.store.GetReadingList(ctx, listID)
	if err != nil {
		return nil, err
	}

	if !list.RemoveEntry(bookID) {
		return nil, apperrors.NotFoundf("book %s is not on list %s", bookID, listID)
	}

	if err := s.store.UpdateReadingList(ctx, list); err != nil {
		return nil, err
	}

	s.emit(listID, "set")
	return list, nil
}

// Get returns a single reading list.
func (s *ReadingListService) Get(ctx context.Context, listID string) (*domain.ReadingList, error) {
	return s.store.GetReadingList(ctx, listID)
}

// List returns all reading lists ordered by creation time.
func (s *ReadingListService) List(ctx context.Context) ([]*domain.ReadingList, error) {
	return s.store.ListReadingLists(ctx)
}

func (s *ReadingListService) emit(listID, action string) {
	if s.events != nil {
		s.events.Emit(sse.NewChangeEvent(sse.EventReadingListChanged, listID, action))
	}
}
