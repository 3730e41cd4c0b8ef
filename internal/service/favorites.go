package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/librisapp/libris-server/internal/domain"
	"github.com/librisapp/libris-server/internal/sse"
	"github.com/librisapp/libris-server/internal/store"
)

// FavoritesService manages the user's favorite books. Favorites store a
// denormalized copy of the record, so a favorite survives reloads that
// drop or change the book.
type FavoritesService struct {
	store     *store.Store
	catalogue *CatalogueService
	events    *sse.Manager
	logger    *slog.Logger
}

// NewFavoritesService creates a favorites service.
func NewFavoritesService(store *store.Store, catalogue *CatalogueService, events *sse.Manager, logger *slog.Logger) *FavoritesService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FavoritesService{
		store:     store,
		catalogue: catalogue,
		events:    events,
		logger:    logger,
	}
}

// Add marks a book as a favorite. Adding an existing favorite refreshes
// its denormalized record but keeps the original AddedAt.
func (s *FavoritesService) Add(ctx context.Context, bookID string) (*domain.Favorite, error) {
	book, err := s.catalogue.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	fav := &domain.Favorite{
		BookID:  bookID,
		Book:    book,
		AddedAt: time.Now(),
	}
	if existing, err := s.store.GetFavorite(ctx, bookID); err == nil {
		fav.AddedAt = existing.AddedAt
	}

	if err := s.store.SetFavorite(ctx, fav); err != nil {
		return nil, err
	}

	s.emit(bookID, "set")
	return fav, nil
}

// Remove clears a favorite. Removing an absent favorite is a no-op.
func (s *FavoritesService) Remove(ctx context.Context, bookID string) error {
	if err := s.store.RemoveFavorite(ctx, bookID); err != nil {
		return err
	}
	s.emit(bookID, "deleted")
	return nil
}

// Toggle flips a book's favorite state and reports the new state.
func (s *FavoritesService) Toggle(ctx context.Context, bookID string) (bool, error) {
	isFav, err := s.store.IsFavorite(ctx, bookID)
	if err != nil {
		return false, err
	}

	if isFav {
		if err := s.Remove(ctx, bookID); err != nil {
			return false, err
		}
		return false, nil
	}

	if _, err := s.Add(ctx, bookID); err != nil {
		return false, err
	}
	return true, nil
}

// IsFavorite reports whether a book is a favorite.
func (s *FavoritesService) IsFavorite(ctx context.Context, bookID string) (bool, error) {
	return s.store.IsFavorite(ctx, bookID)
}

// List returns all favorites ordered by when they were added.
func (s *FavoritesService) List(ctx context.Context) ([]*domain.Favorite, error) {
	return s.store.ListFavorites(ctx)
}

func (s *FavoritesService) emit(bookID, action string) {
	if s.events != nil {
		s.events.Emit(sse.NewChangeEvent(sse.EventFavoriteChanged, bookID, action))
	}
}
