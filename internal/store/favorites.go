package store

import (
	"context"
	"sort"

	"github.com/librisapp/libris-server/internal/domain"
)

// SetFavorite stores (or overwrites) a favorite, keyed by book ID.
func (s *Store) SetFavorite(ctx context.Context, fav *domain.Favorite) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.set(favoritePrefix+fav.BookID, fav)
}

// GetFavorite returns the favorite for a book, or ErrNotFound.
func (s *Store) GetFavorite(ctx context.Context, bookID string) (*domain.Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var fav domain.Favorite
	if err := s.get(favoritePrefix+bookID, &fav); err != nil {
		return nil, err
	}
	return &fav, nil
}

// IsFavorite reports whether a book is marked as a favorite.
func (s *Store) IsFavorite(ctx context.Context, bookID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.exists(favoritePrefix + bookID)
}

// RemoveFavorite unmarks a book. Removing an absent favorite is a no-op.
func (s *Store) RemoveFavorite(ctx context.Context, bookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.delete(favoritePrefix + bookID)
}

// ListFavorites returns all favorites ordered by when they were added.
func (s *Store) ListFavorites(ctx context.Context) ([]*domain.Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	favs, err := listPrefix[*domain.Favorite](s, favoritePrefix)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(favs, func(i, j int) bool {
		return favs[i].AddedAt.Before(favs[j].AddedAt)
	})
	return favs, nil
}
