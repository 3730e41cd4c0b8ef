package store

import (
	"context"
	"sort"

	"github.com/librisapp/libris-server/internal/domain"
)

// CreateSavedSearch persists a saved search.
func (s *Store) CreateSavedSearch(ctx context.Context, search *domain.SavedSearch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.set(savedSearchPrefix+search.ID, search)
}

// GetSavedSearch returns a saved search by ID, or ErrNotFound.
func (s *Store) GetSavedSearch(ctx context.Context, id string) (*domain.SavedSearch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var search domain.SavedSearch
	if err := s.get(savedSearchPrefix+id, &search); err != nil {
		return nil, err
	}
	return &search, nil
}

// DeleteSavedSearch removes a saved search. Deleting an absent search is a
// no-op.
func (s *Store) DeleteSavedSearch(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.delete(savedSearchPrefix + id)
}

// ListSavedSearches returns all saved searches ordered by creation time.
func (s *Store) ListSavedSearches(ctx context.Context) ([]*domain.SavedSearch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	searches, err := listPrefix[*domain.SavedSearch](s, savedSearchPrefix)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(searches, func(i, j int) bool {
		return searches[i].CreatedAt.Before(searches[j].CreatedAt)
	})
	return searches, nil
}
