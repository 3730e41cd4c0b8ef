package store

import (
	"context"
	"sort"

	"github.com/librisapp/libris-server/internal/domain"
)

// CreateReadingList persists a new reading list.
func (s *Store) CreateReadingList(ctx context.Context, list *domain.ReadingList) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.set(readingListPrefix+list.ID, list)
}

// UpdateReadingList overwrites an existing reading list.
func (s *Store) UpdateReadingList(ctx context.Context, list *domain.ReadingList) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.set(readingListPrefix+list.ID, list)
}

// GetReadingList returns a reading list by ID, or ErrNotFound.
func (s *Store) GetReadingList(ctx context.Context, id string) (*domain.ReadingList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var list domain.ReadingList
	if err := s.get(readingListPrefix+id, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// DeleteReadingList removes a reading list. Deleting an absent list is a
// no-op.
func (s *Store) DeleteReadingList(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.delete(readingListPrefix + id)
}

// ListReadingLists returns all reading lists ordered by creation time.
func (s *Store) ListReadingLists(ctx context.Context) ([]*domain.ReadingList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lists, err := listPrefix[*domain.ReadingList](s, readingListPrefix)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(lists, func(i, j int) bool {
		return lists[i].CreatedAt.Before(lists[j].CreatedAt)
	})
	return lists, nil
}
