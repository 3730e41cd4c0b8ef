package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/librisapp/libris-server/internal/domain"
	apperrors "github.com/librisapp/libris-server/internal/errors"
	"github.com/librisapp/libris-server/internal/id"
	"github.com/librisapp/libris-server/internal/query"
	"github.com/librisapp/libris-server/internal/sse"
	"github.com/librisapp/libris-server/internal/store"
)

// maxSavedSearchNameLength bounds saved search names.
const maxSavedSearchNameLength = 120

// SavedSearchService manages named, replayable searches. A saved search
// stores the query and facet selection, never results: replaying runs
// against the catalogue as it exists at replay time.
type SavedSearchService struct {
	store     *store.Store
	catalogue *CatalogueService
	events    *sse.Manager
	logger    *slog.Logger
}

// NewSavedSearchService creates a saved search service.
func NewSavedSearchService(store *store.Store, catalogue *CatalogueService, events *sse.Manager, logger *slog.Logger) *SavedSearchService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SavedSearchService{
		store:     store,
		catalogue: catalogue,
		events:    events,
		logger:    logger,
	}
}

// Create saves a search under a name. A search with neither query text
// nor an active selection would replay to the entire catalogue and is
// rejected.
func (s *SavedSearchService) Create(ctx context.Context, name, queryText string, sel query.Selection) (*domain.SavedSearch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("saved search name cannot be empty")
	}
	if len(name) > maxSavedSearchNameLength {
		return nil, apperrors.Validationf("saved search name exceeds %d characters", maxSavedSearchNameLength)
	}

	queryText = strings.TrimSpace(queryText)
	if queryText == "" && !sel.Active() {
		return nil, apperrors.Validation("saved search needs a query or at least one filter")
	}

	// Timestamped IDs keep the listing in creation order even when keys
	// are iterated lexicographically.
	searchID, err := id.Timestamped("search")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to generate search ID")
	}

	saved := &domain.SavedSearch{
		ID:        searchID,
		Name:      name,
		Query:     queryText,
		Selection: sel.Snapshot(),
		CreatedAt: time.Now(),
	}

	if err := s.store.CreateSavedSearch(ctx, saved); err != nil {
		return nil, err
	}

	s.emit(searchID, "set")
	s.logger.Info("saved search created", "search_id", searchID, "name", name)
	return saved, nil
}

// Get returns a single saved search.
func (s *SavedSearchService) Get(ctx context.Context, searchID string) (*domain.SavedSearch, error) {
	return s.store.GetSavedSearch(ctx, searchID)
}

// Delete removes a saved search.
func (s *SavedSearchService) Delete(ctx context.Context, searchID string) error {
	if _, err := s.store.GetSavedSearch(ctx, searchID); err != nil {
		return err
	}
	if err := s.store.DeleteSavedSearch(ctx, searchID); err != nil {
		return err
	}
	s.emit(searchID, "deleted")
	return nil
}

// List returns all saved searches ordered by creation time.
func (s *SavedSearchService) List(ctx context.Context) ([]*domain.SavedSearch, error) {
	return s.store.ListSavedSearches(ctx)
}

// Replay runs a saved search against the current catalogue and returns
// the search alongside its present-day results.
func (s *SavedSearchService) Replay(ctx context.Context, searchID string) (*domain.SavedSearch, []domain.Book, error) {
	saved, err := s.store.GetSavedSearch(ctx, searchID)
	if err != nil {
		return nil, nil, err
	}

	books, err := s.catalogue.View(ctx, saved.Query, query.FromSnapshot(saved.Selection))
	if err != nil {
		return nil, nil, err
	}

	return saved, books, nil
}

func (s *SavedSearchService) emit(searchID, action string) {
	if s.events != nil {
		s.events.Emit(sse.NewChangeEvent(sse.EventSavedSearchChanged, searchID, action))
	}
}
