// Package service provides the business logic layer between the HTTP
// handlers and the catalogue, store and search packages.
package service

import (
	"context"
	"log/slog"

	"github.com/librisapp/libris-server/internal/catalog"
	"github.com/librisapp/libris-server/internal/domain"
	apperrors "github.com/librisapp/libris-server/internal/errors"
	"github.com/librisapp/libris-server/internal/query"
	"github.com/librisapp/libris-server/internal/search"
	"github.com/librisapp/libris-server/internal/sse"
)

// CatalogueService exposes read operations over the in-memory catalogue
// and orchestrates reloads: a reload swaps the store, rebuilds the
// search index and notifies connected clients.
type CatalogueService struct {
	manager *catalog.Manager
	index   *search.Index
	events  *sse.Manager
	logger  *slog.Logger
}

// NewCatalogueService creates a catalogue service. index and events may
// be nil in tests that exercise only the filter path.
func NewCatalogueService(manager *catalog.Manager, index *search.Index, events *sse.Manager, logger *slog.Logger) *CatalogueService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CatalogueService{
		manager: manager,
		index:   index,
		events:  events,
		logger:  logger,
	}
}

// store returns the current catalogue store, or an unavailable error
// before the first successful load.
func (s *CatalogueService) store() (*catalog.Store, error) {
	store := s.manager.Store()
	if store == nil {
		return nil, apperrors.ErrUnavailable
	}
	return store, nil
}

// Reload rebuilds the catalogue from its source files. On success the
// search index is rebuilt from the new store and clients are notified;
// on failure the previous store stays current and a reload_failed
// event is emitted. The file watcher drives reloads through this
// method so side effects fire on every reload path.
func (s *CatalogueService) Reload(ctx context.Context) error {
	s.emit(sse.NewCatalogueReloadingEvent())

	if err := s.manager.Reload(ctx); err != nil {
		s.emit(sse.NewCatalogueReloadFailedEvent(err))
		return err
	}

	store := s.manager.Store()

	if err := s.reindex(store); err != nil {
		// The catalogue itself is fine; full-text search just serves the
		// previous index until the next reload.
		s.logger.Error("search reindex failed", "error", err)
	}

	s.emit(sse.NewCatalogueReloadedEvent(store.Len(), len(store.Partitions())))
	return nil
}

// reindex drops and rebuilds the search index from a store.
func (s *CatalogueService) reindex(store *catalog.Store) error {
	if s.index == nil {
		return nil
	}

	if err := s.index.Rebuild(); err != nil {
		return err
	}

	books := store.Books()
	docs := make([]*search.BookDocument, 0, len(books))
	for _, b := range books {
		docs = append(docs, search.BookToDocument(b, store.Metadata()))
	}
	if err := s.index.IndexDocuments(docs); err != nil {
		return err
	}

	s.logger.Info("search index rebuilt", "documents", len(docs))
	return nil
}

func (s *CatalogueService) emit(event sse.Event) {
	if s.events != nil {
		s.events.Emit(event)
	}
}

// WaitReady blocks until the first successful catalogue load.
func (s *CatalogueService) WaitReady(ctx context.Context) error {
	return s.manager.WaitReady(ctx)
}

// View filters the catalogue by free-text query and facet selection.
// With no query and no active facets it returns every book.
func (s *CatalogueService) View(ctx context.Context, q string, sel query.Selection) ([]domain.Book, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	return query.ComputeView(store.Books(), q, sel, store.Metadata()), nil
}

// GetBook returns a single catalogue record.
func (s *CatalogueService) GetBook(ctx context.Context, id string) (domain.Book, error) {
	store, err := s.store()
	if err != nil {
		return domain.Book{}, err
	}
	book, ok := store.Get(id)
	if !ok {
		return domain.Book{}, apperrors.NotFoundf("book %s not found", id)
	}
	return book, nil
}

// Suggest returns autocomplete candidates for a partial query.
func (s *CatalogueService) Suggest(ctx context.Context, partial string, limit int) ([]query.Suggestion, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	return query.Suggest(store.Books(), partial, limit), nil
}

// Categories returns the classification codes present in the catalogue,
// most frequent first.
func (s *CatalogueService) Categories(ctx context.Context) ([]query.CategoryCount, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	return query.ExtractCategories(store.Books()), nil
}

// Authors returns the distinct author strings in first-seen order.
func (s *CatalogueService) Authors(ctx context.Context) ([]string, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	return store.Authors(), nil
}

// Partitions returns the source table names in load order.
func (s *CatalogueService) Partitions(ctx context.Context) ([]string, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	return store.Partitions(), nil
}

// YearRange returns the observed publication year bounds. ok is false
// when no record carries a year.
func (s *CatalogueService) YearRange(ctx context.Context) (min, max int, ok bool, err error) {
	store, err := s.store()
	if err != nil {
		return 0, 0, false, err
	}
	min, max, ok = store.YearRange()
	return min, max, ok, nil
}

// Metadata returns the catalogue's lookup tables for the current store.
func (s *CatalogueService) Metadata(ctx context.Context) (*catalog.MetadataSet, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	return store.Metadata(), nil
}

// Search runs a full-text query against the bleve index.
func (s *CatalogueService) Search(ctx context.Context, params search.Params) (*search.Result, error) {
	if s.index == nil {
		return nil, apperrors.Unavailable("full-text search is not enabled")
	}
	if _, err := s.store(); err != nil {
		return nil, err
	}
	return s.index.Search(ctx, params)
}

// Ready reports whether the first catalogue load has completed.
func (s *CatalogueService) Ready() bool {
	select {
	case <-s.manager.Ready():
		return true
	default:
		return false
	}
}

// Len returns the current catalogue size, 0 before the first load.
func (s *CatalogueService) Len() int {
	store := s.manager.Store()
	if store == nil {
		return 0
	}
	return store.Len()
}
