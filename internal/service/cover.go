package service

import (
	"context"
	"log/slog"

	"github.com/librisapp/libris-server/internal/domain"
	apperrors "github.com/librisapp/libris-server/internal/errors"
	"github.com/librisapp/libris-server/internal/media/covers"
)

// Cover is a served cover image plus its cache validator.
type Cover struct {
	Data []byte
	ETag string
}

// CoverService serves book cover images, fetching from Open Library on
// first access and from the disk cache afterwards.
type CoverService struct {
	fetcher   *covers.Fetcher
	resolver  *covers.Resolver
	catalogue *CatalogueService
	logger    *slog.Logger
}

// NewCoverService creates a cover service.
func NewCoverService(fetcher *covers.Fetcher, resolver *covers.Resolver, catalogue *CatalogueService, logger *slog.Logger) *CoverService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CoverService{
		fetcher:   fetcher,
		resolver:  resolver,
		catalogue: catalogue,
		logger:    logger,
	}
}

// URL returns the upstream cover URL for a book without fetching it.
// Empty when the book carries no ISBN.
func (s *CoverService) URL(ctx context.Context, bookID string, size covers.Size) (string, error) {
	book, err := s.catalogue.GetBook(ctx, bookID)
	if err != nil {
		return "", err
	}
	return s.resolver.URLForBook(book, size), nil
}

// Get returns a book's cover image, downloading it on first access.
func (s *CoverService) Get(ctx context.Context, bookID string, size covers.Size) (*Cover, error) {
	book, err := s.catalogue.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if domain.NormalizeISBN(book.ISBN) == "" {
		return nil, apperrors.NotFoundf("book %s has no ISBN, no cover available", bookID)
	}

	if !s.fetcher.HasCached(bookID, size) {
		if _, err := s.fetcher.Fetch(ctx, book, size); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "cover not available")
		}
	}

	data, err := s.fetcher.Cached(bookID, size)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to read cached cover")
	}

	etag, err := s.fetcher.CachedHash(bookID, size)
	if err != nil {
		s.logger.Warn("failed to hash cached cover", "book_id", bookID, "error", err)
		etag = ""
	}

	return &Cover{Data: data, ETag: etag}, nil
}
