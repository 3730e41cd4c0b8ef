package api

import (
	"github.com/librisapp/libris-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Catalogue     *service.CatalogueService
	Favorites     *service.FavoritesService
	ReadingLists  *service.ReadingListService
	Notes         *service.NotesService
	SavedSearches *service.SavedSearchService
	Preferences   *service.PreferencesService
	Covers        *service.CoverService // nil disables the cover endpoint
}
