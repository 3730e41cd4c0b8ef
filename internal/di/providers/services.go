package providers

import (
	"github.com/samber/do/v2"

	"github.com/librisapp/libris-server/internal/catalog"
	"github.com/librisapp/libris-server/internal/logger"
	"github.com/librisapp/libris-server/internal/service"
)

// ProvideCatalogueService provides the catalogue service.
func ProvideCatalogueService(i do.Injector) (*service.CatalogueService, error) {
	manager := do.MustInvoke[*catalog.Manager](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogueService(manager, indexHandle.Index, sseHandle.Manager, log.Logger), nil
}

// ProvideFavoritesService provides the favorites service.
func ProvideFavoritesService(i do.Injector) (*service.FavoritesService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	catalogue := do.MustInvoke[*service.CatalogueService](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFavoritesService(storeHandle.Store, catalogue, sseHandle.Manager, log.Logger), nil
}

// ProvideReadingListService provides the reading list service.
func ProvideReadingListService(i do.Injector) (*service.ReadingListService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	catalogue := do.MustInvoke[*service.CatalogueService](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReadingListService(storeHandle.Store, catalogue, sseHandle.Manager, log.Logger), nil
}

// ProvideNotesService provides the notes service.
func ProvideNotesService(i do.Injector) (*service.NotesService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	catalogue := do.MustInvoke[*service.CatalogueService](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNotesService(storeHandle.Store, catalogue, sseHandle.Manager, log.Logger), nil
}

// ProvideSavedSearchService provides the saved search service.
func ProvideSavedSearchService(i do.Injector) (*service.SavedSearchService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	catalogue := do.MustInvoke[*service.CatalogueService](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSavedSearchService(storeHandle.Store, catalogue, sseHandle.Manager, log.Logger), nil
}

// ProvidePreferencesService provides the display preferences service.
func ProvidePreferencesService(i do.Injector) (*service.PreferencesService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPreferencesService(storeHandle.Store, sseHandle.Manager, log.Logger), nil
}
