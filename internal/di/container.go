// Package di provides dependency injection configuration for the Libris server.
package di

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/librisapp/libris-server/internal/config"
	"github.com/librisapp/libris-server/internal/di/providers"
	"github.com/librisapp/libris-server/internal/logger"
	"github.com/librisapp/libris-server/internal/media/covers"
	"github.com/librisapp/libris-server/internal/media/images"
	"github.com/librisapp/libris-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)

	// Catalogue layer
	do.Provide(injector, providers.ProvideCatalogManager)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Cover layer
	do.Provide(injector, providers.ProvideCoverStorage)
	do.Provide(injector, providers.ProvideCoverLimiter)
	do.Provide(injector, providers.ProvideCoverResolver)
	do.Provide(injector, providers.ProvideCoverFetcher)
	do.Provide(injector, providers.ProvideCoverService)

	// Business services
	do.Provide(injector, providers.ProvideCatalogueService)
	do.Provide(injector, providers.ProvideFavoritesService)
	do.Provide(injector, providers.ProvideReadingListService)
	do.Provide(injector, providers.ProvideNotesService)
	do.Provide(injector, providers.ProvideSavedSearchService)
	do.Provide(injector, providers.ProvidePreferencesService)

	// Workers
	do.Provide(injector, providers.ProvideFileWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)
	do.Provide(injector, providers.ProvideMDNSService)

	return injector
}

// Bootstrap initializes all services and returns once the server is
// running. The first catalogue load happens here so startup fails loudly
// on a broken catalogue directory rather than serving an empty store.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	log := do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)

	// Cover pipeline
	_ = do.MustInvoke[*images.Storage](injector)
	_ = do.MustInvoke[*covers.Resolver](injector)
	_ = do.MustInvoke[*covers.Fetcher](injector)

	// Business services
	catalogue := do.MustInvoke[*service.CatalogueService](injector)
	_ = do.MustInvoke[*service.FavoritesService](injector)
	_ = do.MustInvoke[*service.ReadingListService](injector)
	_ = do.MustInvoke[*service.NotesService](injector)
	_ = do.MustInvoke[*service.SavedSearchService](injector)
	_ = do.MustInvoke[*service.PreferencesService](injector)
	_ = do.MustInvoke[*service.CoverService](injector)

	// Load the catalogue before accepting traffic.
	if err := catalogue.Reload(context.Background()); err != nil {
		return err
	}
	log.Info("Catalogue loaded", "books", catalogue.Len())

	// Watch for catalogue edits
	_, err := do.Invoke[*providers.FileWatcherHandle](injector)
	if err != nil {
		return err
	}

	// Server
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.MDNSServiceHandle](injector); err != nil {
		return err
	}

	return nil
}
