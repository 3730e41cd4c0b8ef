package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/librisapp/libris-server/internal/catalog"
	"github.com/librisapp/libris-server/internal/config"
	"github.com/librisapp/libris-server/internal/logger"
	"github.com/librisapp/libris-server/internal/search"
)

// ProvideCatalogManager provides the catalogue loader and reload manager.
// The first load is driven by the catalogue service during bootstrap, not
// here, so a broken catalogue file fails loudly instead of at injection
// time.
func ProvideCatalogManager(i do.Injector) (*catalog.Manager, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	loader := catalog.NewLoader(cfg.Catalogue.Path, log.Logger)
	return catalog.NewManager(loader, log.Logger), nil
}

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the full-text search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	idx, err := search.NewIndex(search.Options{
		DataPath: filepath.Join(cfg.Data.BasePath, "search"),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	log.Info("Search index opened")

	return &SearchIndexHandle{Index: idx}, nil
}
