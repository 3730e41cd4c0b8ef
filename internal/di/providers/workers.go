package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/librisapp/libris-server/internal/config"
	"github.com/librisapp/libris-server/internal/logger"
	"github.com/librisapp/libris-server/internal/service"
	"github.com/librisapp/libris-server/internal/watcher"
)

// FileWatcherHandle wraps the catalogue file watcher with lifecycle
// management.
type FileWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *FileWatcherHandle) Shutdown() error {
	h.cancel()
	return h.Stop()
}

// ProvideFileWatcher provides the catalogue directory watcher. Edits are
// debounced so a burst of writes triggers one reload.
func ProvideFileWatcher(i do.Injector) (*FileWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	catalogue := do.MustInvoke[*service.CatalogueService](i)

	w, err := watcher.New(watcher.Options{
		Dir:      cfg.Catalogue.Path,
		Debounce: cfg.Catalogue.ReloadDebounce,
		Reloader: catalogue,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	log.Info("Catalogue watcher started",
		"dir", cfg.Catalogue.Path,
		"debounce", cfg.Catalogue.ReloadDebounce,
	)

	return &FileWatcherHandle{Watcher: w, cancel: cancel}, nil
}
