package providers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/librisapp/libris-server/internal/api"
	"github.com/librisapp/libris-server/internal/config"
	"github.com/librisapp/libris-server/internal/logger"
	"github.com/librisapp/libris-server/internal/mdns"
	"github.com/librisapp/libris-server/internal/service"
	"github.com/librisapp/libris-server/internal/sse"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.api.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server, already listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Catalogue:     do.MustInvoke[*service.CatalogueService](i),
		Favorites:     do.MustInvoke[*service.FavoritesService](i),
		ReadingLists:  do.MustInvoke[*service.ReadingListService](i),
		Notes:         do.MustInvoke[*service.NotesService](i),
		SavedSearches: do.MustInvoke[*service.SavedSearchService](i),
		Preferences:   do.MustInvoke[*service.PreferencesService](i),
		Covers:        do.MustInvoke[*service.CoverService](i),
	}

	sseHandler := sse.NewHandler(sseHandle.Manager, log.Logger)

	handler := api.NewServer(services, sseHandler, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}

// MDNSServiceHandle wraps mdns.Service with Shutdownable.
type MDNSServiceHandle struct {
	*mdns.Service
	started bool
}

// Shutdown implements do.Shutdownable.
func (h *MDNSServiceHandle) Shutdown() error {
	if h.started && h.Service != nil {
		h.Stop()
	}
	return nil
}

// ProvideMDNSService provides the mDNS advertisement service.
func ProvideMDNSService(i do.Injector) (*MDNSServiceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Server.AdvertiseMDNS {
		log.Info("mDNS advertisement disabled")
		return &MDNSServiceHandle{}, nil
	}

	svc := mdns.NewService(log.Logger)

	port := 8080
	_, _ = fmt.Sscanf(cfg.Server.Port, "%d", &port)

	// Multicast is often unavailable in containers; advertise
	// best-effort and keep serving either way.
	if err := svc.Start(cfg.Server.Name, port); err != nil {
		log.Warn("mDNS advertisement failed, continuing without it", "error", err)
		return &MDNSServiceHandle{Service: svc}, nil
	}

	log.Info("mDNS advertisement started", "name", cfg.Server.Name, "port", port)
	return &MDNSServiceHandle{Service: svc, started: true}, nil
}
