package providers

import (
	"github.com/samber/do/v2"

	"github.com/librisapp/libris-server/internal/config"
	"github.com/librisapp/libris-server/internal/logger"
	"github.com/librisapp/libris-server/internal/media/covers"
	"github.com/librisapp/libris-server/internal/media/images"
	"github.com/librisapp/libris-server/internal/ratelimit"
	"github.com/librisapp/libris-server/internal/service"
)

// ProvideCoverStorage provides disk storage for cached cover images.
func ProvideCoverStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return images.NewStorage(cfg.Data.BasePath)
}

// CoverLimiterHandle wraps the outbound rate limiter with shutdown.
type CoverLimiterHandle struct {
	*ratelimit.KeyedLimiter
}

// Shutdown implements do.Shutdownable.
func (h *CoverLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideCoverLimiter provides the rate limiter for upstream cover fetches.
func ProvideCoverLimiter(i do.Injector) (*CoverLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	limiter := ratelimit.New(cfg.Covers.RequestsPerSecond, cfg.Covers.Burst)
	return &CoverLimiterHandle{KeyedLimiter: limiter}, nil
}

// ProvideCoverResolver provides the Open Library URL resolver.
func ProvideCoverResolver(i do.Injector) (*covers.Resolver, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return covers.NewResolver(cfg.Covers.BaseURL), nil
}

// ProvideCoverFetcher provides the caching cover fetcher.
func ProvideCoverFetcher(i do.Injector) (*covers.Fetcher, error) {
	resolver := do.MustInvoke[*covers.Resolver](i)
	storage := do.MustInvoke[*images.Storage](i)
	limiterHandle := do.MustInvoke[*CoverLimiterHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return covers.NewFetcher(resolver, storage, limiterHandle.KeyedLimiter, log.Logger), nil
}

// ProvideCoverService provides the cover service.
func ProvideCoverService(i do.Injector) (*service.CoverService, error) {
	fetcher := do.MustInvoke[*covers.Fetcher](i)
	resolver := do.MustInvoke[*covers.Resolver](i)
	catalogue := do.MustInvoke[*service.CatalogueService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCoverService(fetcher, resolver, catalogue, log.Logger), nil
}
