// Package api provides the HTTP API server and handlers for the Libris catalogue.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/librisapp/libris-server/internal/ratelimit"
	"github.com/librisapp/libris-server/internal/sse"
	"github.com/librisapp/libris-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	services    *Services
	sseHandler  *sse.Handler
	router      *chi.Mux
	api         huma.API
	writeLimits *ratelimit.KeyedLimiter
	validate    *validation.Validator
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, sseHandler *sse.Handler, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	humaConfig := huma.DefaultConfig("Libris API", "1.0.0")
	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		services:    services,
		sseHandler:  sseHandler,
		router:      router,
		api:         api,
		writeLimits: ratelimit.New(10, 30),
		validate:    validation.New(),
		logger:      logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-owned resources.
func (s *Server) Close() {
	s.writeLimits.Stop()
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		// The catalogue page is served from an arbitrary static host, so
		// the API accepts any origin. There are no credentials to leak.
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "If-None-Match"},
		MaxAge:         300,
	}))
	s.router.Use(s.limitWrites)
}

// setupRoutes registers all huma operations plus the raw chi routes
// that don't fit the typed model (SSE stream, binary cover images).
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerCatalogueRoutes()
	s.registerSearchRoutes()
	s.registerFavoriteRoutes()
	s.registerReadingListRoutes()
	s.registerNoteRoutes()
	s.registerSavedSearchRoutes()
	s.registerPreferenceRoutes()

	s.router.Get("/api/v1/books/{id}/cover", s.handleGetCover)
	if s.sseHandler != nil {
		s.router.Get("/api/v1/events", s.sseHandler.ServeHTTP)
	}
}
