package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/librisapp/libris-server/internal/http/response"
	"github.com/librisapp/libris-server/internal/media/covers"
)

// handleGetCover serves the cached cover image for a book. This stays a
// raw chi handler: huma's typed model has no good shape for binary
// responses with conditional-request headers.
func (s *Server) handleGetCover(w http.ResponseWriter, r *http.Request) {
	if s.services.Covers == nil {
		response.NotFound(w, "covers are not enabled", s.logger)
		return
	}

	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		response.BadRequest(w, "book ID is required", s.logger)
		return
	}

	size := covers.Size(r.URL.Query().Get("size"))
	if size == "" {
		size = covers.SizeMedium
	}
	if !covers.ValidSize(size) {
		response.BadRequest(w, "size must be S, M or L", s.logger)
		return
	}

	cover, err := s.services.Covers.Get(r.Context(), bookID, size)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if cover.ETag != "" {
		etag := `"` + cover.ETag + `"`
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(cover.Data); err != nil {
		s.logger.Warn("failed to write cover response", "book_id", bookID, "error", err)
	}
}
