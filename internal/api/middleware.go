package api

import (
	"net"
	"net/http"

	"github.com/librisapp/libris-server/internal/http/response"
)

// limitWrites throttles mutating requests per client address. Reads are
// never limited; the catalogue page polls them freely.
func (s *Server) limitWrites(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		if !s.writeLimits.Allow(clientKey(r)) {
			response.Error(w, http.StatusTooManyRequests, "too many requests, slow down", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey extracts the throttling key for a request. RealIP
// middleware already rewrote RemoteAddr from forwarding headers.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
