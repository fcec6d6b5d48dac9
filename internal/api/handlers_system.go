package api

import (
	"net/http"

	"github.com/moviecrate/moviecrate/internal/httputil"
)

// handleOverview lists every route the API exposes.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"Register":            "/register/",
		"Login":               "/login/",
		"Token Refresh":       "/token/refresh/",
		"Movies":              "/movies/",
		"Collections":         "/collection/",
		"Collection Detail":   "/collection/<collection_uuid>/",
		"Request Count":       "/request-count/",
		"Request Count Reset": "/request-count/reset/",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "ok",
		"version":          s.version,
		"process_requests": s.tally.Value(),
	})
}
