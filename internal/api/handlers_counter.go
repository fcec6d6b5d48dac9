package api

import (
	"net/http"

	"github.com/moviecrate/moviecrate/internal/httputil"
)

func (s *Server) handleGetRequestCount(w http.ResponseWriter, r *http.Request) {
	n, err := s.shared.Get(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to read request count")
		httputil.WriteError(w, http.StatusInternalServerError, "failed to read request count")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int64{
		"requests": n,
	})
}

func (s *Server) handleIncrementRequestCount(w http.ResponseWriter, r *http.Request) {
	n, err := s.shared.Increment(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to increment request count")
		httputil.WriteError(w, http.StatusInternalServerError, "failed to increment request count")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "request count incremented",
		"requests": n,
	})
}

func (s *Server) handleResetRequestCount(w http.ResponseWriter, r *http.Request) {
	if err := s.shared.Reset(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("failed to reset request count")
		httputil.WriteError(w, http.StatusInternalServerError, "failed to reset request count")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "request count reset successfully",
	})
}
