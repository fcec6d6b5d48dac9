package api

import (
	"errors"
	"net/http"

	"github.com/moviecrate/moviecrate/internal/catalog"
	"github.com/moviecrate/moviecrate/internal/httputil"
)

// handleListMovies proxies the upstream catalog verbatim. Failures are
// logged with detail but reported to the client with a generic message.
func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	body, err := s.catalog.Movies(r.Context())
	if err != nil {
		var ue *catalog.UpstreamError
		if errors.As(err, &ue) {
			s.log.Warn().Int("status", ue.StatusCode).Msg("catalog returned error status")
			httputil.WriteError(w, ue.StatusCode, "failed to fetch data from external API")
			return
		}
		s.log.Error().Err(err).Msg("catalog request failed")
		httputil.WriteError(w, http.StatusInternalServerError, "failed to fetch data from external API")
		return
	}

	httputil.WriteRaw(w, http.StatusOK, body)
}
