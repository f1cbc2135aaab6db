package adapthttp

import (
	"errors"
	"net/http"

	"meddiary/internal/app"
	"meddiary/internal/domain"
)

// writeServiceError maps application errors onto HTTP statuses. Unknown
// errors are logged and reported as 500 without detail.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, domain.ErrNotFound)
	case errors.Is(err, domain.ErrInvalidMedication),
		errors.Is(err, domain.ErrUnknownToken),
		errors.Is(err, app.ErrInvalidDay),
		errors.Is(err, app.ErrInvalidRange),
		errors.Is(err, app.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, err)
	default:
		s.log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, errInternal)
	}
}
