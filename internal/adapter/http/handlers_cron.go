package adapthttp

import (
	"errors"
	"net/http"

	"meddiary/internal/app"
)

// handleMedsReminder triggers the reminder function and proxies its answer.
func (s *Server) handleMedsReminder(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Reminder.Run(r.Context())
	switch {
	case errors.Is(err, app.ErrReminderDisabled):
		writeError(w, http.StatusServiceUnavailable, err)
		return
	case errors.Is(err, app.ErrReminderAlreadyRan):
		writeJSON(w, http.StatusOK, map[string]any{"skipped": true, "reason": err.Error()})
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, err)
		return
	}

	status := res.Status
	if status < 100 || status > 599 {
		status = http.StatusBadGateway
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(res.Body))
}
