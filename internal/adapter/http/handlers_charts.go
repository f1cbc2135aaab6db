package adapthttp

import (
	"net/http"
)

func (s *Server) handleChartsDaily(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	days := intQuery(r, "days", 30)
	today := s.today()

	points, err := s.svc.Charts.GetDaily(r.Context(), user.ID, days, today)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"days":  len(points),
		"today": today,
		"items": points,
	})
}
