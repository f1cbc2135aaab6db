package adapthttp

import "net/http"

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	view, err := s.svc.Schedule.Today(r.Context(), user.ID, s.today())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	today := s.today()
	week, err := s.svc.Schedule.Week(r.Context(), user.ID, today)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"today": today, "days": week})
}
