package adapthttp

import (
	"net/http"
)

func (s *Server) dateQuery(r *http.Request) string {
	if d := r.URL.Query().Get("date"); d != "" {
		return d
	}
	return s.today()
}

func (s *Server) handleToggleIntake(w http.ResponseWriter, r *http.Request) {
	medID, err := idParam(r, "medID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	user := userFromContext(r)
	today := s.today()
	taken, err := s.svc.Intakes.Toggle(r.Context(), user.ID, medID, today)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"medId": medID, "date": today, "taken": taken})
}

func (s *Server) handleMarkIntake(w http.ResponseWriter, r *http.Request) {
	medID, err := idParam(r, "medID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	user := userFromContext(r)
	date := s.dateQuery(r)
	if err := s.svc.Intakes.Mark(r.Context(), user.ID, medID, date); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"medId": medID, "date": date, "taken": true})
}

func (s *Server) handleUnmarkIntake(w http.ResponseWriter, r *http.Request) {
	medID, err := idParam(r, "medID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	user := userFromContext(r)
	date := s.dateQuery(r)
	removed, err := s.svc.Intakes.Unmark(r.Context(), user.ID, medID, date)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"medId": medID, "date": date, "taken": false, "removed": removed})
}
