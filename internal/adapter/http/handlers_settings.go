package adapthttp

import "net/http"

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	st, err := s.svc.Settings.Get(r.Context(), user.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	user := userFromContext(r)
	st, err := s.svc.Settings.SaveEmail(r.Context(), user.ID, body.Email)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
