package adapthttp

import (
	"net/http"
	"strconv"

	"meddiary/internal/app"
	"meddiary/internal/domain"
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := 0
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, errInvalidPage)
			return
		}
		page = n
	}

	user := userFromContext(r)
	result, err := s.svc.History.Page(r.Context(), user.ID, app.HistoryQuery{
		From:   q.Get("from"),
		To:     q.Get("to"),
		Days:   intQuery(r, "days", 0),
		Page:   page,
		Status: domain.ParseStatusFilter(q.Get("status")),
	}, s.today())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
