package adapthttp

import (
	"net/http"

	"meddiary/internal/domain"
)

type medRequest struct {
	Name  string            `json:"name"`
	Time  string            `json:"time"`
	Days  domain.Recurrence `json:"days"`
	Notes string            `json:"notes"`
}

func (s *Server) handleListMeds(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	meds, err := s.svc.Meds.List(r.Context(), user.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": meds})
}

func (s *Server) handleCreateMed(w http.ResponseWriter, r *http.Request) {
	var body medRequest
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	user := userFromContext(r)
	created, err := s.svc.Meds.Create(r.Context(), user.ID, domain.Medication{
		Name:  body.Name,
		Time:  body.Time,
		Days:  body.Days,
		Notes: body.Notes,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateMed(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var patch domain.MedicationPatch
	if err := parseJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	user := userFromContext(r)
	updated, err := s.svc.Meds.Update(r.Context(), user.ID, id, patch)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteMed(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	user := userFromContext(r)
	if err := s.svc.Meds.Delete(r.Context(), user.ID, id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
