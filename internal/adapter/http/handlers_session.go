package adapthttp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"meddiary/internal/app"
)

const sessionKeepAlive = 25 * time.Second

func (s *Server) sessionToken(r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// handleSession reports the signed-in user, or {"session": null}.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if s.disableAuth {
		writeJSON(w, http.StatusOK, map[string]any{"session": map[string]any{"userId": 1, "username": "test"}})
		return
	}
	if user := s.forwardedUser(r); user != nil {
		writeJSON(w, http.StatusOK, map[string]any{"session": map[string]any{"userId": user.ID, "username": user.Username}})
		return
	}
	info, err := s.svc.Auth.CurrentSession(r.Context(), s.sessionToken(r), r.UserAgent())
	if err != nil {
		s.log.Error().Err(err).Msg("session lookup failed")
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session": info})
}

// handleSessionEvents streams sign-in and sign-out events as server-sent
// events until the client goes away. Signed-in listeners only see their own
// events; anonymous listeners see sign-ins without the user id.
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("streaming unsupported"))
		return
	}

	var userID int64
	if info, err := s.svc.Auth.CurrentSession(r.Context(), s.sessionToken(r), r.UserAgent()); err == nil && info != nil {
		userID = info.UserID
	}

	events, cancel := s.svc.Auth.Events().Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(sessionKeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case ev, open := <-events:
			if !open {
				return
			}
			if userID != 0 && ev.UserID != userID {
				continue
			}
			if userID == 0 {
				if ev.Kind != app.SessionSignedIn {
					continue
				}
				ev.UserID = 0
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data)
			flusher.Flush()
		}
	}
}
