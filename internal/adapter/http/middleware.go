package adapthttp

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"meddiary/internal/app"
	"meddiary/internal/domain"
	"meddiary/internal/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type contextKey string

const userContextKey contextKey = "user"

// authMiddleware validates session tokens and forward auth headers.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip auth if disabled (for tests)
		if s.disableAuth {
			ctx := context.WithValue(r.Context(), userContextKey, &domain.User{ID: 1, Username: "test"})
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if user := s.forwardedUser(r); user != nil {
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		// Fall back to cookie-based session
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, errUnauthorized)
			return
		}

		user, err := s.svc.Auth.ValidateSession(r.Context(), cookie.Value, r.UserAgent())
		if errors.Is(err, app.ErrSessionNotFound) || errors.Is(err, app.ErrSessionExpired) || errors.Is(err, app.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, errUnauthorized)
			return
		}
		if err != nil {
			s.log.Error().Err(err).Msg("session validation failed")
			writeError(w, http.StatusInternalServerError, errInternal)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// forwardedUser resolves the Remote-User header when forward auth is enabled.
func (s *Server) forwardedUser(r *http.Request) *domain.User {
	if !s.forwardAuth {
		return nil
	}
	remoteUser := r.Header.Get("Remote-User")
	if remoteUser == "" {
		return nil
	}
	user, err := s.svc.Auth.ValidateForwardAuth(r.Context(), remoteUser)
	if err != nil {
		s.log.Warn().Err(err).Str("remote_user", remoteUser).Msg("forward auth failed")
		return nil
	}
	return user
}

func userFromContext(r *http.Request) *domain.User {
	u, _ := r.Context().Value(userContextKey).(*domain.User)
	return u
}

// cronAuth checks the shared cron secret when one is configured.
func (s *Server) cronAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cronSecret != "" {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || !app.ConstantTimeCompare(token, s.cronSecret) {
				writeError(w, http.StatusUnauthorized, errUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs one line per request and records its latency.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := ""
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		metrics.ObserveHTTP(r.Method, route, status, start)

		ev := s.log.Info()
		if status >= http.StatusInternalServerError {
			ev = s.log.Error()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("http request")
	})
}
