package server

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

const adminHeader = "X-Admin-Password"

type ctxKey int

const userIDKey ctxKey = iota

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// requireUser resolves the bearer token to a user ID in the request context.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.sessions.Lookup(bearerToken(r))
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing or invalid session token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, id)))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(adminHeader)
		if s.admin == "" || subtle.ConstantTimeCompare([]byte(got), []byte(s.admin)) != 1 {
			s.log.Warn().Str("path", r.URL.Path).Msg("Rejected admin request")
			writeError(w, http.StatusUnauthorized, "invalid admin password")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
