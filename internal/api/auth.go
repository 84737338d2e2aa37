package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/andy/freelancedesk/internal/domain"
)

type contextKey string

const userIDKey contextKey = "userID"

// authenticate resolves the Authorization bearer token to a user and puts
// the user id on the request context. Requests with a missing or unknown
// token get 401; the response never distinguishes the two cases.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		user, err := s.users.GetByToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			respondError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestUserID returns the authenticated user id stored by authenticate.
func requestUserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
