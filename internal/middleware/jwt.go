package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/crucial707/family-tree-api/internal/auth"
)

type key string

const UserIDKey key = "user_id"

// GetUserID returns the authenticated user id placed in the context by
// RequireAuth or OptionalAuth. ok is false for anonymous requests.
func GetUserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(UserIDKey).(int)
	return id, ok
}

// BearerToken extracts the token from the Authorization header, or "" if absent.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// RequireAuth rejects the request with 401 unless a valid access token is
// presented. Use for routes where identity is mandatory (list, delete).
func RequireAuth(issuer *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := BearerToken(r)
			if tokenStr == "" {
				unauthorized(w, "missing authorization header")
				return
			}

			userID, err := issuer.Verify(tokenStr, auth.KindAccess)
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth never rejects. When a valid access token is presented the user
// id is placed in the context; an absent or invalid token leaves the request
// anonymous. This is deliberate policy, not error suppression: routes behind
// it distinguish "no credential supplied" from "credential required".
func OptionalAuth(issuer *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenStr := BearerToken(r); tokenStr != "" {
				if userID, err := issuer.Verify(tokenStr, auth.KindAccess); err == nil {
					ctx := context.WithValue(r.Context(), UserIDKey, userID)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
