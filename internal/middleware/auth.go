package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/haekalrfd/readiness-ai/internal/domain/identity"
)

type contextKey string

const callerKey contextKey = "caller"

const sessionCookie = "session_token"

// Authenticator validates the bearer token (or session cookie fallback),
// resolves the account behind it and stores the Caller in the request
// context. Requests without a valid session are rejected with 401.
func Authenticator(tokens *TokenManager, users identity.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				unauthorized(w, "Authentication required")
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				unauthorized(w, "Invalid or expired session")
				return
			}

			caller := identity.Caller{
				UserID:         claims.UserID,
				Email:          claims.Email,
				OrganizationID: claims.OrganizationID,
			}
			if role, ok := identity.ParseRole(claims.Role); ok {
				caller.Role = role
			} else {
				caller.Role = identity.RoleUser
			}

			// The database row wins over token claims when they disagree;
			// role changes take effect without waiting for token expiry.
			if users != nil {
				user, err := users.FindByID(r.Context(), claims.UserID)
				if err == nil && user != nil {
					caller.Email = user.Email
					caller.Role = user.Role
					caller.OrganizationID = user.OrganizationID
				}
			}

			ctx := context.WithValue(r.Context(), callerKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerFromContext extracts the authenticated caller. The zero Caller is
// returned for unauthenticated requests.
func CallerFromContext(ctx context.Context) identity.Caller {
	if c, ok := ctx.Value(callerKey).(identity.Caller); ok {
		return c
	}
	return identity.Caller{}
}

// bearerToken reads the Authorization header, falling back to the session
// cookie used by the web frontend.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth != "" {
		token := strings.TrimPrefix(auth, "Bearer ")
		return strings.TrimSpace(token)
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   "Unauthorized",
		"message": message,
	})
}
