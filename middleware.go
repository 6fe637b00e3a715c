package userhub

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

type userContextKey struct{}

// UserFromContext returns the authenticated user attached by
// requireUser, or nil when the request was not authenticated.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey{}).(*User)
	return user
}

// requireUser resolves the bearer token to a User and attaches it to
// the request context. The presented token must both verify as a
// session JWT and match the single token persisted on the user record;
// the latter is what makes logout effective server-side.
func (a *Auth) requireUser(next apiHandler) apiHandler {
	return func(w http.ResponseWriter, r *http.Request) error {
		token := bearerToken(r)
		if token == "" {
			return NewAuthError("Not authorized")
		}

		userID, err := VerifySessionToken(token, a.Config.JWTSecretKey)
		if err != nil {
			slog.Debug("session token rejected", "error", err)
			return NewAuthError("Not authorized")
		}

		user, err := a.Store.ByID(r.Context(), userID)
		if err != nil {
			return NewAuthError("Not authorized")
		}
		if user.SessionToken == "" || user.SessionToken != token {
			return NewAuthError("Not authorized")
		}

		ctx := context.WithValue(r.Context(), userContextKey{}, user)
		return next(w, r.WithContext(ctx))
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
