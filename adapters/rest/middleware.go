package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/andarie1/task-manager/core"
	"github.com/andarie1/task-manager/pkg/res"
)

const (
	authHeader       = "Authorization"
	authHeaderPrefix = "Bearer"
)

type ctxKey struct{}

// Authenticator resolves the user behind an access token.
type Authenticator interface {
	Authenticate(ctx context.Context, access string) (core.User, error)
}

// RequireAuth rejects requests without a valid bearer access token and stores the
// user in the request context.
func RequireAuth(log *slog.Logger, auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			prefix, token, ok := strings.Cut(r.Header.Get(authHeader), " ")
			if !ok || prefix != authHeaderPrefix || token == "" {
				res.Error(w, "authentication credentials were not provided", http.StatusUnauthorized)
				return
			}

			u, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if !errors.Is(err, core.ErrInvalidToken) {
					log.Error("authentication failed", "error", err)
				}
				WriteErr(w, log, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, u)))
		})
	}
}

// UserFromContext returns the user stored by RequireAuth.
func UserFromContext(ctx context.Context) (core.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(core.User)
	return u, ok
}
