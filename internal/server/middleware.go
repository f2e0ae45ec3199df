package server

import (
	"context"
	"log/slog"
	"net/http"
)

type ctxKey int

const (
	ctxKeyOwner ctxKey = iota
	ctxKeyUser
)

// identityMiddleware attaches the request owner to the context. Requests
// fail with 503 when no identity can be established.
func identityMiddleware(logger *slog.Logger, accounts *AccountStore, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner, user, err := resolveOwner(w, r, accounts, secure)
			if err != nil {
				logger.Error("identity bootstrap failed", "error", err)
				writeErr(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyOwner, owner)
			ctx = context.WithValue(ctx, ctxKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
