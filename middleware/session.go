package middleware

import (
	"context"
	"errors"
	"net/http"

	goBlog "github.com/MrEthical07/goBlog"
)

type userContextKey struct{}

// UserFromContext returns the user set by LoadSession. ok is false for
// anonymous requests.
func UserFromContext(ctx context.Context) (*goBlog.User, bool) {
	u, ok := ctx.Value(userContextKey{}).(*goBlog.User)
	return u, ok && u != nil
}

// WithUser stores u in ctx the way LoadSession does.
func WithUser(ctx context.Context, u *goBlog.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// LoadSession verifies the session cookie and attaches its user. A forged
// cookie or one naming a deleted user is treated as no cookie. Store
// failures are answered with 500.
func LoadSession(engine *goBlog.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				next.ServeHTTP(w, r)
				return
			}
			token := engine.SessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			u, err := engine.UserFromSession(r.Context(), token)
			switch {
			case err == nil:
				r = r.WithContext(WithUser(r.Context(), u))
			case errors.Is(err, goBlog.ErrUnauthenticated):
			default:
				engine.Logger().ErrorContext(r.Context(), "session lookup failed", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
