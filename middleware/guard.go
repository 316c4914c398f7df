package middleware

import (
	"context"
	"net/http"

	signAuth "github.com/MrEthical07/signAuth"
)

type authResultContextKey struct{}

// AuthResultFromContext returns the authentication result injected by
// [Guard], if any.
func AuthResultFromContext(ctx context.Context) (*signAuth.AuthResult, bool) {
	res, ok := ctx.Value(authResultContextKey{}).(*signAuth.AuthResult)
	return res, ok
}

// Guard returns middleware that authenticates every request through
// engine.Authenticate and stores the result in the request context.
// Rejections are uniform 401s; the reason stays server-side.
func Guard(engine *signAuth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			res, err := engine.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole wraps [Guard] and additionally rejects authenticated callers
// that do not hold role.
func RequireRole(engine *signAuth.Engine, role string) func(http.Handler) http.Handler {
	guard := Guard(engine)
	return func(next http.Handler) http.Handler {
		return guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, ok := AuthResultFromContext(r.Context())
			if !ok || !res.HasRole(role) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
