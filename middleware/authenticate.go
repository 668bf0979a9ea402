package middleware

import (
	"log/slog"
	"net/http"

	garmr "github.com/shipdventures/neoma-garmr"
)

// Authenticate returns middleware that attempts credential extraction and
// attaches the authenticated principal to the request context. Carriers are
// tried in order — bearer header, then the engine's session cookie — and
// the first attached principal wins. Swallowed authentication failures are
// logged at Warn through the engine's injected logger.
func Authenticate(engine *garmr.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				respondError(w, garmr.ErrEngineNotReady)
				return
			}

			ctx := r.Context()
			if _, ok := garmr.PrincipalFromContext(ctx); ok {
				next.ServeHTTP(w, r)
				return
			}

			if header := r.Header.Get("Authorization"); header != "" {
				tok, err := garmr.ParseBearer(header)
				if err != nil {
					// Attempt made incorrectly: surface, don't swallow.
					respondError(w, err)
					return
				}
				principal, err := engine.AuthenticateToken(ctx, tok)
				if err != nil {
					warn(engine.Logger(), "bearer authentication failed", err)
				} else {
					ctx = garmr.WithPrincipal(ctx, principal)
				}
			}

			if _, ok := garmr.PrincipalFromContext(ctx); !ok {
				if cookie, err := r.Cookie(engine.CookieName()); err == nil && cookie.Value != "" {
					principal, err := engine.AuthenticateToken(ctx, cookie.Value)
					if err != nil {
						warn(engine.Logger(), "cookie authentication failed", err)
					} else {
						ctx = garmr.WithPrincipal(ctx, principal)
					}
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func warn(logger *slog.Logger, msg string, err error) {
	if logger == nil {
		return
	}
	logger.Warn(msg, "error", err)
}
