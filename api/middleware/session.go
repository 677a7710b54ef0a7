package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/innovativehub/storefront/api/responses"
	"github.com/innovativehub/storefront/internal/session"
	"github.com/innovativehub/storefront/pkg/config"
	"github.com/innovativehub/storefront/pkg/logger"
)

type sessionResolver interface {
	Get(ctx context.Context, id string) (*session.Session, error)
}

// Session resolves the caller's storefront session from the session header
// or cookie, minting a new ID when neither carries a valid one. The ID is
// echoed on the response so clients can keep using it.
func Session(registry sessionResolver, cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sessionIDFromRequest(r, cfg)
			if !session.ValidID(id) {
				id = session.NewID()
			}

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithSessionID(ctx, id)
			}

			sess, err := registry.Get(ctx, id)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}

			w.Header().Set(cfg.Header, id)
			http.SetCookie(w, &http.Cookie{
				Name:     cfg.CookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Expires:  time.Now().Add(cfg.SlotRetention),
			})

			if user, ok := sess.Auth.User(); ok && logg != nil {
				ctx = logg.WithUserID(ctx, user.ID)
			}

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, sess)))
		})
	}
}

func sessionIDFromRequest(r *http.Request, cfg config.SessionConfig) string {
	if id := r.Header.Get(cfg.Header); id != "" {
		return id
	}
	if cookie, err := r.Cookie(cfg.CookieName); err == nil {
		return cookie.Value
	}
	return ""
}
