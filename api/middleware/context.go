package middleware

import (
	"context"

	"github.com/innovativehub/storefront/internal/session"
)

type contextKey string

const ctxSession contextKey = "session"

// SessionFromContext returns the storefront session attached by Session.
func SessionFromContext(ctx context.Context) *session.Session {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxSession).(*session.Session); ok {
		return v
	}
	return nil
}

func WithSession(ctx context.Context, sess *session.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, sess)
}
