package auth

import (
	"context"
	"strings"

	"github.com/innovativehub/storefront/internal/storage"
	"github.com/innovativehub/storefront/pkg/logger"
)

// TokenStore keeps the bearer token in the durable session slot. The raw
// token is stored as-is, matching what browser clients persist.
type TokenStore struct {
	kv   storage.KV
	logg *logger.Logger
}

func NewTokenStore(kv storage.KV, logg *logger.Logger) *TokenStore {
	return &TokenStore{kv: kv, logg: logg}
}

// Token returns the stored token or "". It satisfies backend.TokenSource.
func (t *TokenStore) Token(ctx context.Context) string {
	if t == nil || t.kv == nil {
		return ""
	}
	value, ok, err := t.kv.Get(ctx, storage.SlotAuthToken)
	if err != nil {
		t.logg.Error(ctx, "read auth token", err)
		return ""
	}
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

func (t *TokenStore) Save(ctx context.Context, token string) error {
	return t.kv.Set(ctx, storage.SlotAuthToken, token)
}

func (t *TokenStore) Clear(ctx context.Context) error {
	return t.kv.Delete(ctx, storage.SlotAuthToken)
}
