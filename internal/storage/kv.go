// Package storage is the local persistence adapter: named slots holding JSON
// values, backed by any string key/value store.
package storage

import (
	"context"
	"strings"
	"sync"
)

// Slot names. They match the keys browser clients have always used so a
// persisted guest cart keeps working.
const (
	SlotGuestCart        = "guestCart"
	SlotGuestWishlist    = "guestWishlist"
	SlotAuthToken        = "authToken"
	SlotBuyNowItem       = "buyNowItem"
	SlotLastOrderSummary = "lastOrderSummary"
)

// KV is a string key/value store. Get reports a missing key with ok=false
// and a nil error.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Prefixed scopes every key of kv under prefix.
func Prefixed(kv KV, prefix string) KV {
	return &prefixedKV{kv: kv, prefix: prefix}
}

type prefixedKV struct {
	kv     KV
	prefix string
}

func (p *prefixedKV) key(k string) string {
	if p.prefix == "" {
		return k
	}
	return PrefixOf(p.prefix) + k
}

func (p *prefixedKV) Get(ctx context.Context, key string) (string, bool, error) {
	return p.kv.Get(ctx, p.key(key))
}

func (p *prefixedKV) Set(ctx context.Context, key, value string) error {
	return p.kv.Set(ctx, p.key(key), value)
}

func (p *prefixedKV) Delete(ctx context.Context, key string) error {
	return p.kv.Delete(ctx, p.key(key))
}

// MemoryKV keeps slots in process memory. It backs session slots when no
// Redis is configured, and tests.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// DeletePrefix drops every key under prefix and reports how many went.
func (m *MemoryKV) DeletePrefix(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			delete(m.data, key)
			removed++
		}
	}
	return removed
}

// PrefixOf returns the key prefix Prefixed(kv, prefix) writes under.
func PrefixOf(prefix string) string {
	return prefix + ":"
}
