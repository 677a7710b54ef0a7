package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/innovativehub/storefront/pkg/logger"
)

// ListSlot persists a JSON array under one key. Reads never fail: a missing,
// unreadable or corrupted slot loads as empty, and corrupted content is
// removed so the next write starts clean.
type ListSlot[T any] struct {
	kv   KV
	key  string
	logg *logger.Logger
}

func NewListSlot[T any](kv KV, key string, logg *logger.Logger) *ListSlot[T] {
	return &ListSlot[T]{kv: kv, key: key, logg: logg}
}

// Key returns the slot name.
func (s *ListSlot[T]) Key() string { return s.key }

// Load returns the stored items, or an empty slice.
func (s *ListSlot[T]) Load(ctx context.Context) []T {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "slot", s.key), "slot read failed", err)
		return []T{}
	}
	if !ok {
		return []T{}
	}

	trimmed := bytes.TrimSpace([]byte(raw))
	if bytes.Equal(trimmed, []byte("null")) {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		s.discard(ctx, err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// Save overwrites the slot with items.
func (s *ListSlot[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", s.key, err)
	}
	return s.kv.Set(ctx, s.key, string(payload))
}

// Clear removes the slot.
func (s *ListSlot[T]) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, s.key)
}

func (s *ListSlot[T]) discard(ctx context.Context, cause error) {
	ctx = s.logg.WithField(ctx, "slot", s.key)
	s.logg.Warn(ctx, fmt.Sprintf("discarding corrupted slot: %v", cause))
	if err := s.kv.Delete(ctx, s.key); err != nil {
		s.logg.Error(ctx, "failed to delete corrupted slot", err)
	}
}

// ValueSlot persists a single JSON value under one key. Like ListSlot, reads
// never fail and corrupted content is removed.
type ValueSlot[T any] struct {
	kv    KV
	key   string
	logg  *logger.Logger
	valid func(T) bool
}

// NewValueSlot builds a slot. valid, when set, rejects decoded values that
// are structurally incomplete; they are treated as corrupted.
func NewValueSlot[T any](kv KV, key string, logg *logger.Logger, valid func(T) bool) *ValueSlot[T] {
	return &ValueSlot[T]{kv: kv, key: key, logg: logg, valid: valid}
}

// Key returns the slot name.
func (s *ValueSlot[T]) Key() string { return s.key }

// Load returns the stored value and whether one was present.
func (s *ValueSlot[T]) Load(ctx context.Context) (T, bool) {
	var zero T
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "slot", s.key), "slot read failed", err)
		return zero, false
	}
	if !ok {
		return zero, false
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		s.discard(ctx, err)
		return zero, false
	}
	if s.valid != nil && !s.valid(value) {
		s.discard(ctx, fmt.Errorf("incomplete value"))
		return zero, false
	}
	return value, true
}

// Save overwrites the slot with value.
func (s *ValueSlot[T]) Save(ctx context.Context, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", s.key, err)
	}
	return s.kv.Set(ctx, s.key, string(payload))
}

// Clear removes the slot.
func (s *ValueSlot[T]) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, s.key)
}

func (s *ValueSlot[T]) discard(ctx context.Context, cause error) {
	ctx = s.logg.WithField(ctx, "slot", s.key)
	s.logg.Warn(ctx, fmt.Sprintf("discarding corrupted slot: %v", cause))
	if err := s.kv.Delete(ctx, s.key); err != nil {
		s.logg.Error(ctx, "failed to delete corrupted slot", err)
	}
}
