// Package wishlist is the per-session wishlist store.
//
// Adds in authenticated mode wait for the server before the local list
// changes. Removes always apply locally, whatever the server says.
package wishlist

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/multierr"

	"github.com/innovativehub/storefront/internal/storage"
	"github.com/innovativehub/storefront/pkg/enums"
	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/innovativehub/storefront/pkg/metrics"
	"github.com/innovativehub/storefront/pkg/types"
)

const storeName = "wishlist"

type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusLoading       Status = "loading"
	StatusReady         Status = "ready"
)

type Snapshot struct {
	Items      []types.Product   `json:"items"`
	TotalItems int               `json:"totalItems"`
	Status     Status            `json:"status"`
	Mode       enums.SessionMode `json:"mode"`
}

type Store struct {
	opMu sync.Mutex

	mu      sync.RWMutex
	items   []types.Product
	status  Status
	backend Backend

	logg    *logger.Logger
	metrics *metrics.Metrics
}

func NewStore(backend Backend, logg *logger.Logger, m *metrics.Metrics) *Store {
	return &Store{
		items:   []types.Product{},
		status:  StatusUninitialized,
		backend: backend,
		logg:    logg,
		metrics: m,
	}
}

func (s *Store) SwitchMode(ctx context.Context, backend Backend) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	s.backend = backend
	s.mu.Unlock()
	s.load(ctx)
}

func (s *Store) Load(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.load(ctx)
}

func (s *Store) load(ctx context.Context) {
	s.mu.Lock()
	s.status = StatusLoading
	backend := s.backend
	s.mu.Unlock()

	items, err := backend.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusReady
	if err != nil {
		s.syncFailed(ctx, "load", "", err)
		return
	}
	s.items = dedupe(items)
}

// Add is a no-op when the product is already listed.
func (s *Store) Add(ctx context.Context, product types.Product) error {
	if strings.TrimSpace(product.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.RLock()
	backend := s.backend
	if indexOf(s.items, product.ID) >= 0 {
		s.mu.RUnlock()
		return nil
	}
	next := append(cloneProducts(s.items), product)
	s.mu.RUnlock()

	if err := backend.Add(ctx, product, next); err != nil {
		s.syncFailed(ctx, "add", product.ID, err)
		return err
	}

	s.mu.Lock()
	s.items = next
	s.mu.Unlock()
	return nil
}

// Remove drops productID locally and then tells the backend. Backend
// failures are logged, not returned.
func (s *Store) Remove(ctx context.Context, productID string) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	backend := s.backend
	next := without(s.items, productID)
	s.items = next
	s.mu.Unlock()

	if err := backend.Remove(ctx, productID, cloneProducts(next)); err != nil {
		s.syncFailed(ctx, "remove", productID, err)
	}
}

// Clear empties the local list.
func (s *Store) Clear(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	backend := s.backend
	s.items = []types.Product{}
	s.mu.Unlock()

	if err := backend.Clear(ctx); err != nil {
		s.syncFailed(ctx, "clear", "", err)
	}
}

func (s *Store) Contains(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.items, productID) >= 0
}

func (s *Store) Items() []types.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProducts(s.items)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mode := enums.SessionModeGuest
	if s.backend != nil {
		mode = s.backend.Mode()
	}
	return Snapshot{
		Items:      cloneProducts(s.items),
		TotalItems: len(s.items),
		Status:     s.status,
		Mode:       mode,
	}
}

func (s *Store) syncFailed(ctx context.Context, op, productID string, err error) {
	fields := map[string]any{"store": storeName, "op": op}
	if productID != "" {
		fields["product_id"] = productID
	}
	s.logg.Error(s.logg.WithFields(ctx, fields), "wishlist sync failed", err)
	s.metrics.SyncFailure(storeName, op)
}

// MigrateGuest pushes guest wishlist entries to the server, removing each
// one from the guest slot once it lands.
func MigrateGuest(ctx context.Context, slot *storage.ListSlot[types.Product], remote RemoteWishlist, m *metrics.Metrics) (int, error) {
	pending := slot.Load(ctx)
	if len(pending) == 0 {
		return 0, nil
	}

	var errs error
	moved := 0
	for _, product := range pending {
		if product.ID == "" {
			pending = without(pending, "")
			continue
		}
		if err := remote.AddToWishlist(ctx, product.ID); err != nil {
			m.MigratedItem(storeName, false)
			errs = multierr.Append(errs, fmt.Errorf("wishlist item %s: %w", product.ID, err))
			continue
		}
		m.MigratedItem(storeName, true)
		moved++
		pending = without(pending, product.ID)
		if err := slot.Save(ctx, pending); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("update guest wishlist: %w", err))
		}
	}

	if len(pending) == 0 {
		if err := slot.Clear(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("clear guest wishlist: %w", err))
		}
	}
	return moved, errs
}

func indexOf(items []types.Product, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func without(items []types.Product, id string) []types.Product {
	out := make([]types.Product, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

func dedupe(items []types.Product) []types.Product {
	out := make([]types.Product, 0, len(items))
	for _, item := range items {
		if item.ID == "" || indexOf(out, item.ID) >= 0 {
			continue
		}
		out = append(out, item)
	}
	return out
}

func cloneProducts(items []types.Product) []types.Product {
	out := make([]types.Product, len(items))
	copy(out, items)
	return out
}
