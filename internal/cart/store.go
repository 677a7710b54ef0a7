// Package cart is the per-session cart store. It holds the authoritative
// in-memory cart and delegates persistence to a Backend chosen by the
// session's authentication mode.
package cart

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/innovativehub/storefront/pkg/enums"
	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/innovativehub/storefront/pkg/metrics"
	"github.com/innovativehub/storefront/pkg/types"
)

const storeName = "cart"

// Snapshot is a consistent copy of the store.
type Snapshot struct {
	Items      []types.CartItem  `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
	Status     Status            `json:"status"`
	Mode       enums.SessionMode `json:"mode"`
}

// Store is a single-writer cart. Mutations and loads are serialized; reads
// never wait on a backend call.
type Store struct {
	opMu sync.Mutex

	mu      sync.RWMutex
	items   []types.CartItem
	status  Status
	backend Backend

	logg    *logger.Logger
	metrics *metrics.Metrics
}

func NewStore(backend Backend, logg *logger.Logger, m *metrics.Metrics) *Store {
	return &Store{
		items:   []types.CartItem{},
		status:  StatusUninitialized,
		backend: backend,
		logg:    logg,
		metrics: m,
	}
}

// SwitchMode installs backend and reloads from it.
func (s *Store) SwitchMode(ctx context.Context, backend Backend) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	s.backend = backend
	s.mu.Unlock()
	s.load(ctx)
}

// Load re-reads the cart from the active backend.
func (s *Store) Load(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.load(ctx)
}

// load must run under opMu. A failed load keeps the current items.
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
	s.items = normalizeItems(items)
}

// Add puts one unit of product in the cart.
func (s *Store) Add(ctx context.Context, product types.Product) error {
	if strings.TrimSpace(product.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.mutate(ctx, "add", product.ID, func(b Backend, current []types.CartItem) ([]types.CartItem, error) {
		return b.Add(ctx, current, product)
	})
}

func (s *Store) Remove(ctx context.Context, productID string) error {
	return s.mutate(ctx, "remove", productID, func(b Backend, current []types.CartItem) ([]types.CartItem, error) {
		return b.Remove(ctx, current, productID)
	})
}

// UpdateQuantity sets an exact quantity. qty <= 0 removes the item.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return s.Remove(ctx, productID)
	}
	return s.mutate(ctx, "update_quantity", productID, func(b Backend, current []types.CartItem) ([]types.CartItem, error) {
		return b.SetQuantity(ctx, current, productID, qty)
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, "clear", "", func(b Backend, current []types.CartItem) ([]types.CartItem, error) {
		return b.Clear(ctx, current)
	})
}

// Contains reports whether productID is in the cart.
func (s *Store) Contains(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return containsItem(s.items, productID)
}

// Item returns the cart line for productID.
func (s *Store) Item(productID string) (types.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findItem(s.items, productID)
}

func (s *Store) Items() []types.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count, price := totals(s.items)
	mode := enums.SessionModeGuest
	if s.backend != nil {
		mode = s.backend.Mode()
	}
	return Snapshot{
		Items:      cloneItems(s.items),
		TotalItems: count,
		TotalPrice: price,
		Status:     s.status,
		Mode:       mode,
	}
}

// mutate applies op through the active backend. On failure the in-memory
// cart is left exactly as it was.
func (s *Store) mutate(ctx context.Context, op, productID string, apply func(Backend, []types.CartItem) ([]types.CartItem, error)) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.RLock()
	backend := s.backend
	current := cloneItems(s.items)
	s.mu.RUnlock()

	next, err := apply(backend, current)
	if err != nil {
		s.syncFailed(ctx, op, productID, err)
	}
	if next == nil {
		return err
	}

	s.mu.Lock()
	s.items = normalizeItems(next)
	s.mu.Unlock()
	return err
}

func (s *Store) syncFailed(ctx context.Context, op, productID string, err error) {
	fields := map[string]any{"store": storeName, "op": op}
	if productID != "" {
		fields["product_id"] = productID
	}
	s.logg.Error(s.logg.WithFields(ctx, fields), "cart sync failed", err)
	s.metrics.SyncFailure(storeName, op)
}

// normalizeItems enforces one line per product id with a positive quantity.
func normalizeItems(items []types.CartItem) []types.CartItem {
	out := make([]types.CartItem, 0, len(items))
	for _, item := range items {
		if item.Product.ID == "" || item.Quantity <= 0 {
			continue
		}
		if containsItem(out, item.Product.ID) {
			out = addItem(out, item.Product, item.Quantity)
			continue
		}
		out = append(out, item)
	}
	return out
}
