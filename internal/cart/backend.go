package cart

import (
	"context"

	"github.com/innovativehub/storefront/internal/storage"
	"github.com/innovativehub/storefront/pkg/enums"
	"github.com/innovativehub/storefront/pkg/types"
)

// Backend is where a cart lives. The store picks one per authentication
// mode and delegates every operation to it; each method returns the cart
// that becomes the new in-memory state. A non-nil cart returned with an
// error is still applied.
type Backend interface {
	Mode() enums.SessionMode
	Load(ctx context.Context) ([]types.CartItem, error)
	Add(ctx context.Context, current []types.CartItem, product types.Product) ([]types.CartItem, error)
	Remove(ctx context.Context, current []types.CartItem, productID string) ([]types.CartItem, error)
	SetQuantity(ctx context.Context, current []types.CartItem, productID string, qty int) ([]types.CartItem, error)
	Clear(ctx context.Context, current []types.CartItem) ([]types.CartItem, error)
}

// RemoteCart is the slice of the backend client the server-backed cart needs.
type RemoteCart interface {
	GetCart(ctx context.Context) ([]types.CartItem, error)
	AddToCart(ctx context.Context, productID string, quantity int) ([]types.CartItem, error)
	RemoveFromCart(ctx context.Context, productID string) ([]types.CartItem, error)
	ClearCart(ctx context.Context) ([]types.CartItem, error)
}

// GuestBackend keeps the cart in the durable guest slot and applies the
// reducer locally.
type GuestBackend struct {
	slot *storage.ListSlot[types.CartItem]
}

func NewGuestBackend(slot *storage.ListSlot[types.CartItem]) *GuestBackend {
	return &GuestBackend{slot: slot}
}

func (g *GuestBackend) Mode() enums.SessionMode { return enums.SessionModeGuest }

func (g *GuestBackend) Load(ctx context.Context) ([]types.CartItem, error) {
	return g.slot.Load(ctx), nil
}

func (g *GuestBackend) Add(ctx context.Context, current []types.CartItem, product types.Product) ([]types.CartItem, error) {
	return g.persist(ctx, addItem(current, product, 1))
}

func (g *GuestBackend) Remove(ctx context.Context, current []types.CartItem, productID string) ([]types.CartItem, error) {
	return g.persist(ctx, removeItem(current, productID))
}

func (g *GuestBackend) SetQuantity(ctx context.Context, current []types.CartItem, productID string, qty int) ([]types.CartItem, error) {
	return g.persist(ctx, setQuantity(current, productID, qty))
}

func (g *GuestBackend) Clear(ctx context.Context, _ []types.CartItem) ([]types.CartItem, error) {
	return g.persist(ctx, []types.CartItem{})
}

func (g *GuestBackend) persist(ctx context.Context, next []types.CartItem) ([]types.CartItem, error) {
	if err := g.slot.Save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// RemoteBackend treats the server as the source of truth: every mutation
// returns the full server cart, which replaces local state wholesale.
type RemoteBackend struct {
	client RemoteCart
}

func NewRemoteBackend(client RemoteCart) *RemoteBackend {
	return &RemoteBackend{client: client}
}

func (r *RemoteBackend) Mode() enums.SessionMode { return enums.SessionModeAuthenticated }

func (r *RemoteBackend) Load(ctx context.Context) ([]types.CartItem, error) {
	return r.client.GetCart(ctx)
}

func (r *RemoteBackend) Add(ctx context.Context, _ []types.CartItem, product types.Product) ([]types.CartItem, error) {
	return r.client.AddToCart(ctx, product.ID, 1)
}

func (r *RemoteBackend) Remove(ctx context.Context, _ []types.CartItem, productID string) ([]types.CartItem, error) {
	return r.client.RemoveFromCart(ctx, productID)
}

// SetQuantity is remove then add, since the backend has no set endpoint.
// When the add fails the server cart after the remove comes back with the
// error, as that is what the server now holds.
func (r *RemoteBackend) SetQuantity(ctx context.Context, _ []types.CartItem, productID string, qty int) ([]types.CartItem, error) {
	removed, err := r.client.RemoveFromCart(ctx, productID)
	if err != nil {
		return nil, err
	}
	if qty <= 0 {
		return removed, nil
	}
	added, err := r.client.AddToCart(ctx, productID, qty)
	if err != nil {
		return removed, err
	}
	return added, nil
}

func (r *RemoteBackend) Clear(ctx context.Context, _ []types.CartItem) ([]types.CartItem, error) {
	return r.client.ClearCart(ctx)
}
