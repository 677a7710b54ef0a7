package wishlist

import (
	"context"

	"github.com/innovativehub/storefront/internal/storage"
	"github.com/innovativehub/storefront/pkg/enums"
	"github.com/innovativehub/storefront/pkg/types"
)

// Backend persists wishlist deltas. Unlike the cart, the store computes the
// next list itself; the backend only records it.
type Backend interface {
	Mode() enums.SessionMode
	Load(ctx context.Context) ([]types.Product, error)
	Add(ctx context.Context, product types.Product, next []types.Product) error
	Remove(ctx context.Context, productID string, next []types.Product) error
	Clear(ctx context.Context) error
}

// RemoteWishlist is the slice of the backend client the server-backed
// wishlist needs.
type RemoteWishlist interface {
	GetWishlist(ctx context.Context) ([]types.Product, error)
	AddToWishlist(ctx context.Context, productID string) error
	RemoveFromWishlist(ctx context.Context, productID string) error
}

type GuestBackend struct {
	slot *storage.ListSlot[types.Product]
}

func NewGuestBackend(slot *storage.ListSlot[types.Product]) *GuestBackend {
	return &GuestBackend{slot: slot}
}

func (g *GuestBackend) Mode() enums.SessionMode { return enums.SessionModeGuest }

func (g *GuestBackend) Load(ctx context.Context) ([]types.Product, error) {
	return g.slot.Load(ctx), nil
}

func (g *GuestBackend) Add(ctx context.Context, _ types.Product, next []types.Product) error {
	return g.slot.Save(ctx, next)
}

func (g *GuestBackend) Remove(ctx context.Context, _ string, next []types.Product) error {
	return g.slot.Save(ctx, next)
}

func (g *GuestBackend) Clear(ctx context.Context) error {
	return g.slot.Save(ctx, []types.Product{})
}

type RemoteBackend struct {
	client RemoteWishlist
}

func NewRemoteBackend(client RemoteWishlist) *RemoteBackend {
	return &RemoteBackend{client: client}
}

func (r *RemoteBackend) Mode() enums.SessionMode { return enums.SessionModeAuthenticated }

func (r *RemoteBackend) Load(ctx context.Context) ([]types.Product, error) {
	return r.client.GetWishlist(ctx)
}

func (r *RemoteBackend) Add(ctx context.Context, product types.Product, _ []types.Product) error {
	return r.client.AddToWishlist(ctx, product.ID)
}

func (r *RemoteBackend) Remove(ctx context.Context, productID string, _ []types.Product) error {
	return r.client.RemoveFromWishlist(ctx, productID)
}

// Clear has no server endpoint; the server list is left untouched.
func (r *RemoteBackend) Clear(context.Context) error { return nil }
