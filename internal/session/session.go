// Package session assembles the per-browsing-session container: auth, the
// cart and wishlist stores, catalog entry points, checkout, the address book
// and order tracking, all sharing one backend client and one set of slots.
package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/innovativehub/storefront/internal/address"
	"github.com/innovativehub/storefront/internal/auth"
	"github.com/innovativehub/storefront/internal/backend"
	"github.com/innovativehub/storefront/internal/cart"
	"github.com/innovativehub/storefront/internal/catalog"
	"github.com/innovativehub/storefront/internal/checkout"
	"github.com/innovativehub/storefront/internal/orders"
	"github.com/innovativehub/storefront/internal/storage"
	"github.com/innovativehub/storefront/internal/wishlist"
	"github.com/innovativehub/storefront/pkg/config"
	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/innovativehub/storefront/pkg/metrics"
	"github.com/innovativehub/storefront/pkg/types"
)

// Deps are shared by every session the gateway hosts.
type Deps struct {
	Backend *backend.Client
	// Durable holds guest cart, guest wishlist and the auth token. Keys are
	// scoped per session.
	Durable storage.KV
	// Ephemeral returns the short-lived slots for one session.
	Ephemeral func(sessionID string) storage.KV
	Checkout  config.CheckoutConfig
	Logger    *logger.Logger
	Metrics   *metrics.Metrics
	Now       func() time.Time

	// Evicted, when set, runs for each session Sweep drops.
	Evicted func(ctx context.Context, sessionID string)
}

func (d Deps) validate() error {
	if d.Backend == nil {
		return fmt.Errorf("backend client is required")
	}
	if d.Durable == nil {
		return fmt.Errorf("durable slot store is required")
	}
	if d.Ephemeral == nil {
		return fmt.Errorf("ephemeral slot factory is required")
	}
	return nil
}

// Session is everything one shopper's browsing session owns.
type Session struct {
	ID        string
	Auth      *auth.Session
	Cart      *cart.Store
	Wishlist  *wishlist.Store
	Catalog   *catalog.Service
	Checkout  *checkout.Orchestrator
	Addresses address.Service
	Orders    orders.Service

	client        *backend.Client
	guestCart     *storage.ListSlot[types.CartItem]
	guestWishlist *storage.ListSlot[types.Product]
	logg          *logger.Logger
	metrics       *metrics.Metrics
}

// New builds a session and restores its sign-in from the persisted token.
// Stores start in guest mode and switch to the server once restore
// succeeds.
func New(ctx context.Context, id string, deps Deps) (*Session, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	logg := deps.Logger
	durable := storage.Prefixed(deps.Durable, id)
	ephemeral := deps.Ephemeral(id)

	tokens := auth.NewTokenStore(durable, logg)
	client := deps.Backend.ForSession(tokens)

	authSession, err := auth.NewSession(auth.SessionParams{
		Backend: client,
		Tokens:  tokens,
		Logger:  logg,
		Now:     deps.Now,
	})
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:            id,
		Auth:          authSession,
		client:        client,
		guestCart:     storage.NewListSlot[types.CartItem](durable, storage.SlotGuestCart, logg),
		guestWishlist: storage.NewListSlot[types.Product](durable, storage.SlotGuestWishlist, logg),
		logg:          logg,
		metrics:       deps.Metrics,
	}
	s.Cart = cart.NewStore(cart.NewGuestBackend(s.guestCart), logg, deps.Metrics)
	s.Wishlist = wishlist.NewStore(wishlist.NewGuestBackend(s.guestWishlist), logg, deps.Metrics)

	buyNow := catalog.NewBuyNowSlot(ephemeral, logg)
	s.Catalog, err = catalog.NewService(catalog.ServiceParams{
		Products: client,
		BuyNow:   buyNow,
		Cart:     s.Cart,
		Logger:   logg,
	})
	if err != nil {
		return nil, err
	}
	s.Checkout, err = checkout.NewOrchestrator(checkout.Params{
		Payments: client,
		Cart:     s.Cart,
		Users:    authSession,
		BuyNow:   buyNow,
		Summary:  checkout.NewSummarySlot(ephemeral, logg),
		Config:   deps.Checkout,
		Logger:   logg,
		Metrics:  deps.Metrics,
		Now:      deps.Now,
	})
	if err != nil {
		return nil, err
	}
	s.Addresses, err = address.NewService(client, authSession, logg)
	if err != nil {
		return nil, err
	}
	s.Orders, err = orders.NewService(client, authSession, logg)
	if err != nil {
		return nil, err
	}

	ctx = logg.WithSessionID(ctx, id)
	authSession.Subscribe(s.onAuthChange)
	if !authSession.Restore(ctx) {
		s.Cart.Load(ctx)
		s.Wishlist.Load(ctx)
	}
	return s, nil
}

// onAuthChange moves both stores to the backend matching the new auth
// state. Signing in first pushes guest items to the server so the
// authenticated load sees them.
func (s *Session) onAuthChange(ctx context.Context, authenticated bool) {
	if !authenticated {
		s.switchStores(ctx, cart.NewGuestBackend(s.guestCart), wishlist.NewGuestBackend(s.guestWishlist))
		return
	}
	if err := s.migrateGuest(ctx); err != nil {
		s.logg.Error(ctx, "guest items not fully migrated", err)
	}
	s.switchStores(ctx, cart.NewRemoteBackend(s.client), wishlist.NewRemoteBackend(s.client))
}

func (s *Session) migrateGuest(ctx context.Context) error {
	var errs error
	movedCart, err := cart.MigrateGuest(ctx, s.guestCart, s.client, s.metrics)
	errs = multierr.Append(errs, err)
	movedWishlist, err := wishlist.MigrateGuest(ctx, s.guestWishlist, s.client, s.metrics)
	errs = multierr.Append(errs, err)
	if movedCart+movedWishlist > 0 {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"cart_items":     movedCart,
			"wishlist_items": movedWishlist,
		}), "guest items migrated")
	}
	return errs
}

func (s *Session) switchStores(ctx context.Context, cartBackend cart.Backend, wishlistBackend wishlist.Backend) {
	var g errgroup.Group
	g.Go(func() error {
		s.Cart.SwitchMode(ctx, cartBackend)
		return nil
	})
	g.Go(func() error {
		s.Wishlist.SwitchMode(ctx, wishlistBackend)
		return nil
	})
	_ = g.Wait()
}
