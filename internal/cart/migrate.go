package cart

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/innovativehub/storefront/internal/storage"
	"github.com/innovativehub/storefront/pkg/metrics"
	"github.com/innovativehub/storefront/pkg/types"
)

// MigrateGuest pushes every guest cart line to the server cart. Each line
// that lands is removed from the guest slot straight away; lines that fail
// stay behind for the next sign-in. It returns how many lines moved.
func MigrateGuest(ctx context.Context, slot *storage.ListSlot[types.CartItem], remote RemoteCart, m *metrics.Metrics) (int, error) {
	pending := slot.Load(ctx)
	if len(pending) == 0 {
		return 0, nil
	}

	var errs error
	moved := 0
	for _, item := range pending {
		if item.Product.ID == "" || item.Quantity <= 0 {
			pending = removeItem(pending, item.Product.ID)
			continue
		}
		if _, err := remote.AddToCart(ctx, item.Product.ID, item.Quantity); err != nil {
			m.MigratedItem(storeName, false)
			errs = multierr.Append(errs, fmt.Errorf("cart item %s: %w", item.Product.ID, err))
			continue
		}
		m.MigratedItem(storeName, true)
		moved++
		pending = removeItem(pending, item.Product.ID)
		if err := slot.Save(ctx, pending); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("update guest cart: %w", err))
		}
	}

	if len(pending) == 0 {
		if err := slot.Clear(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("clear guest cart: %w", err))
		}
	}
	return moved, errs
}
