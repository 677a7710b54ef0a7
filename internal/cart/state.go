package cart

import (
	"github.com/shopspring/decimal"

	"github.com/innovativehub/storefront/pkg/types"
)

// Status is the load state of a store.
type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusLoading       Status = "loading"
	StatusReady         Status = "ready"
)

// The functions below are the cart reducer. They never modify their input
// and always return a fresh slice.

func addItem(items []types.CartItem, product types.Product, qty int) []types.CartItem {
	next := cloneItems(items)
	for i := range next {
		if next[i].Product.ID == product.ID {
			next[i].Quantity += qty
			return next
		}
	}
	return append(next, types.CartItem{Product: product, Quantity: qty})
}

func removeItem(items []types.CartItem, productID string) []types.CartItem {
	next := make([]types.CartItem, 0, len(items))
	for _, item := range items {
		if item.Product.ID != productID {
			next = append(next, item)
		}
	}
	return next
}

func setQuantity(items []types.CartItem, productID string, qty int) []types.CartItem {
	if qty <= 0 {
		return removeItem(items, productID)
	}
	next := cloneItems(items)
	for i := range next {
		if next[i].Product.ID == productID {
			next[i].Quantity = qty
		}
	}
	return next
}

func containsItem(items []types.CartItem, productID string) bool {
	for _, item := range items {
		if item.Product.ID == productID {
			return true
		}
	}
	return false
}

func findItem(items []types.CartItem, productID string) (types.CartItem, bool) {
	for _, item := range items {
		if item.Product.ID == productID {
			return item, true
		}
	}
	return types.CartItem{}, false
}

// totals derives item count and price from items. Nothing else stores them.
func totals(items []types.CartItem) (int, decimal.Decimal) {
	count := 0
	price := decimal.Zero
	for _, item := range items {
		count += item.Quantity
		price = price.Add(item.LineTotal())
	}
	return count, price
}

func cloneItems(items []types.CartItem) []types.CartItem {
	out := make([]types.CartItem, len(items))
	copy(out, items)
	return out
}
