package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/innovativehub/storefront/pkg/types"
)

type wishlistMutation struct {
	ProductID string `json:"productId"`
}

// GetWishlist returns the server-side wishlist. The backend answers with a
// bare product list or with {products: [...]}.
func (c *Client) GetWishlist(ctx context.Context) ([]types.Product, error) {
	var raw json.RawMessage
	if err := c.call(ctx, request{op: "wishlist.get", method: http.MethodGet, path: "/api/wishlist"}, &raw); err != nil {
		return nil, err
	}

	var items rawList
	if isObject(raw) {
		var wrapped struct {
			Products rawList `json:"products"`
		}
		if err := json.Unmarshal(raw, &wrapped); err == nil {
			items = wrapped.Products
		}
	} else if err := json.Unmarshal(raw, &items); err != nil {
		items = nil
	}
	return decodeProducts(items), nil
}

// AddToWishlist only acknowledges; callers apply the delta locally.
func (c *Client) AddToWishlist(ctx context.Context, productID string) error {
	id, err := requireID(productID)
	if err != nil {
		return err
	}
	return c.call(ctx, request{
		op:     "wishlist.add",
		method: http.MethodPost,
		path:   "/api/wishlist/add",
		body:   wishlistMutation{ProductID: id},
	}, nil)
}

// RemoveFromWishlist only acknowledges; callers apply the delta locally.
func (c *Client) RemoveFromWishlist(ctx context.Context, productID string) error {
	id, err := requireID(productID)
	if err != nil {
		return err
	}
	return c.call(ctx, request{
		op:     "wishlist.remove",
		method: http.MethodDelete,
		path:   "/api/wishlist/remove/" + url.PathEscape(id),
	}, nil)
}
