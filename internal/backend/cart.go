package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/types"
)

type rawCart struct {
	Products rawList `json:"products"`
}

type rawCartLine struct {
	Product  json.RawMessage `json:"product"`
	Quantity flexNumber      `json:"quantity"`
}

type cartMutation struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity,omitempty"`
}

// decodeCart turns the server cart into items. Lines without a product are
// dropped and a missing or non-positive quantity becomes 1.
func decodeCart(raw json.RawMessage) []types.CartItem {
	items := []types.CartItem{}
	if !isObject(raw) {
		return items
	}
	var cart rawCart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return items
	}
	for _, line := range cart.Products {
		var decoded rawCartLine
		if err := json.Unmarshal(line, &decoded); err != nil {
			continue
		}
		product, ok := decodeProduct(decoded.Product)
		if !ok {
			continue
		}
		qty := int(decoded.Quantity.decimal().IntPart())
		if qty <= 0 {
			qty = 1
		}
		items = append(items, types.CartItem{Product: product, Quantity: qty})
	}
	return items
}

func (c *Client) cartCall(ctx context.Context, req request) ([]types.CartItem, error) {
	var raw json.RawMessage
	if err := c.call(ctx, req, &raw); err != nil {
		return nil, err
	}
	return decodeCart(raw), nil
}

// GetCart returns the server-side cart.
func (c *Client) GetCart(ctx context.Context) ([]types.CartItem, error) {
	return c.cartCall(ctx, request{op: "cart.get", method: http.MethodGet, path: "/api/cart"})
}

// AddToCart adds quantity units and returns the full server cart.
func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) ([]types.CartItem, error) {
	id, err := requireID(productID)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		quantity = 1
	}
	return c.cartCall(ctx, request{
		op:     "cart.add",
		method: http.MethodPost,
		path:   "/api/cart/add",
		body:   cartMutation{ProductID: id, Quantity: quantity},
	})
}

// RemoveFromCart drops a product and returns the full server cart.
func (c *Client) RemoveFromCart(ctx context.Context, productID string) ([]types.CartItem, error) {
	id, err := requireID(productID)
	if err != nil {
		return nil, err
	}
	return c.cartCall(ctx, request{
		op:     "cart.remove",
		method: http.MethodPost,
		path:   "/api/cart/remove",
		body:   cartMutation{ProductID: id},
	})
}

// ClearCart empties the server cart and returns what remains.
func (c *Client) ClearCart(ctx context.Context) ([]types.CartItem, error) {
	return c.cartCall(ctx, request{op: "cart.clear", method: http.MethodPost, path: "/api/cart/clear"})
}

func requireID(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return trimmed, nil
}
