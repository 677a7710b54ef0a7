// Package catalog serves product reads and the buy-now entry points.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/innovativehub/storefront/internal/storage"
	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/innovativehub/storefront/pkg/types"
)

const (
	msgOutOfStock     = "This product is currently unavailable"
	msgNotEnoughStock = "Not enough stock. Please reduce the quantity"
)

type productClient interface {
	ListProducts(ctx context.Context, q types.ProductQuery) ([]types.Product, error)
	GetProduct(ctx context.Context, id string) (types.Product, error)
}

type cartAdder interface {
	Add(ctx context.Context, product types.Product) error
}

// NewBuyNowSlot builds the ephemeral slot holding the pending buy-now line.
func NewBuyNowSlot(kv storage.KV, logg *logger.Logger) *storage.ValueSlot[types.CartItem] {
	return storage.NewValueSlot(kv, storage.SlotBuyNowItem, logg, func(item types.CartItem) bool {
		return item.Product.ID != "" && item.Quantity > 0
	})
}

// ServiceParams bundles the dependencies of a Service.
type ServiceParams struct {
	Products productClient
	BuyNow   *storage.ValueSlot[types.CartItem]
	Cart     cartAdder
	Logger   *logger.Logger
}

type Service struct {
	products productClient
	buyNow   *storage.ValueSlot[types.CartItem]
	cart     cartAdder
	logg     *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Products == nil {
		return nil, fmt.Errorf("product client is required")
	}
	if params.BuyNow == nil {
		return nil, fmt.Errorf("buy-now slot is required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart is required")
	}
	return &Service{
		products: params.Products,
		buyNow:   params.BuyNow,
		cart:     params.Cart,
		logg:     params.Logger,
	}, nil
}

func (s *Service) List(ctx context.Context, q types.ProductQuery) ([]types.Product, error) {
	return s.products.ListProducts(ctx, q)
}

func (s *Service) Get(ctx context.Context, id string) (types.Product, error) {
	return s.products.GetProduct(ctx, id)
}

// BuyNow stages qty units of productID as the pending buy-now line, which
// takes precedence over the cart at checkout.
func (s *Service) BuyNow(ctx context.Context, productID string, qty int) (types.CartItem, error) {
	if qty <= 0 {
		return types.CartItem{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return types.CartItem{}, err
	}
	if !product.InStock() {
		return types.CartItem{}, pkgerrors.New(pkgerrors.CodeValidation, msgOutOfStock)
	}
	if product.ExceedsStock(qty) {
		return types.CartItem{}, pkgerrors.New(pkgerrors.CodeValidation, msgNotEnoughStock)
	}
	return s.stage(ctx, types.CartItem{Product: product, Quantity: qty})
}

// ContactUs3D stages one unit of the contact-us 3D printing product.
func (s *Service) ContactUs3D(ctx context.Context) (types.CartItem, error) {
	product, err := s.products.GetProduct(ctx, ContactUs3DSKU)
	if err != nil {
		return types.CartItem{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Could not open checkout. Try again")
	}
	return s.stage(ctx, types.CartItem{Product: product, Quantity: 1})
}

// PendingBuyNow returns the staged line, if any.
func (s *Service) PendingBuyNow(ctx context.Context) (types.CartItem, bool) {
	return s.buyNow.Load(ctx)
}

// ClearBuyNow drops the staged line, e.g. when the shopper goes back to the
// cart.
func (s *Service) ClearBuyNow(ctx context.Context) error {
	if err := s.buyNow.Clear(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear buy-now item")
	}
	return nil
}

// AddToCart adds qty units one at a time after checking stock.
func (s *Service) AddToCart(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if strings.TrimSpace(productID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !product.InStock() {
		return pkgerrors.New(pkgerrors.CodeValidation, msgOutOfStock)
	}
	if product.ExceedsStock(qty) {
		return pkgerrors.New(pkgerrors.CodeValidation, msgNotEnoughStock)
	}
	for i := 0; i < qty; i++ {
		if err := s.cart.Add(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) stage(ctx context.Context, item types.CartItem) (types.CartItem, error) {
	if err := s.buyNow.Save(ctx, item); err != nil {
		return types.CartItem{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stage buy-now item")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"product_id": item.Product.ID, "qty": item.Quantity}), "buy-now item staged")
	return item, nil
}
