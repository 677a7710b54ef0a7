package types

import (
	"github.com/innovativehub/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// Product is a catalog item as the storefront sees it. The JSON shape is the
// one persisted in guest slots.
type Product struct {
	ID               string            `json:"_id"`
	Name             string            `json:"name"`
	ShortDescription string            `json:"shortDescription"`
	LongDescription  string            `json:"longDescription"`
	Price            decimal.Decimal   `json:"price"`
	MRP              decimal.Decimal   `json:"mrp"`
	GSTMode          enums.GSTMode     `json:"gstMode"`
	GSTPercentage    decimal.Decimal   `json:"gstPercentage"`
	Category         string            `json:"category"`
	Subcategory      string            `json:"subcategory"`
	Images           []string          `json:"images"`
	Stock            int               `json:"stock"`
	SKU              string            `json:"sku"`
	Features         []string          `json:"features"`
	Specifications   map[string]string `json:"specifications"`
	Datasheet        string            `json:"datasheet,omitempty"`
	CreatedAt        string            `json:"createdAt"`
	UpdatedAt        string            `json:"updatedAt"`
}

// PrimaryImage returns the first image or "".
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// InStock reports whether any units are available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// ExceedsStock reports whether qty is more than the known stock. A product
// with zero stock never exceeds it here; availability is a separate check.
func (p Product) ExceedsStock(qty int) bool {
	return p.Stock > 0 && qty > p.Stock
}

// CartItem is one cart line.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal is price × quantity, unrounded.
func (c CartItem) LineTotal() decimal.Decimal {
	return c.Product.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// ProductQuery filters a catalog listing.
type ProductQuery struct {
	Category string
	Search   string
}
