package types

import (
	"github.com/innovativehub/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

type OrderLine struct {
	ProductID string          `json:"productId"`
	Qty       int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
	Name      string          `json:"name,omitempty"`
	Image     string          `json:"image,omitempty"`
}

// Order is created by the backend once a payment verifies.
type Order struct {
	ID              string              `json:"_id"`
	UserID          string              `json:"userId"`
	Products        []OrderLine         `json:"products"`
	Address         Address             `json:"address"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	DeliveryCharge  decimal.Decimal     `json:"deliveryCharge"`
	PaymentStatus   enums.PaymentStatus `json:"paymentStatus"`
	OrderStatus     enums.OrderStatus   `json:"orderStatus"`
	PaymentMethod   string              `json:"paymentMethod,omitempty"`
	TrackingLink    string              `json:"trackingLink,omitempty"`
	TrackingMessage string              `json:"trackingMessage,omitempty"`
	InvoiceURL      string              `json:"invoiceUrl,omitempty"`
	InvoiceNumber   string              `json:"invoiceNumber,omitempty"`
	CreatedAt       string              `json:"createdAt"`
}

// HasInvoice reports whether the backend already generated an invoice.
func (o Order) HasInvoice() bool {
	return o.InvoiceNumber != "" || o.InvoiceURL != ""
}

type Invoice struct {
	InvoiceNumber string `json:"invoiceNumber"`
	InvoiceURL    string `json:"invoiceUrl"`
}

// InvoiceDocument is the rendered invoice body.
type InvoiceDocument struct {
	ContentType string
	Body        []byte
}
