package checkout

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/innovativehub/storefront/pkg/enums"
	"github.com/innovativehub/storefront/pkg/pricing"
	"github.com/innovativehub/storefront/pkg/types"
)

// Source says where checkout lines came from.
type Source string

const (
	SourceBuyNow Source = "buy_now"
	SourceCart   Source = "cart"
)

// OutcomeStatus is how the payment widget closed.
type OutcomeStatus string

const (
	OutcomeSucceeded OutcomeStatus = "succeeded"
	OutcomeDismissed OutcomeStatus = "dismissed"
	OutcomeFailed    OutcomeStatus = "failed"
)

// Request carries the shopper's checkout choices.
type Request struct {
	AddressID            string               `json:"addressId"`
	DeliveryMethod       enums.DeliveryMethod `json:"deliveryMethod"`
	DeliveryAgreement    bool                 `json:"deliveryAgreement"`
	DeliveryMobileNumber string               `json:"deliveryMobileNumber"`
}

// Line is one priced checkout line.
type Line struct {
	Product   types.Product   `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Quote is the full price view of a checkout before payment.
type Quote struct {
	Source                Source               `json:"source"`
	Lines                 []Line               `json:"lines"`
	TotalItems            int                  `json:"totalItems"`
	Breakdown             pricing.Breakdown    `json:"breakdown"`
	State                 string               `json:"state,omitempty"`
	DefaultShippingCharge decimal.Decimal      `json:"defaultShippingCharge"`
	ManualBaseCharge      decimal.Decimal      `json:"manualBaseCharge"`
	DeliveryMethod        enums.DeliveryMethod `json:"deliveryMethod"`
	ShippingCharge        decimal.Decimal      `json:"shippingCharge"`
	TotalWithShipping     decimal.Decimal      `json:"totalWithShipping"`
	RedirectToContact     bool                 `json:"redirectToContact"`
}

// WidgetConfig is what the payment widget is opened with.
type WidgetConfig struct {
	Key         string          `json:"key"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	OrderID     string          `json:"order_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
}

// Pending is a created checkout waiting for the widget's outcome.
type Pending struct {
	ID             string          `json:"pendingId"`
	Widget         WidgetConfig    `json:"widget"`
	Quote          Quote           `json:"quote"`
	DeliveryCharge decimal.Decimal `json:"deliveryCharge"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	ExpiresAt      time.Time       `json:"expiresAt"`
}

// Outcome is reported back once the widget closes.
type Outcome struct {
	Status OutcomeStatus
	Proof  types.PaymentProof
	Reason string
}

// OrderSummary is stashed after a verified payment for the success screen.
type OrderSummary struct {
	OrderID           string               `json:"orderId,omitempty"`
	Subtotal          decimal.Decimal      `json:"subtotal"`
	GSTAmount         decimal.Decimal      `json:"gstAmount"`
	Shipping          decimal.Decimal      `json:"shipping"`
	Total             decimal.Decimal      `json:"total"`
	DeliveryMethod    enums.DeliveryMethod `json:"deliveryMethod"`
	RedirectToContact bool                 `json:"redirectToContact"`
	PlacedAt          time.Time            `json:"placedAt"`
}

// Result is the resolution of a pending checkout.
type Result struct {
	Status  OutcomeStatus `json:"status"`
	Summary *OrderSummary `json:"summary,omitempty"`
}
