package types

import (
	"github.com/innovativehub/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// StateCharges are the delivery charges for an address state.
type StateCharges struct {
	State                 string          `json:"state"`
	DefaultShippingCharge decimal.Decimal `json:"defaultShippingCharge"`
	ManualBaseCharge      decimal.Decimal `json:"manualBaseCharge"`
}

type OrderLineRequest struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// PaymentOrderRequest is the body of the create phase. The verify phase
// resends it alongside the gateway proof.
type PaymentOrderRequest struct {
	Products             []OrderLineRequest   `json:"products"`
	Address              Address              `json:"address"`
	DeliveryMethod       enums.DeliveryMethod `json:"deliveryMethod"`
	DeliveryAgreement    *bool                `json:"deliveryAgreement,omitempty"`
	DeliveryMobileNumber string               `json:"deliveryMobileNumber,omitempty"`
}

// GatewayOrder is the handle the backend returns from the create phase.
// Amount is in the currency's minor unit.
type GatewayOrder struct {
	OrderID        string          `json:"orderId"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	KeyID          string          `json:"keyId"`
	DeliveryCharge decimal.Decimal `json:"deliveryCharge"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
}

// PaymentProof is what the payment widget hands back on success.
type PaymentProof struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

type VerifyPaymentRequest struct {
	PaymentProof
	PaymentOrderRequest
}

type VerifyResult struct {
	OrderID string `json:"orderId"`
}

// AuthResult is returned by login, register and Google sign-in.
type AuthResult struct {
	Token string
	User  User
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Mobile   string `json:"mobile,omitempty" validate:"omitempty,in_mobile"`
}
