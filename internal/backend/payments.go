package backend

import (
	"context"
	"net/http"

	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/types"
)

type rawGatewayOrder struct {
	OrderID        flexString `json:"orderId"`
	Amount         flexNumber `json:"amount"`
	Currency       flexString `json:"currency"`
	KeyID          flexString `json:"keyId"`
	DeliveryCharge flexNumber `json:"deliveryCharge"`
	TotalAmount    flexNumber `json:"totalAmount"`
}

type failureReport struct {
	Reason string `json:"reason,omitempty"`
}

// CreatePaymentOrder runs the create phase and returns the gateway handle.
func (c *Client) CreatePaymentOrder(ctx context.Context, req types.PaymentOrderRequest) (types.GatewayOrder, error) {
	var raw rawGatewayOrder
	err := c.call(ctx, request{
		op:     "payments.create",
		method: http.MethodPost,
		path:   "/api/payments/razorpay/order",
		body:   req,
	}, &raw)
	if err != nil {
		return types.GatewayOrder{}, err
	}

	order := types.GatewayOrder{
		OrderID:        raw.OrderID.String(),
		Amount:         raw.Amount.decimal(),
		Currency:       raw.Currency.String(),
		KeyID:          raw.KeyID.String(),
		DeliveryCharge: raw.DeliveryCharge.decimal(),
		TotalAmount:    raw.TotalAmount.decimal(),
	}
	if order.OrderID == "" {
		return types.GatewayOrder{}, pkgerrors.New(pkgerrors.CodeDependency, "payment order response missing order id")
	}
	if order.Currency == "" {
		order.Currency = "INR"
	}
	return order, nil
}

// VerifyPayment sends the gateway proof with the original create payload.
func (c *Client) VerifyPayment(ctx context.Context, req types.VerifyPaymentRequest) (types.VerifyResult, error) {
	var raw struct {
		OrderID flexString `json:"orderId"`
	}
	err := c.call(ctx, request{
		op:     "payments.verify",
		method: http.MethodPost,
		path:   "/api/payments/razorpay/verify",
		body:   req,
	}, &raw)
	if err != nil {
		return types.VerifyResult{}, err
	}
	return types.VerifyResult{OrderID: raw.OrderID.String()}, nil
}

// ReportPaymentFailure records a dismissed or failed payment.
func (c *Client) ReportPaymentFailure(ctx context.Context, reason string) error {
	return c.call(ctx, request{
		op:     "payments.failure",
		method: http.MethodPost,
		path:   "/api/payments/razorpay/failure",
		body:   failureReport{Reason: reason},
	}, nil)
}
