// Package orders exposes the signed-in customer's order history and
// invoices.
package orders

import (
	"context"
	"fmt"

	"github.com/innovativehub/storefront/pkg/enums"
	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/innovativehub/storefront/pkg/types"
)

type ordersClient interface {
	MyOrders(ctx context.Context) ([]types.Order, error)
	GetOrder(ctx context.Context, orderID string) (types.Order, error)
	GenerateInvoice(ctx context.Context, orderID string) (types.Invoice, error)
	InvoicePDF(ctx context.Context, orderID string) (types.InvoiceDocument, error)
}

type authState interface {
	IsAuthenticated() bool
}

// Service defines order history reads and invoice handling.
type Service interface {
	List(ctx context.Context) ([]types.Order, error)
	Get(ctx context.Context, orderID string) (types.Order, error)
	GenerateInvoice(ctx context.Context, orderID string) (types.Invoice, error)
	Invoice(ctx context.Context, orderID string) (types.InvoiceDocument, error)
}

type service struct {
	client ordersClient
	auth   authState
	logg   *logger.Logger
}

func NewService(client ordersClient, auth authState, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("orders client is required")
	}
	if auth == nil {
		return nil, fmt.Errorf("auth state is required")
	}
	return &service{client: client, auth: auth, logg: logg}, nil
}

func (s *service) List(ctx context.Context) ([]types.Order, error) {
	if err := s.requireLogin(); err != nil {
		return nil, err
	}
	return s.client.MyOrders(ctx)
}

func (s *service) Get(ctx context.Context, orderID string) (types.Order, error) {
	if err := s.requireLogin(); err != nil {
		return types.Order{}, err
	}
	return s.client.GetOrder(ctx, orderID)
}

// GenerateInvoice renders an invoice for a paid order. An order that already
// has one is returned as is.
func (s *service) GenerateInvoice(ctx context.Context, orderID string) (types.Invoice, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return types.Invoice{}, err
	}
	if order.HasInvoice() {
		return types.Invoice{InvoiceNumber: order.InvoiceNumber, InvoiceURL: order.InvoiceURL}, nil
	}
	if order.PaymentStatus != enums.PaymentStatusPaid {
		return types.Invoice{}, pkgerrors.New(pkgerrors.CodeStateConflict, "Invoice is available once the order is paid")
	}
	invoice, err := s.client.GenerateInvoice(ctx, order.ID)
	if err != nil {
		return types.Invoice{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "order_id", order.ID), "invoice generated")
	return invoice, nil
}

// Invoice downloads the invoice document, generating it first when the
// order has none yet.
func (s *service) Invoice(ctx context.Context, orderID string) (types.InvoiceDocument, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return types.InvoiceDocument{}, err
	}
	if !order.HasInvoice() {
		if order.PaymentStatus != enums.PaymentStatusPaid {
			return types.InvoiceDocument{}, pkgerrors.New(pkgerrors.CodeStateConflict, "Invoice is available once the order is paid")
		}
		if _, err := s.client.GenerateInvoice(ctx, order.ID); err != nil {
			return types.InvoiceDocument{}, err
		}
	}
	return s.client.InvoicePDF(ctx, order.ID)
}

func (s *service) requireLogin() error {
	if !s.auth.IsAuthenticated() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "Please log in to view your orders")
	}
	return nil
}
