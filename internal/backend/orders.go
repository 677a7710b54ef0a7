package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/innovativehub/storefront/pkg/enums"
	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/types"
)

const defaultInvoiceContentType = "application/pdf"

type rawOrderLine struct {
	ProductID flexString `json:"productId"`
	Quantity  flexNumber `json:"quantity"`
	Qty       flexNumber `json:"qty"`
	Price     flexNumber `json:"price"`
	Name      flexString `json:"name"`
	Image     flexString `json:"image"`
}

type rawOrderPricing struct {
	TotalAmount    flexNumber `json:"totalAmount"`
	DeliveryCharge flexNumber `json:"deliveryCharge"`
}

type rawOrderDelivery struct {
	TrackingLink    flexString `json:"trackingLink"`
	TrackingMessage flexString `json:"trackingMessage"`
}

type rawOrder struct {
	ID              flexString       `json:"_id"`
	AltID           flexString       `json:"id"`
	CustomerID      flexString       `json:"customerId"`
	UserID          flexString       `json:"userId"`
	Items           rawList          `json:"items"`
	AddressSnapshot json.RawMessage  `json:"addressSnapshot"`
	Address         json.RawMessage  `json:"address"`
	TotalAmount     flexNumber       `json:"totalAmount"`
	DeliveryCharge  flexNumber       `json:"delivery_charge"`
	Pricing         rawOrderPricing  `json:"pricing"`
	PaymentStatus   flexString       `json:"paymentStatus"`
	OrderStatus     flexString       `json:"orderStatus"`
	PaymentMethod   flexString       `json:"paymentMethod"`
	TrackingLink    flexString       `json:"trackingLink"`
	TrackingMessage flexString       `json:"trackingMessage"`
	Delivery        rawOrderDelivery `json:"delivery"`
	Invoice         types.Invoice    `json:"invoice"`
	CreatedAt       flexString       `json:"createdAt"`
}

func (o rawOrder) normalize() types.Order {
	lines := make([]types.OrderLine, 0, len(o.Items))
	for _, item := range o.Items {
		var line rawOrderLine
		if err := json.Unmarshal(item, &line); err != nil {
			continue
		}
		lines = append(lines, types.OrderLine{
			ProductID: line.ProductID.String(),
			Qty:       int(line.Quantity.or(line.Qty).decimal().IntPart()),
			Price:     line.Price.decimal(),
			Name:      line.Name.String(),
			Image:     line.Image.String(),
		})
	}

	addrRaw := o.AddressSnapshot
	if !isObject(addrRaw) {
		addrRaw = o.Address
	}
	addr, _ := decodeAddress(addrRaw)

	return types.Order{
		ID:              firstString(o.ID, o.AltID),
		UserID:          firstString(o.CustomerID, o.UserID),
		Products:        lines,
		Address:         addr,
		TotalAmount:     o.TotalAmount.or(o.Pricing.TotalAmount).decimal(),
		DeliveryCharge:  o.DeliveryCharge.or(o.Pricing.DeliveryCharge).decimal(),
		PaymentStatus:   enums.NormalizePaymentStatus(o.PaymentStatus.String()),
		OrderStatus:     enums.NormalizeOrderStatus(o.OrderStatus.String()),
		PaymentMethod:   o.PaymentMethod.String(),
		TrackingLink:    firstString(o.TrackingLink, o.Delivery.TrackingLink),
		TrackingMessage: firstString(o.TrackingMessage, o.Delivery.TrackingMessage),
		InvoiceURL:      strings.TrimSpace(o.Invoice.InvoiceURL),
		InvoiceNumber:   strings.TrimSpace(o.Invoice.InvoiceNumber),
		CreatedAt:       o.CreatedAt.String(),
	}
}

func decodeOrder(raw json.RawMessage) (types.Order, bool) {
	if !isObject(raw) {
		return types.Order{}, false
	}
	var order rawOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return types.Order{}, false
	}
	return order.normalize(), true
}

// MyOrders lists the signed-in customer's orders.
func (c *Client) MyOrders(ctx context.Context) ([]types.Order, error) {
	var items rawList
	if err := c.call(ctx, request{op: "orders.list", method: http.MethodGet, path: "/api/orders/my-orders"}, &items); err != nil {
		return nil, err
	}
	orders := make([]types.Order, 0, len(items))
	for _, item := range items {
		if order, ok := decodeOrder(item); ok {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

// GetOrder returns one order.
func (c *Client) GetOrder(ctx context.Context, orderID string) (types.Order, error) {
	path, err := orderPath(orderID, "")
	if err != nil {
		return types.Order{}, err
	}
	var raw json.RawMessage
	if err := c.call(ctx, request{op: "orders.get", method: http.MethodGet, path: path}, &raw); err != nil {
		return types.Order{}, err
	}
	order, ok := decodeOrder(raw)
	if !ok || order.ID == "" {
		return types.Order{}, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
	}
	return order, nil
}

// GenerateInvoice asks the backend to render an invoice for a paid order.
func (c *Client) GenerateInvoice(ctx context.Context, orderID string) (types.Invoice, error) {
	path, err := orderPath(orderID, "/generate-invoice")
	if err != nil {
		return types.Invoice{}, err
	}
	var invoice types.Invoice
	if err := c.call(ctx, request{op: "orders.generate_invoice", method: http.MethodPost, path: path}, &invoice); err != nil {
		return types.Invoice{}, err
	}
	return invoice, nil
}

// InvoicePDF downloads the rendered invoice without envelope handling.
func (c *Client) InvoicePDF(ctx context.Context, orderID string) (types.InvoiceDocument, error) {
	path, err := orderPath(orderID, "/invoice")
	if err != nil {
		return types.InvoiceDocument{}, err
	}
	resp, err := c.do(ctx, request{op: "orders.invoice", method: http.MethodGet, path: path})
	if err != nil {
		return types.InvoiceDocument{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return types.InvoiceDocument{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Failed to load invoice")
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultInvoiceContentType
	}
	return types.InvoiceDocument{ContentType: contentType, Body: body}, nil
}

func orderPath(id, suffix string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return "/api/orders/" + url.PathEscape(trimmed) + suffix, nil
}
