package enums

import (
	"fmt"
	"strings"
)

// OrderStatus tracks fulfilment of a placed order.
type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "Placed"
	OrderStatusPacked    OrderStatus = "Packed"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPlaced,
	OrderStatusPacked,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// NormalizeOrderStatus maps the backend's loose spellings onto an
// OrderStatus, falling back to Placed.
func NormalizeOrderStatus(value string) OrderStatus {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "confirmed", "processing":
		return OrderStatusPacked
	case "shipped":
		return OrderStatusShipped
	case "delivered":
		return OrderStatusDelivered
	case "cancelled", "canceled":
		return OrderStatusCancelled
	default:
		return OrderStatusPlaced
	}
}
