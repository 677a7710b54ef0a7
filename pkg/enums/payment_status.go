package enums

import (
	"fmt"
	"strings"
)

// PaymentStatus tracks the payment side of a placed order.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusFailed  PaymentStatus = "Failed"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusFailed,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentStatus converts raw input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}

// NormalizePaymentStatus maps the backend's loose spellings onto a
// PaymentStatus, falling back to Pending.
func NormalizePaymentStatus(value string) PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "paid":
		return PaymentStatusPaid
	case "failed":
		return PaymentStatusFailed
	default:
		return PaymentStatusPending
	}
}
