package enums

import "fmt"

// DeliveryMethod selects how an order is shipped.
type DeliveryMethod string

const (
	// DeliveryMethodDefault ships at the state's standard charge.
	DeliveryMethodDefault DeliveryMethod = "default"
	// DeliveryMethodManual is arranged with the buyer and billed separately.
	DeliveryMethodManual DeliveryMethod = "manual"
)

var validDeliveryMethods = []DeliveryMethod{
	DeliveryMethodDefault,
	DeliveryMethodManual,
}

// String implements fmt.Stringer.
func (d DeliveryMethod) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryMethod.
func (d DeliveryMethod) IsValid() bool {
	for _, candidate := range validDeliveryMethods {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryMethod converts raw input into a DeliveryMethod. Empty input
// selects the default method.
func ParseDeliveryMethod(value string) (DeliveryMethod, error) {
	if value == "" {
		return DeliveryMethodDefault, nil
	}
	for _, candidate := range validDeliveryMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery method %q", value)
}
