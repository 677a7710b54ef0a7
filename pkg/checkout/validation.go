// Package checkout holds the pre-flight rules a checkout must pass before any
// payment call is made.
package checkout

import (
	"fmt"
	"strings"

	"github.com/innovativehub/storefront/pkg/enums"
	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/validation"
)

const (
	msgAgreementRequired = "Please accept the manual delivery terms"
	msgMobileInvalid     = "Please enter a valid 10-digit mobile number"
)

// StockValidationInput describes one line item for the stock check.
type StockValidationInput struct {
	ProductID   string
	ProductName string
	Stock       int
	Quantity    int
}

// StockViolationDetail is returned to callers when a line exceeds stock.
type StockViolationDetail struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name,omitempty"`
	Available    int    `json:"available"`
	RequestedQty int    `json:"requested_qty"`
}

// ValidateStock ensures no line asks for more than its product's known stock.
// Products reporting zero stock are not re-checked here.
func ValidateStock(items []StockValidationInput) error {
	var violations []StockViolationDetail
	for _, item := range items {
		if item.Stock <= 0 || item.Quantity <= item.Stock {
			continue
		}
		violations = append(violations, StockViolationDetail{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Available:    item.Stock,
			RequestedQty: item.Quantity,
		})
	}
	if len(violations) == 0 {
		return nil
	}

	message := fmt.Sprintf("Only %d unit(s) of %s are available", violations[0].Available, displayName(violations[0]))
	if len(violations) > 1 {
		message = fmt.Sprintf("insufficient stock for %d item(s)", len(violations))
	}
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{
		"violations": violations,
	})
}

// DeliveryValidationInput carries the delivery fields of a checkout.
type DeliveryValidationInput struct {
	Method    enums.DeliveryMethod
	Agreement bool
	Mobile    string
}

// ValidateDelivery enforces the manual delivery requirements. The default
// method has none.
func ValidateDelivery(in DeliveryValidationInput) error {
	if !in.Method.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid delivery method %q", in.Method))
	}
	if in.Method != enums.DeliveryMethodManual {
		return nil
	}
	if !in.Agreement {
		return pkgerrors.New(pkgerrors.CodeValidation, msgAgreementRequired).WithDetails(map[string]string{
			"deliveryAgreement": "required",
		})
	}
	if err := validation.Var("deliveryMobileNumber", strings.TrimSpace(in.Mobile), "required,in_mobile"); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, msgMobileInvalid).WithDetails(map[string]string{
			"deliveryMobileNumber": "must be a valid 10-digit mobile number",
		})
	}
	return nil
}

func displayName(v StockViolationDetail) string {
	if v.ProductName != "" {
		return v.ProductName
	}
	return v.ProductID
}
