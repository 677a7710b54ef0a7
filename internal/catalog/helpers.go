package catalog

import (
	"strings"

	"github.com/innovativehub/storefront/pkg/types"
)

const (
	// ThreeDPrintingSKUPrefix marks every 3D printing product.
	ThreeDPrintingSKUPrefix = "IN3D-"
	// ContactUs3DSKU is the pay-to-unlock "contact us" product.
	ContactUs3DSKU = "IN3D-001"
)

// NormalizeCategory lowercases and collapses whitespace.
func NormalizeCategory(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), " ")
}

func Is3DPrintingCategory(p types.Product) bool {
	switch NormalizeCategory(p.Category) {
	case "3d printing service", "3d printing services":
		return true
	default:
		return false
	}
}

// IsCustom3DProduct reports a 3D printing product priced per request.
func IsCustom3DProduct(p types.Product) bool {
	if !Is3DPrintingCategory(p) {
		return false
	}
	haystack := strings.ToLower(p.Name + " " + p.ShortDescription + " " + p.Subcategory)
	return strings.Contains(haystack, "custom") || strings.Contains(haystack, "variable")
}

func Is3DPrintingSKU(sku string) bool {
	return strings.HasPrefix(strings.ToUpper(sku), ThreeDPrintingSKUPrefix)
}

// IsContactUs3DProduct reports products whose purchase continues on the
// contact form.
func IsContactUs3DProduct(p types.Product) bool {
	return Is3DPrintingSKU(p.SKU)
}
