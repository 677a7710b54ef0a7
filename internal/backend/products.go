package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/innovativehub/storefront/pkg/enums"
	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/types"
)

const (
	maxQuickNotes      = 6
	minQuickNoteLength = 6
)

var (
	styleBlockRe   = regexp.MustCompile(`(?is)<style.*?</style>`)
	scriptBlockRe  = regexp.MustCompile(`(?is)<script.*?</script>`)
	blockCloseRe   = regexp.MustCompile(`(?i)</(li|p|div|h\d)>`)
	lineBreakRe    = regexp.MustCompile(`(?i)<br\s*/?>`)
	anyTagRe       = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	noteSeparatorR = regexp.MustCompile(`[.\n]`)
)

type rawProduct struct {
	ID               flexString `json:"_id"`
	AltID            flexString `json:"id"`
	Name             flexString `json:"name"`
	ShortDescription flexString `json:"shortDescription"`
	LongDescription  flexString `json:"longDescription"`
	SellingPrice     flexNumber `json:"sellingPrice"`
	Price            flexNumber `json:"price"`
	MRP              flexNumber `json:"mrp"`
	GSTMode          flexString `json:"gstMode"`
	GSTPercentage    flexNumber `json:"gstPercentage"`
	Categories       rawList    `json:"categories"`
	Category         flexString `json:"category"`
	Subcategory      flexString `json:"subcategory"`
	Images           rawList    `json:"images"`
	StockQuantity    flexNumber `json:"stockQuantity"`
	Stock            flexNumber `json:"stock"`
	SKU              flexString `json:"sku"`
	Features         rawList    `json:"features"`
	Specifications   flexMap    `json:"specifications"`
	Datasheet        flexString `json:"datasheet"`
	CreatedAt        flexString `json:"createdAt"`
	UpdatedAt        flexString `json:"updatedAt"`
}

// decodeProduct normalizes one backend product. ok is false when raw is not
// an object.
func decodeProduct(raw json.RawMessage) (types.Product, bool) {
	if !isObject(raw) {
		return types.Product{}, false
	}
	var p rawProduct
	if err := json.Unmarshal(raw, &p); err != nil {
		return types.Product{}, false
	}
	return p.normalize(), true
}

func decodeProducts(items rawList) []types.Product {
	out := make([]types.Product, 0, len(items))
	for _, item := range items {
		if product, ok := decodeProduct(item); ok {
			out = append(out, product)
		}
	}
	return out
}

func (p rawProduct) normalize() types.Product {
	gstMode, err := enums.ParseGSTMode(p.GSTMode.String())
	if err != nil {
		gstMode = enums.GSTModeIncluding
	}

	category := p.Category.String()
	if categories := p.Categories.strings(); len(categories) > 0 {
		category = categories[0]
	}

	features := p.Features.strings()
	if len(features) == 0 {
		features = extractQuickNotes(p.LongDescription.String(), p.ShortDescription.String())
	}

	specs := map[string]string(p.Specifications)
	if specs == nil {
		specs = map[string]string{}
	}

	return types.Product{
		ID:               firstString(p.ID, p.AltID, p.SKU),
		Name:             p.Name.String(),
		ShortDescription: p.ShortDescription.String(),
		LongDescription:  string(p.LongDescription),
		Price:            p.SellingPrice.or(p.Price).decimal(),
		MRP:              p.MRP.decimal(),
		GSTMode:          gstMode,
		GSTPercentage:    p.GSTPercentage.decimal(),
		Category:         category,
		Subcategory:      p.Subcategory.String(),
		Images:           imageURLs(p.Images),
		Stock:            p.StockQuantity.or(p.Stock).nonNegativeInt(),
		SKU:              p.SKU.String(),
		Features:         features,
		Specifications:   specs,
		Datasheet:        p.Datasheet.String(),
		CreatedAt:        p.CreatedAt.String(),
		UpdatedAt:        p.UpdatedAt.String(),
	}
}

// imageURLs accepts plain strings or {url} objects and drops empties.
func imageURLs(items rawList) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
			continue
		}
		var obj struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(item, &obj); err == nil {
			if u := strings.TrimSpace(obj.URL); u != "" {
				out = append(out, u)
			}
		}
	}
	return out
}

func stripHTML(value string) string {
	out := styleBlockRe.ReplaceAllString(value, " ")
	out = scriptBlockRe.ReplaceAllString(out, " ")
	out = blockCloseRe.ReplaceAllString(out, "\n")
	out = lineBreakRe.ReplaceAllString(out, "\n")
	out = anyTagRe.ReplaceAllString(out, " ")
	out = strings.ReplaceAll(out, "&nbsp;", " ")
	out = whitespaceRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// extractQuickNotes derives up to six feature bullets from an HTML long
// description, falling back to the short description.
func extractQuickNotes(longDescription, shortDescription string) []string {
	text := stripHTML(longDescription)
	seen := map[string]struct{}{}
	notes := make([]string, 0, maxQuickNotes)
	for _, part := range noteSeparatorR.Split(text, -1) {
		part = strings.TrimSpace(part)
		if len(part) < minQuickNoteLength {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		notes = append(notes, part)
		if len(notes) == maxQuickNotes {
			break
		}
	}
	if len(notes) > 0 {
		return notes
	}
	if fallback := strings.TrimSpace(shortDescription); fallback != "" {
		return []string{fallback}
	}
	return []string{}
}

// ListProducts returns the catalog filtered by q.
func (c *Client) ListProducts(ctx context.Context, q types.ProductQuery) ([]types.Product, error) {
	query := url.Values{}
	if v := strings.TrimSpace(q.Category); v != "" {
		query.Set("category", v)
	}
	if v := strings.TrimSpace(q.Search); v != "" {
		query.Set("search", v)
	}

	var items rawList
	if err := c.call(ctx, request{op: "products.list", method: http.MethodGet, path: "/api/products", query: query}, &items); err != nil {
		return nil, err
	}
	return decodeProducts(items), nil
}

// GetProduct returns one product by id. The backend also resolves SKUs.
func (c *Client) GetProduct(ctx context.Context, id string) (types.Product, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return types.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var raw json.RawMessage
	if err := c.call(ctx, request{op: "products.get", method: http.MethodGet, path: "/api/products/" + url.PathEscape(trimmed)}, &raw); err != nil {
		return types.Product{}, err
	}
	product, ok := decodeProduct(raw)
	if !ok || product.ID == "" {
		return types.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	return product, nil
}
