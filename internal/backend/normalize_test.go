package backend

import (
	"encoding/json"
	"testing"

	"github.com/innovativehub/storefront/pkg/enums"
	"github.com/innovativehub/storefront/pkg/types"
)

func typesQuery(category, search string) types.ProductQuery {
	return types.ProductQuery{Category: category, Search: search}
}

func paymentRequest() types.PaymentOrderRequest {
	return types.PaymentOrderRequest{
		Products:       []types.OrderLineRequest{{ProductID: "p1", Qty: 2}},
		Address:        types.Address{FullName: "A", Mobile: "9876543210", State: "Tamil Nadu", Pincode: "600001"},
		DeliveryMethod: enums.DeliveryMethodDefault,
	}
}

func verifyRequest() types.VerifyPaymentRequest {
	return types.VerifyPaymentRequest{
		PaymentProof:        types.PaymentProof{RazorpayOrderID: "order_1", RazorpayPaymentID: "pay_1", RazorpaySignature: "sig"},
		PaymentOrderRequest: paymentRequest(),
	}
}

func TestDecodeProductFieldFallbacks(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "p9",
		"name": "Arduino Uno",
		"sellingPrice": "450.50",
		"price": 999,
		"stockQuantity": 3,
		"stock": 10,
		"categories": ["Boards", "Other"],
		"category": "ignored",
		"images": [{"url": "a.png"}, "", "b.png", {"url": ""}],
		"specifications": {"Voltage": "5V", "Pins": 14},
		"gstMode": "bogus"
	}`)
	p, ok := decodeProduct(raw)
	if !ok {
		t.Fatalf("expected product to decode")
	}
	if p.ID != "p9" || p.Price.String() != "450.5" || p.Stock != 3 {
		t.Fatalf("unexpected product: %+v", p)
	}
	if p.Category != "Boards" {
		t.Fatalf("expected first category, got %q", p.Category)
	}
	if len(p.Images) != 2 || p.Images[0] != "a.png" || p.Images[1] != "b.png" {
		t.Fatalf("unexpected images: %v", p.Images)
	}
	if p.Specifications["Pins"] != "14" || p.Specifications["Voltage"] != "5V" {
		t.Fatalf("unexpected specifications: %v", p.Specifications)
	}
	if p.GSTMode != enums.GSTModeIncluding {
		t.Fatalf("expected including gst mode, got %s", p.GSTMode)
	}
}

func TestDecodeProductFallsBackToSKUAndPrice(t *testing.T) {
	p, ok := decodeProduct(json.RawMessage(`{"sku":"IN3D-001","price":"0","stock":-4}`))
	if !ok {
		t.Fatalf("expected product to decode")
	}
	if p.ID != "IN3D-001" || !p.Price.IsZero() || p.Stock != 0 {
		t.Fatalf("unexpected product: %+v", p)
	}
	if _, ok := decodeProduct(json.RawMessage(`"nope"`)); ok {
		t.Fatalf("expected non-object to be rejected")
	}
}

func TestExtractQuickNotes(t *testing.T) {
	long := `<style>p{color:red}</style><p>Fast charging support.</p><p>Fast charging support.</p><ul><li>Tiny.</li></ul><p>Rugged&nbsp;aluminium body. Works with 5V input</p>`
	notes := extractQuickNotes(long, "short")
	want := []string{"Fast charging support", "Rugged aluminium body", "Works with 5V input"}
	if len(notes) != len(want) {
		t.Fatalf("expected %v got %v", want, notes)
	}
	for i := range want {
		if notes[i] != want[i] {
			t.Fatalf("note %d: expected %q got %q", i, want[i], notes[i])
		}
	}
}

func TestExtractQuickNotesLimitsAndFallback(t *testing.T) {
	long := "First sentence. Second sentence. Third sentence. Fourth sentence. Fifth sentence. Sixth sentence. Seventh sentence."
	if notes := extractQuickNotes(long, ""); len(notes) != maxQuickNotes {
		t.Fatalf("expected %d notes got %d", maxQuickNotes, len(notes))
	}
	if notes := extractQuickNotes("<b>ok</b>", "Compact board"); len(notes) != 1 || notes[0] != "Compact board" {
		t.Fatalf("expected short description fallback got %v", notes)
	}
	if notes := extractQuickNotes("", ""); len(notes) != 0 {
		t.Fatalf("expected no notes got %v", notes)
	}
}

func TestDecodeCartDropsMissingProductsAndFloorsQuantity(t *testing.T) {
	raw := json.RawMessage(`{"products":[
		{"product":{"_id":"a","price":10},"quantity":3},
		{"product":null,"quantity":2},
		{"product":{"_id":"b","price":5}},
		{"product":{"_id":"c","price":5},"quantity":"0"}
	]}`)
	items := decodeCart(raw)
	if len(items) != 3 {
		t.Fatalf("expected 3 items got %d", len(items))
	}
	if items[0].Quantity != 3 || items[1].Quantity != 1 || items[2].Quantity != 1 {
		t.Fatalf("unexpected quantities: %+v", items)
	}
	if got := decodeCart(json.RawMessage(`[]`)); len(got) != 0 {
		t.Fatalf("expected empty cart for non-object")
	}
}

func TestDecodeOrderFallbacks(t *testing.T) {
	raw := json.RawMessage(`{
		"_id": {"$oid": "o1"},
		"customerId": "u1",
		"items": [{"productId": {"_id": "p1"}, "quantity": 2, "price": 1000, "name": "Board"}],
		"address": {"fullName": "A", "phone": "9876543210", "street": "1 Main", "postalCode": "600001"},
		"pricing": {"totalAmount": 2410, "deliveryCharge": 50},
		"paymentStatus": "paid",
		"orderStatus": "processing",
		"delivery": {"trackingLink": "https://track/1"},
		"invoice": {"invoiceNumber": "INV-1", "invoiceUrl": "/inv/1.pdf"}
	}`)
	o, ok := decodeOrder(raw)
	if !ok {
		t.Fatalf("expected order to decode")
	}
	if o.ID != "o1" || o.UserID != "u1" {
		t.Fatalf("unexpected ids: %+v", o)
	}
	if len(o.Products) != 1 || o.Products[0].ProductID != "p1" || o.Products[0].Qty != 2 {
		t.Fatalf("unexpected lines: %+v", o.Products)
	}
	if o.TotalAmount.String() != "2410" || o.DeliveryCharge.String() != "50" {
		t.Fatalf("unexpected totals: %s %s", o.TotalAmount, o.DeliveryCharge)
	}
	if o.PaymentStatus != enums.PaymentStatusPaid || o.OrderStatus != enums.OrderStatusPacked {
		t.Fatalf("unexpected statuses: %s %s", o.PaymentStatus, o.OrderStatus)
	}
	if o.Address.Mobile != "9876543210" || o.Address.Pincode != "600001" {
		t.Fatalf("unexpected address: %+v", o.Address)
	}
	if o.TrackingLink != "https://track/1" || !o.HasInvoice() {
		t.Fatalf("unexpected tracking or invoice: %+v", o)
	}
}

func TestFlexNumberPrefersSetValue(t *testing.T) {
	var payload struct {
		A flexNumber `json:"a"`
		B flexNumber `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":null,"b":0}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.A.set || !payload.B.set {
		t.Fatalf("unexpected set flags: %+v", payload)
	}
	if got := payload.A.or(payload.B); !got.set || !got.decimal().IsZero() {
		t.Fatalf("expected fallback to b")
	}
}
