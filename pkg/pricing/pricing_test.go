package pricing

import (
	"math"
	"testing"

	"github.com/innovativehub/storefront/pkg/types"
	"github.com/shopspring/decimal"
)

func dec(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return d
}

func TestGSTBreakdown(t *testing.T) {
	t.Parallel()

	cases := []struct {
		subtotal string
		gst      string
		total    string
	}{
		{subtotal: "1000", gst: "180", total: "1180"},
		{subtotal: "99.99", gst: "18", total: "117.99"},
		{subtotal: "0", gst: "0", total: "0"},
		{subtotal: "0.05", gst: "0.01", total: "0.06"},
	}

	for _, tc := range cases {
		got := GSTBreakdown(dec(t, tc.subtotal))
		if !got.GSTAmount.Equal(dec(t, tc.gst)) {
			t.Fatalf("subtotal %s: gst = %s, want %s", tc.subtotal, got.GSTAmount, tc.gst)
		}
		if !got.Total.Equal(dec(t, tc.total)) {
			t.Fatalf("subtotal %s: total = %s, want %s", tc.subtotal, got.Total, tc.total)
		}
	}
}

func TestGSTBreakdownTotalIsSubtotalPlusTax(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"1", "12.34", "555.55", "1999.99", "3.33"} {
		b := GSTBreakdown(dec(t, raw))
		if !b.Total.Equal(Round2(b.Subtotal.Add(b.GSTAmount))) {
			t.Fatalf("subtotal %s: total %s != subtotal + gst %s", raw, b.Total, b.Subtotal.Add(b.GSTAmount))
		}
		if !b.GSTAmount.Equal(b.GSTAmount.Round(2)) {
			t.Fatalf("gst not rounded to paise: %s", b.GSTAmount)
		}
	}
}

func TestWithShipping(t *testing.T) {
	t.Parallel()

	b := GSTBreakdown(dec(t, "2000"))
	got := WithShipping(b, dec(t, "50"))
	if !got.Equal(dec(t, "2410")) {
		t.Fatalf("expected 2410, got %s", got)
	}
}

func TestSubtotalAndQuantity(t *testing.T) {
	t.Parallel()

	items := []types.CartItem{
		{Product: types.Product{ID: "a", Price: dec(t, "500")}, Quantity: 2},
		{Product: types.Product{ID: "b", Price: dec(t, "19.99")}, Quantity: 3},
	}
	if got := Subtotal(items); !got.Equal(dec(t, "1059.97")) {
		t.Fatalf("unexpected subtotal %s", got)
	}
	if got := TotalQuantity(items); got != 5 {
		t.Fatalf("unexpected quantity %d", got)
	}
	if got := Subtotal(nil); !got.IsZero() {
		t.Fatalf("empty subtotal should be zero, got %s", got)
	}
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	cases := map[float64]string{
		1180:   "1,180.00",
		117.99: "117.99",
		0.5:    "0.50",
		0:      "0.00",
	}
	for in, want := range cases {
		if got := FormatAmount(in); got != want {
			t.Fatalf("FormatAmount(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatAmountClampsNonFinite(t *testing.T) {
	t.Parallel()

	for _, in := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := FormatAmount(in); got != "0.00" {
			t.Fatalf("FormatAmount(%v) = %q, want 0.00", in, got)
		}
	}
}
