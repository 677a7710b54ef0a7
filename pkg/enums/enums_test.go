package enums

import "testing"

func TestNormalizeOrderStatus(t *testing.T) {
	cases := map[string]OrderStatus{
		"pending":    OrderStatusPlaced,
		"confirmed":  OrderStatusPacked,
		"processing": OrderStatusPacked,
		"Shipped":    OrderStatusShipped,
		"delivered":  OrderStatusDelivered,
		"cancelled":  OrderStatusCancelled,
		"":           OrderStatusPlaced,
		"teleported": OrderStatusPlaced,
	}
	for raw, want := range cases {
		if got := NormalizeOrderStatus(raw); got != want {
			t.Fatalf("NormalizeOrderStatus(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestNormalizePaymentStatus(t *testing.T) {
	cases := map[string]PaymentStatus{
		"paid":    PaymentStatusPaid,
		"unpaid":  PaymentStatusPending,
		"failed":  PaymentStatusFailed,
		"unknown": PaymentStatusPending,
	}
	for raw, want := range cases {
		if got := NormalizePaymentStatus(raw); got != want {
			t.Fatalf("NormalizePaymentStatus(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestParseDeliveryMethodDefaultsEmpty(t *testing.T) {
	got, err := ParseDeliveryMethod("")
	if err != nil || got != DeliveryMethodDefault {
		t.Fatalf("expected default method, got %q err=%v", got, err)
	}
	if _, err := ParseDeliveryMethod("drone"); err == nil {
		t.Fatalf("expected error for unknown method")
	}
}

func TestParseGSTMode(t *testing.T) {
	got, err := ParseGSTMode(" Excluding ")
	if err != nil || got != GSTModeExcluding {
		t.Fatalf("expected excluding, got %q err=%v", got, err)
	}
	got, err = ParseGSTMode("")
	if err != nil || got != GSTModeIncluding {
		t.Fatalf("expected including default, got %q err=%v", got, err)
	}
}

func TestModeFor(t *testing.T) {
	if ModeFor(true) != SessionModeAuthenticated || ModeFor(false) != SessionModeGuest {
		t.Fatalf("unexpected session mode mapping")
	}
	if !SessionModeGuest.IsValid() {
		t.Fatalf("guest should be valid")
	}
}
