package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
)

type staticToken string

func (s staticToken) Token(context.Context) string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClientRejectsEmptyBaseURL(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatalf("expected error for empty base url")
	}
}

func TestCallUnwrapsEnvelopeAndSendsBearer(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"success":true,"data":{"products":[{"product":{"_id":"p1","price":10},"quantity":2}]}}`)
	}).ForSession(staticToken("tok-1"))

	items, err := client.GetCart(context.Background())
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("unexpected authorization header %q", gotAuth)
	}
	if len(items) != 1 || items[0].Product.ID != "p1" || items[0].Quantity != 2 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestCallOmitsBearerWithoutToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("expected no authorization header, got %q", auth)
		}
		_, _ = io.WriteString(w, `[]`)
	}).ForSession(staticToken(""))

	products, err := client.ListProducts(context.Background(), typesQuery("", ""))
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected no products, got %d", len(products))
	}
}

func TestCallMapsStatusCodes(t *testing.T) {
	cases := []struct {
		status int
		code   pkgerrors.Code
	}{
		{http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{http.StatusForbidden, pkgerrors.CodeUnauthorized},
		{http.StatusNotFound, pkgerrors.CodeNotFound},
		{http.StatusBadRequest, pkgerrors.CodeConflict},
		{http.StatusConflict, pkgerrors.CodeConflict},
		{http.StatusUnprocessableEntity, pkgerrors.CodeConflict},
		{http.StatusInternalServerError, pkgerrors.CodeDependency},
		{http.StatusBadGateway, pkgerrors.CodeDependency},
	}
	for _, tc := range cases {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = io.WriteString(w, `{"message":"Insufficient stock for Widget"}`)
		})
		_, err := client.GetCart(context.Background())
		if !pkgerrors.IsCode(err, tc.code) {
			t.Fatalf("status %d: expected %s got %v", tc.status, tc.code, err)
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Message() != "Insufficient stock for Widget" {
			t.Fatalf("status %d: expected backend message, got %v", tc.status, err)
		}
	}
}

func TestCallTreatsSuccessFalseAsConflict(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"message":"Cart locked"}`)
	})
	_, err := client.GetCart(context.Background())
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict got %v", err)
	}
}

func TestCallNetworkFailureIsDependency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	client, err := NewClient(base)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.GetCart(context.Background())
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error got %v", err)
	}
}

func TestCartMutationsSendExpectedBodies(t *testing.T) {
	var got []cartMutation
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		if r.Body != nil {
			var body cartMutation
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				got = append(got, body)
			}
		}
		_, _ = io.WriteString(w, `{"products":[]}`)
	})
	ctx := context.Background()

	if _, err := client.AddToCart(ctx, "p1", 0); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := client.RemoveFromCart(ctx, "p1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := client.ClearCart(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	wantPaths := []string{"POST /api/cart/add", "POST /api/cart/remove", "POST /api/cart/clear"}
	for i, want := range wantPaths {
		if paths[i] != want {
			t.Fatalf("call %d: expected %s got %s", i, want, paths[i])
		}
	}
	if got[0].ProductID != "p1" || got[0].Quantity != 1 {
		t.Fatalf("unexpected add body: %+v", got[0])
	}
	if got[1].ProductID != "p1" || got[1].Quantity != 0 {
		t.Fatalf("unexpected remove body: %+v", got[1])
	}
}

func TestCartRejectsEmptyProductID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})
	if _, err := client.AddToCart(context.Background(), " ", 1); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestWishlistEndpoints(t *testing.T) {
	var seen []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `{"data":[{"_id":"w1","name":"Lamp"},"garbage"]}`)
		default:
			_, _ = io.WriteString(w, `{"success":true}`)
		}
	})
	ctx := context.Background()

	items, err := client.GetWishlist(ctx)
	if err != nil {
		t.Fatalf("get wishlist: %v", err)
	}
	if len(items) != 1 || items[0].ID != "w1" {
		t.Fatalf("unexpected wishlist: %+v", items)
	}
	if err := client.AddToWishlist(ctx, "w2"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := client.RemoveFromWishlist(ctx, "w2"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if seen[2] != "DELETE /api/wishlist/remove/w2" {
		t.Fatalf("unexpected remove call %s", seen[2])
	}
}

func TestStateChargesQueriesState(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("state"); got != "Tamil Nadu" {
			t.Errorf("unexpected state query %q", got)
		}
		_, _ = io.WriteString(w, `{"success":true,"data":{"state":"Tamil Nadu","defaultShippingCharge":50,"manualBaseCharge":"120.5"}}`)
	})
	charges, err := client.StateCharges(context.Background(), " Tamil Nadu ")
	if err != nil {
		t.Fatalf("state charges: %v", err)
	}
	if charges.DefaultShippingCharge.String() != "50" || charges.ManualBaseCharge.String() != "120.5" {
		t.Fatalf("unexpected charges: %+v", charges)
	}
}

func TestPaymentEndpoints(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/payments/razorpay/order":
			_, _ = io.WriteString(w, `{"success":true,"data":{"orderId":"order_1","amount":241000,"keyId":"rzp_key","totalAmount":2410}}`)
		case "/api/payments/razorpay/verify":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["razorpay_signature"] != "sig" || body["deliveryMethod"] != "default" {
				t.Errorf("unexpected verify body: %v", body)
			}
			_, _ = io.WriteString(w, `{"success":true,"data":{"orderId":"db-1"}}`)
		case "/api/payments/razorpay/failure":
			var body failureReport
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.Reason != "Checkout dismissed" {
				t.Errorf("unexpected reason %q", body.Reason)
			}
			_, _ = io.WriteString(w, `{"success":true}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()

	order, err := client.CreatePaymentOrder(ctx, paymentRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if order.OrderID != "order_1" || order.Currency != "INR" || order.TotalAmount.String() != "2410" {
		t.Fatalf("unexpected gateway order: %+v", order)
	}

	result, err := client.VerifyPayment(ctx, verifyRequest())
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.OrderID != "db-1" {
		t.Fatalf("unexpected verify result: %+v", result)
	}
	if err := client.ReportPaymentFailure(ctx, "Checkout dismissed"); err != nil {
		t.Fatalf("report: %v", err)
	}
}

func TestAuthNormalizesUserID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":{"token":"jwt","user":{"id":"u1","email":"a@b.co","addresses":[{"_id":"a1","fullName":"A","phone":"9876543210","street":"1 Main","postalCode":"600001","isDefault":true}]}}}`)
	})
	result, err := client.Login(context.Background(), "a@b.co", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token != "jwt" || result.User.ID != "u1" {
		t.Fatalf("unexpected auth result: %+v", result)
	}
	addr := result.User.Addresses[0]
	if addr.Mobile != "9876543210" || addr.AddressLine1 != "1 Main" || addr.Pincode != "600001" || !addr.IsDefault {
		t.Fatalf("unexpected address: %+v", addr)
	}
}

func TestAuthMissingTokenIsDependency(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"user":{"_id":"u1"}}`)
	})
	if _, err := client.Login(context.Background(), "a@b.co", "x"); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error got %v", err)
	}
}

func TestInvoicePDFPassesBodyThrough(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/orders/o1/invoice" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = io.WriteString(w, "%PDF-1.4")
	})
	doc, err := client.InvoicePDF(context.Background(), "o1")
	if err != nil {
		t.Fatalf("invoice: %v", err)
	}
	if doc.ContentType != "application/pdf" || string(doc.Body) != "%PDF-1.4" {
		t.Fatalf("unexpected document: %+v", doc)
	}
}
