package orders

import (
	"context"
	"testing"

	"github.com/innovativehub/storefront/pkg/enums"
	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/innovativehub/storefront/pkg/types"
)

type stubClient struct {
	order types.Order
	calls []string
}

func (s *stubClient) MyOrders(ctx context.Context) ([]types.Order, error) {
	s.calls = append(s.calls, "list")
	return []types.Order{s.order}, nil
}

func (s *stubClient) GetOrder(ctx context.Context, orderID string) (types.Order, error) {
	s.calls = append(s.calls, "get")
	return s.order, nil
}

func (s *stubClient) GenerateInvoice(ctx context.Context, orderID string) (types.Invoice, error) {
	s.calls = append(s.calls, "generate")
	return types.Invoice{InvoiceNumber: "INV-1"}, nil
}

func (s *stubClient) InvoicePDF(ctx context.Context, orderID string) (types.InvoiceDocument, error) {
	s.calls = append(s.calls, "pdf")
	return types.InvoiceDocument{ContentType: "application/pdf", Body: []byte("%PDF")}, nil
}

type authFlag bool

func (a authFlag) IsAuthenticated() bool { return bool(a) }

func newService(t *testing.T, client *stubClient, loggedIn bool) Service {
	t.Helper()
	svc, err := NewService(client, authFlag(loggedIn), logger.Nop())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestListRequiresLogin(t *testing.T) {
	client := &stubClient{}
	svc := newService(t, client, false)

	if _, err := svc.List(context.Background()); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if len(client.calls) != 0 {
		t.Fatalf("expected no backend calls, got %v", client.calls)
	}
}

func TestGenerateInvoiceRequiresPaidOrder(t *testing.T) {
	client := &stubClient{order: types.Order{ID: "o1", PaymentStatus: enums.PaymentStatusPending}}
	svc := newService(t, client, true)

	_, err := svc.GenerateInvoice(context.Background(), "o1")
	if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestGenerateInvoiceReusesExisting(t *testing.T) {
	client := &stubClient{order: types.Order{ID: "o1", PaymentStatus: enums.PaymentStatusPaid, InvoiceNumber: "INV-9"}}
	svc := newService(t, client, true)

	invoice, err := svc.GenerateInvoice(context.Background(), "o1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if invoice.InvoiceNumber != "INV-9" {
		t.Fatalf("expected existing invoice, got %+v", invoice)
	}
	if len(client.calls) != 1 {
		t.Fatalf("expected only the order lookup, got %v", client.calls)
	}
}

func TestInvoiceGeneratesBeforeDownload(t *testing.T) {
	client := &stubClient{order: types.Order{ID: "o1", PaymentStatus: enums.PaymentStatusPaid}}
	svc := newService(t, client, true)

	doc, err := svc.Invoice(context.Background(), "o1")
	if err != nil {
		t.Fatalf("invoice: %v", err)
	}
	if string(doc.Body) != "%PDF" {
		t.Fatalf("unexpected body %q", doc.Body)
	}
	want := []string{"get", "generate", "pdf"}
	if len(client.calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, client.calls)
	}
	for i := range want {
		if client.calls[i] != want[i] {
			t.Fatalf("expected calls %v, got %v", want, client.calls)
		}
	}
}
