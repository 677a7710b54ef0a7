package responses

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/innovativehub/storefront/pkg/types"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) types.APIError {
	t.Helper()
	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	return body.Error
}

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"hello": "world"})

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}
	var body types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode success envelope: %v", err)
	}
	if body.Data.(map[string]any)["hello"] != "world" {
		t.Fatalf("unexpected payload %v", body.Data)
	}
}

func TestWriteErrorMapsTypedError(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "Please select a delivery address").
		WithDetails(map[string]string{"addressId": "required"})
	WriteError(t.Context(), logger.Nop(), w, err)

	if got := w.Code; got != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", got)
	}
	apiErr := decodeError(t, w)
	if apiErr.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", apiErr.Code)
	}
	if apiErr.Message != "Please select a delivery address" {
		t.Fatalf("expected typed message, got %q", apiErr.Message)
	}
	if apiErr.Details == nil {
		t.Fatalf("expected details in public payload")
	}
}

func TestWriteErrorPassesBackendRejection(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(t.Context(), logger.Nop(), w, pkgerrors.New(pkgerrors.CodeConflict, "Product out of stock"))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if apiErr := decodeError(t, w); apiErr.Message != "Product out of stock" {
		t.Fatalf("expected backend message, got %q", apiErr.Message)
	}
}

func TestWriteErrorHidesDependencyText(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(t.Context(), logger.Nop(), w, pkgerrors.New(pkgerrors.CodeDependency, "dial tcp 10.0.0.1:443: timeout"))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if apiErr := decodeError(t, w); apiErr.Message != "dependency unavailable" {
		t.Fatalf("expected public message, got %q", apiErr.Message)
	}
}

func TestWriteErrorNothingToCheckoutCarriesRedirect(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(t.Context(), logger.Nop(), w, pkgerrors.New(pkgerrors.CodeNothingToCheckout, "nothing to checkout"))

	apiErr := decodeError(t, w)
	details, ok := apiErr.Details.(map[string]any)
	if !ok || details["redirect"] != "/cart" {
		t.Fatalf("expected cart redirect, got %v", apiErr.Details)
	}
}

func TestWriteErrorDefaultsToInternalForUntypedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(t.Context(), nil, w, errors.New("boom"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}
	apiErr := decodeError(t, w)
	if apiErr.Code != string(pkgerrors.CodeInternal) || apiErr.Message != "internal server error" {
		t.Fatalf("unexpected error payload %+v", apiErr)
	}
}
