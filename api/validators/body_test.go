package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
)

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"not-an-email","password":"x"}`))
	var payload loginPayload
	err := DecodeJSONBody(req, &payload)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","password":"x","role":"admin"}`))
	var payload loginPayload
	if err := DecodeJSONBody(req, &payload); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected unknown field rejection, got %v", err)
	}
}

func TestDecodeJSONAllowsEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	var payload struct {
		Reason string `json:"reason"`
	}
	if err := DecodeJSON(req, &payload); err != nil {
		t.Fatalf("expected empty body to decode, got %v", err)
	}
}

func TestQueryLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=500", nil)
	if _, err := QueryLimit(req, "limit", 100); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected range error, got %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/?limit=abc", nil)
	if _, err := QueryLimit(req, "limit", 100); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected parse error, got %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	got, err := QueryLimit(req, "limit", 100)
	if err != nil || got != 0 {
		t.Fatalf("expected no limit, got %d %v", got, err)
	}
}
