package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/innovativehub/storefront/api/responses"
	"github.com/innovativehub/storefront/api/validators"
	"github.com/innovativehub/storefront/internal/checkout"
	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/innovativehub/storefront/pkg/types"
)

type failureRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// CheckoutQuote prices the current checkout lines without touching the
// payment backend.
func CheckoutQuote(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		var payload checkout.Request
		if err := validators.DecodeJSON(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quote, err := sess.Checkout.Quote(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// CheckoutCreate opens a payment order and returns the widget configuration.
func CheckoutCreate(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		var payload checkout.Request
		if err := validators.DecodeJSON(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pending, err := sess.Checkout.Begin(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, pending)
	}
}

// CheckoutSuccess verifies the gateway proof for a pending checkout.
func CheckoutSuccess(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		var proof types.PaymentProof
		if err := validators.DecodeJSON(r, &proof); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		complete(w, r, logg, sess.Checkout, checkout.Outcome{Status: checkout.OutcomeSucceeded, Proof: proof})
	}
}

func CheckoutDismiss(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		complete(w, r, logg, sess.Checkout, checkout.Outcome{Status: checkout.OutcomeDismissed})
	}
}

func CheckoutFailure(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		var payload failureRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		complete(w, r, logg, sess.Checkout, checkout.Outcome{Status: checkout.OutcomeFailed, Reason: payload.Reason})
	}
}

// CheckoutSummary returns the summary of the last verified order.
func CheckoutSummary(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		summary, found := sess.Checkout.LastSummary(r.Context())
		if !found {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no recent order"))
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

func complete(w http.ResponseWriter, r *http.Request, logg *logger.Logger, orchestrator *checkout.Orchestrator, outcome checkout.Outcome) {
	result, err := orchestrator.Complete(r.Context(), chi.URLParam(r, "pendingId"), outcome)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, result)
}
