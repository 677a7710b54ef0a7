package controllers

import (
	"net/http"

	"github.com/innovativehub/storefront/api/responses"
	"github.com/innovativehub/storefront/api/validators"
	"github.com/innovativehub/storefront/pkg/logger"
)

type buyNowRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1,max=100"`
}

// BuyNowStage stages a single product for immediate checkout.
func BuyNowStage(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		var payload buyNowRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Quantity == 0 {
			payload.Quantity = 1
		}
		item, err := sess.Catalog.BuyNow(r.Context(), payload.ProductID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func BuyNowContact3D(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		item, err := sess.Catalog.ContactUs3D(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func BuyNowClear(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		if err := sess.Catalog.ClearBuyNow(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
