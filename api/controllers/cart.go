package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/innovativehub/storefront/api/responses"
	"github.com/innovativehub/storefront/api/validators"
	"github.com/innovativehub/storefront/pkg/logger"
)

type addCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1,max=100"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=100"`
}

func CartShow(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, sess.Cart.Snapshot())
	}
}

// CartAddItem adds quantity units (default one) of a catalog product.
func CartAddItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Quantity == 0 {
			payload.Quantity = 1
		}
		if err := sess.Catalog.AddToCart(r.Context(), payload.ProductID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sess.Cart.Snapshot())
	}
}

// CartUpdateItem sets a line's quantity; zero removes the line.
func CartUpdateItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := sess.Cart.UpdateQuantity(r.Context(), chi.URLParam(r, "productId"), payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sess.Cart.Snapshot())
	}
}

func CartRemoveItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		if err := sess.Cart.Remove(r.Context(), chi.URLParam(r, "productId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sess.Cart.Snapshot())
	}
}

func CartClear(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		if err := sess.Cart.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sess.Cart.Snapshot())
	}
}
