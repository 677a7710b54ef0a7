package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/innovativehub/storefront/api/responses"
	"github.com/innovativehub/storefront/api/validators"
	"github.com/innovativehub/storefront/pkg/logger"
)

type addWishlistItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

func WishlistShow(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, sess.Wishlist.Snapshot())
	}
}

// WishlistAddItem looks the product up in the catalog and lists it once.
func WishlistAddItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		var payload addWishlistItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := sess.Catalog.Get(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := sess.Wishlist.Add(r.Context(), product); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sess.Wishlist.Snapshot())
	}
}

// WishlistRemoveItem always succeeds locally; sync failures are only logged.
func WishlistRemoveItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		sess.Wishlist.Remove(r.Context(), chi.URLParam(r, "productId"))
		responses.WriteSuccess(w, sess.Wishlist.Snapshot())
	}
}
