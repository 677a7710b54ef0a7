package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/innovativehub/storefront/api/responses"
	"github.com/innovativehub/storefront/api/validators"
	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/innovativehub/storefront/pkg/types"
)

const maxProductPage = 200

// ProductList proxies the catalog listing. Optional filters: category,
// search, limit.
func ProductList(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		limit, err := validators.QueryLimit(r, "limit", maxProductPage)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query := types.ProductQuery{
			Category: validators.QueryString(r, "category"),
			Search:   validators.QueryString(r, "search"),
		}
		products, err := sess.Catalog.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if limit > 0 && len(products) > limit {
			products = products[:limit]
		}
		responses.WriteSuccess(w, products)
	}
}

func ProductDetail(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		product, err := sess.Catalog.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
