package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/innovativehub/storefront/api/responses"
	"github.com/innovativehub/storefront/api/validators"
	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/innovativehub/storefront/pkg/types"
)

func AddressList(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		addresses, err := sess.Addresses.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addresses)
	}
}

func AddressCreate(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		var payload types.Address
		if err := validators.DecodeJSON(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addresses, err := sess.Addresses.Add(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, addresses)
	}
}

func AddressUpdate(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		var payload types.Address
		if err := validators.DecodeJSON(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addresses, err := sess.Addresses.Update(r.Context(), chi.URLParam(r, "id"), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addresses)
	}
}

func AddressDelete(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		addresses, err := sess.Addresses.Delete(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addresses)
	}
}

func AddressSetDefault(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		addresses, err := sess.Addresses.SetDefault(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addresses)
	}
}
