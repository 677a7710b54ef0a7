package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/innovativehub/storefront/api/responses"
	"github.com/innovativehub/storefront/pkg/logger"
)

func OrderList(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		orders, err := sess.Orders.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}

func OrderDetail(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		order, err := sess.Orders.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderGenerateInvoice asks the backend to issue an invoice for a paid order.
func OrderGenerateInvoice(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		invoice, err := sess.Orders.GenerateInvoice(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, invoice)
	}
}

// OrderInvoice streams the invoice document.
func OrderInvoice(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		orderID := chi.URLParam(r, "id")
		doc, err := sess.Orders.Invoice(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contentType := doc.ContentType
		if contentType == "" {
			contentType = "application/pdf"
		}
		responses.WriteDocument(w, contentType, "invoice-"+orderID+".pdf", doc.Body)
	}
}
