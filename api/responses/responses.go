package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/innovativehub/storefront/pkg/types"
)

// cartRedirect is the view the UI should fall back to when checkout has no
// lines.
const cartRedirect = "/cart"

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

// WriteError renders err as the error envelope and logs it. Untyped errors
// become INTERNAL_ERROR and never leak their text.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())
	msg := meta.PublicMessage
	if meta.PassMessage {
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	payload := types.ErrorEnvelope{
		Error: types.APIError{
			Code:    string(typed.Code()),
			Message: msg,
		},
	}
	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Error.Details = details
		}
	}
	if typed.Code() == pkgerrors.CodeNothingToCheckout {
		payload.Error.Details = map[string]string{"redirect": cartRedirect}
	}

	dump := pkgerrors.Dump(err)
	fields := map[string]any{
		"error_code":  dump.Code,
		"error_chain": dump.Chain,
		"status":      meta.HTTPStatus,
	}
	if dump.Store != nil {
		fields["store_driver"] = dump.Store.Driver
		fields["store_code"] = dump.Store.Code
		fields["store_constraint"] = dump.Store.Constraint
	}
	logCtx := logg.WithFields(ctx, fields)
	if meta.HTTPStatus >= http.StatusInternalServerError {
		logg.Error(logCtx, "request.error", err)
	} else {
		logg.Warn(logCtx, "request.rejected: "+err.Error())
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

// WriteDocument streams a binary document such as an invoice PDF.
func WriteDocument(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", `inline; filename="`+filename+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
