package controllers

import (
	"net/http"

	"github.com/innovativehub/storefront/api/middleware"
	"github.com/innovativehub/storefront/api/responses"
	"github.com/innovativehub/storefront/api/validators"
	"github.com/innovativehub/storefront/internal/session"
	"github.com/innovativehub/storefront/pkg/enums"
	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/innovativehub/storefront/pkg/types"
)

// currentSession returns the request's storefront session or writes an
// internal error when the session middleware did not run.
func currentSession(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (*session.Session, bool) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
		return nil, false
	}
	return sess, true
}

type sessionResponse struct {
	SessionID     string            `json:"sessionId"`
	Mode          enums.SessionMode `json:"mode"`
	Authenticated bool              `json:"authenticated"`
	User          *types.User       `json:"user,omitempty"`
}

func newSessionResponse(sess *session.Session) sessionResponse {
	user, ok := sess.Auth.User()
	resp := sessionResponse{SessionID: sess.ID, Mode: enums.ModeFor(ok), Authenticated: ok}
	if ok {
		resp.User = &user
	}
	return resp
}

// SessionShow reports who the session belongs to.
func SessionShow(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, newSessionResponse(sess))
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func SessionLogin(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := sess.Auth.Login(r.Context(), payload.Email, payload.Password); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSessionResponse(sess))
	}
}

// SessionRegister creates an account and signs the session in.
func SessionRegister(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		var payload types.RegisterRequest
		if err := validators.DecodeJSON(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := sess.Auth.Register(r.Context(), payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newSessionResponse(sess))
	}
}

type googleLoginRequest struct {
	TokenID string `json:"tokenId" validate:"required"`
}

func SessionGoogle(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		var payload googleLoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := sess.Auth.GoogleLogin(r.Context(), payload.TokenID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSessionResponse(sess))
	}
}

func SessionLogout(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		sess.Auth.Logout(r.Context())
		responses.WriteSuccess(w, newSessionResponse(sess))
	}
}
