package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// BackendClaims are the fields the storefront reads from a backend-issued
// bearer token. The backend may carry the user id as "id" or "userId".
type BackendClaims struct {
	ID     string `json:"id,omitempty"`
	UserID string `json:"userId,omitempty"`
	jwt.RegisteredClaims
}

// Subject returns the first non-empty user identifier.
func (c BackendClaims) Subject() string {
	switch {
	case c.ID != "":
		return c.ID
	case c.UserID != "":
		return c.UserID
	default:
		return c.RegisteredClaims.Subject
	}
}
