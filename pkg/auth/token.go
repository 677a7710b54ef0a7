// Package auth inspects backend bearer tokens. The storefront never holds the
// signing secret, so tokens are decoded without verification and only used to
// decide whether restoring a session is worth a round trip.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what an unverified decode reveals.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
	Opaque    bool
}

// Expired reports whether the token carries an expiry that is not after now.
// Opaque tokens and tokens without exp never expire here.
func (i TokenInfo) Expired(now time.Time) bool {
	if i.Opaque || i.ExpiresAt.IsZero() {
		return false
	}
	return !i.ExpiresAt.After(now)
}

// InspectToken decodes token without checking its signature. A token that is
// not a JWT is reported as opaque rather than as an error.
func InspectToken(token string) (TokenInfo, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return TokenInfo{}, fmt.Errorf("token is empty")
	}
	if strings.Count(trimmed, ".") != 2 {
		return TokenInfo{Opaque: true}, nil
	}

	claims := &BackendClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(trimmed, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("decode token: %w", err)
	}

	info := TokenInfo{Subject: claims.Subject()}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
