package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/types"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleLoginRequest struct {
	TokenID string `json:"tokenId"`
}

type rawAuthResult struct {
	Token flexString      `json:"token"`
	User  json.RawMessage `json:"user"`
}

func (c *Client) authCall(ctx context.Context, req request) (types.AuthResult, error) {
	var raw rawAuthResult
	if err := c.call(ctx, req, &raw); err != nil {
		return types.AuthResult{}, err
	}
	token := raw.Token.String()
	if token == "" {
		return types.AuthResult{}, pkgerrors.New(pkgerrors.CodeDependency, "auth response missing token")
	}
	user, err := decodeUser(raw.User)
	if err != nil {
		return types.AuthResult{}, err
	}
	return types.AuthResult{Token: token, User: user}, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (types.AuthResult, error) {
	return c.authCall(ctx, request{
		op:     "auth.login",
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   loginRequest{Email: strings.TrimSpace(email), Password: password},
	})
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, req types.RegisterRequest) (types.AuthResult, error) {
	return c.authCall(ctx, request{op: "auth.register", method: http.MethodPost, path: "/api/auth/register", body: req})
}

// GoogleLogin exchanges a Google id token for a session token.
func (c *Client) GoogleLogin(ctx context.Context, tokenID string) (types.AuthResult, error) {
	return c.authCall(ctx, request{
		op:     "auth.google",
		method: http.MethodPost,
		path:   "/api/auth/google-login",
		body:   googleLoginRequest{TokenID: tokenID},
	})
}

// Me returns the account behind the current bearer token.
func (c *Client) Me(ctx context.Context) (types.User, error) {
	return c.userCall(ctx, request{op: "auth.me", method: http.MethodGet, path: "/api/auth/me"})
}
