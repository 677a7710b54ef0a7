// Package backend is the HTTP adapter for the commerce backend. It unwraps
// the backend's response envelope, maps failures onto typed errors and
// normalizes backend shapes into storefront types.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/metrics"
	"github.com/innovativehub/storefront/pkg/types"
)

const (
	defaultTimeout  = 15 * time.Second
	networkErrorMsg = "Network error"
)

const (
	errorBodyReadLimit    int64 = 1024
	responseBodyReadLimit int64 = 10 << 20
)

// TokenSource supplies the bearer token for the current session. An empty
// token sends the request anonymously.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Client talks to the commerce backend on behalf of one browsing session.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	metrics    *metrics.Metrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithMetrics records call latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTokenSource attaches the bearer token provider.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// NewClient builds a backend client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("backend base url is required")
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, fmt.Errorf("invalid backend base url %q: %w", baseURL, err)
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// ForSession returns a copy of the client that authenticates with tokens.
func (c *Client) ForSession(tokens TokenSource) *Client {
	clone := *c
	clone.tokens = tokens
	return &clone
}

type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
}

// call sends req and decodes the unwrapped payload into out when non-nil.
func (c *Client) call(ctx context.Context, req request, out any) error {
	start := time.Now()
	payload, err := c.send(ctx, req)
	c.metrics.ObserveBackend(req.op, time.Since(start), err)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode %s response", req.op))
	}
	return nil
}

func (c *Client) send(ctx context.Context, req request) (json.RawMessage, error) {
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("read %s response", req.op))
	}
	return unwrapEnvelope(body, req.op)
}

// do executes req. Non-2xx responses are converted into typed errors and the
// body is closed; on success the caller owns resp.Body.
func (c *Client) do(ctx context.Context, req request) (*http.Response, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "backend client not configured")
	}

	var reader io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("marshal %s request", req.op))
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.buildURL(req.path, req.query), reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("build %s request", req.op))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, networkErrorMsg)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, statusError(resp.StatusCode, msg, req.op)
	}
	return resp, nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	full := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		full += "?" + query.Encode()
	}
	return full
}

// statusError maps a failed response onto a typed error carrying the
// backend's message when one is present.
func statusError(status int, body []byte, op string) error {
	message := backendMessage(body)
	if message == "" {
		message = fmt.Sprintf("%s request failed", op)
	}

	code := pkgerrors.CodeDependency
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		code = pkgerrors.CodeUnauthorized
	case http.StatusNotFound:
		code = pkgerrors.CodeNotFound
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		code = pkgerrors.CodeConflict
	}

	cause := fmt.Errorf("status %d: %s", status, strings.TrimSpace(string(body)))
	return pkgerrors.Wrap(code, cause, message).WithDetails(map[string]any{"status": status})
}

func backendMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(payload.Message); msg != "" {
		return msg
	}
	return strings.TrimSpace(payload.Error)
}

// unwrapEnvelope returns the envelope's data when present, otherwise the
// whole body. An explicit success=false becomes a conflict error.
func unwrapEnvelope(body []byte, op string) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return json.RawMessage("null"), nil
	}
	if trimmed[0] != '{' {
		return trimmed, nil
	}

	var env types.BackendEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode %s response", op))
	}
	if env.Success != nil && !*env.Success {
		msg := strings.TrimSpace(env.Message)
		if msg == "" {
			msg = fmt.Sprintf("%s request failed", op)
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, msg)
	}
	if !isNull(env.Data) {
		return env.Data, nil
	}
	return trimmed, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
