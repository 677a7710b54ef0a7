package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
)

// QueryString returns the trimmed value of key.
func QueryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// QueryLimit reads an optional positive limit. Absent means zero, which
// callers treat as no limit.
func QueryLimit(r *http.Request, key string, max int) (int, error) {
	raw := QueryString(r, key)
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, key+" must be between 1 and "+strconv.Itoa(max)).
			WithDetails(map[string]any{"field": key, "max": max})
	}
	return limit, nil
}
