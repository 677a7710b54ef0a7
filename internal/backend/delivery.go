package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/innovativehub/storefront/pkg/types"
)

type rawStateCharges struct {
	State                 flexString `json:"state"`
	DefaultShippingCharge flexNumber `json:"defaultShippingCharge"`
	ManualBaseCharge      flexNumber `json:"manualBaseCharge"`
}

// StateCharges looks up the delivery charges for an address state.
func (c *Client) StateCharges(ctx context.Context, state string) (types.StateCharges, error) {
	trimmed := strings.TrimSpace(state)
	var raw rawStateCharges
	err := c.call(ctx, request{
		op:     "delivery.state_charges",
		method: http.MethodGet,
		path:   "/api/delivery/state-charges",
		query:  url.Values{"state": []string{trimmed}},
	}, &raw)
	if err != nil {
		return types.StateCharges{}, err
	}

	resolved := raw.State.String()
	if resolved == "" {
		resolved = trimmed
	}
	return types.StateCharges{
		State:                 resolved,
		DefaultShippingCharge: raw.DefaultShippingCharge.decimal(),
		ManualBaseCharge:      raw.ManualBaseCharge.decimal(),
	}, nil
}
