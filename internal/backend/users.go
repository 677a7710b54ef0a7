package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/types"
)

type rawAddress struct {
	ID           flexString `json:"_id"`
	FullName     flexString `json:"fullName"`
	Mobile       flexString `json:"mobile"`
	Phone        flexString `json:"phone"`
	AddressLine1 flexString `json:"addressLine1"`
	Street       flexString `json:"street"`
	AddressLine2 flexString `json:"addressLine2"`
	City         flexString `json:"city"`
	State        flexString `json:"state"`
	Pincode      flexString `json:"pincode"`
	PostalCode   flexString `json:"postalCode"`
	IsDefault    *bool      `json:"isDefault"`
}

func (a rawAddress) normalize() types.Address {
	return types.Address{
		ID:           a.ID.String(),
		FullName:     a.FullName.String(),
		Mobile:       firstString(a.Mobile, a.Phone),
		AddressLine1: firstString(a.AddressLine1, a.Street),
		AddressLine2: a.AddressLine2.String(),
		City:         a.City.String(),
		State:        a.State.String(),
		Pincode:      firstString(a.Pincode, a.PostalCode),
		IsDefault:    a.IsDefault != nil && *a.IsDefault,
	}
}

func decodeAddress(raw json.RawMessage) (types.Address, bool) {
	if !isObject(raw) {
		return types.Address{}, false
	}
	var addr rawAddress
	if err := json.Unmarshal(raw, &addr); err != nil {
		return types.Address{}, false
	}
	return addr.normalize(), true
}

type rawUser struct {
	ID        flexString `json:"id"`
	MongoID   flexString `json:"_id"`
	Name      flexString `json:"name"`
	Email     flexString `json:"email"`
	Mobile    flexString `json:"mobile"`
	Addresses rawList    `json:"addresses"`
	CreatedAt flexString `json:"createdAt"`
}

func (u rawUser) normalize() types.User {
	addresses := make([]types.Address, 0, len(u.Addresses))
	for _, item := range u.Addresses {
		if addr, ok := decodeAddress(item); ok {
			addresses = append(addresses, addr)
		}
	}
	return types.User{
		ID:        firstString(u.ID, u.MongoID),
		Name:      u.Name.String(),
		Email:     u.Email.String(),
		Mobile:    u.Mobile.String(),
		Addresses: addresses,
		CreatedAt: u.CreatedAt.String(),
	}
}

func decodeUser(raw json.RawMessage) (types.User, error) {
	if !isObject(raw) {
		return types.User{}, pkgerrors.New(pkgerrors.CodeDependency, "user payload is not an object")
	}
	// Some endpoints wrap the account as {user: {...}}.
	var wrapped struct {
		User json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && isObject(wrapped.User) {
		return decodeUser(wrapped.User)
	}
	var user rawUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return types.User{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode user")
	}
	return user.normalize(), nil
}

func (c *Client) userCall(ctx context.Context, req request) (types.User, error) {
	var raw json.RawMessage
	if err := c.call(ctx, req, &raw); err != nil {
		return types.User{}, err
	}
	return decodeUser(raw)
}

// AddAddress saves a new address and returns the updated account.
func (c *Client) AddAddress(ctx context.Context, addr types.Address) (types.User, error) {
	addr.ID = ""
	return c.userCall(ctx, request{op: "user.address_add", method: http.MethodPost, path: "/api/user/addresses", body: addr})
}

// UpdateAddress replaces a saved address and returns the updated account.
func (c *Client) UpdateAddress(ctx context.Context, id string, addr types.Address) (types.User, error) {
	path, err := addressPath(id, "")
	if err != nil {
		return types.User{}, err
	}
	return c.userCall(ctx, request{op: "user.address_update", method: http.MethodPut, path: path, body: addr})
}

// DeleteAddress removes a saved address and returns the updated account.
func (c *Client) DeleteAddress(ctx context.Context, id string) (types.User, error) {
	path, err := addressPath(id, "")
	if err != nil {
		return types.User{}, err
	}
	return c.userCall(ctx, request{op: "user.address_delete", method: http.MethodDelete, path: path})
}

// SetDefaultAddress flags one address as default and returns the updated
// account.
func (c *Client) SetDefaultAddress(ctx context.Context, id string) (types.User, error) {
	path, err := addressPath(id, "/default")
	if err != nil {
		return types.User{}, err
	}
	return c.userCall(ctx, request{op: "user.address_default", method: http.MethodPut, path: path})
}

func addressPath(id, suffix string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}
	return "/api/user/addresses/" + url.PathEscape(trimmed) + suffix, nil
}
