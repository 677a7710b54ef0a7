// Package address manages the signed-in user's saved shipping addresses.
package address

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/innovativehub/storefront/pkg/types"
	"github.com/innovativehub/storefront/pkg/validation"
)

const msgLoginRequired = "Please log in to manage addresses"

type addressClient interface {
	AddAddress(ctx context.Context, addr types.Address) (types.User, error)
	UpdateAddress(ctx context.Context, id string, addr types.Address) (types.User, error)
	DeleteAddress(ctx context.Context, id string) (types.User, error)
	SetDefaultAddress(ctx context.Context, id string) (types.User, error)
}

// userSession is the auth state the address book reads and refreshes.
type userSession interface {
	User() (types.User, bool)
	SetUser(user types.User)
}

type Service interface {
	List(ctx context.Context) ([]types.Address, error)
	Default(ctx context.Context) (types.Address, bool)
	Add(ctx context.Context, addr types.Address) ([]types.Address, error)
	Update(ctx context.Context, id string, addr types.Address) ([]types.Address, error)
	Delete(ctx context.Context, id string) ([]types.Address, error)
	SetDefault(ctx context.Context, id string) ([]types.Address, error)
}

type service struct {
	client  addressClient
	session userSession
	logg    *logger.Logger
}

func NewService(client addressClient, session userSession, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("address client is required")
	}
	if session == nil {
		return nil, fmt.Errorf("user session is required")
	}
	return &service{client: client, session: session, logg: logg}, nil
}

func (s *service) List(ctx context.Context) ([]types.Address, error) {
	user, err := s.user()
	if err != nil {
		return nil, err
	}
	return cloneAddresses(user.Addresses), nil
}

// Default returns the user's default address, else the first one saved.
func (s *service) Default(ctx context.Context) (types.Address, bool) {
	user, ok := s.session.User()
	if !ok {
		return types.Address{}, false
	}
	return DefaultAddress(user.Addresses)
}

func (s *service) Add(ctx context.Context, addr types.Address) ([]types.Address, error) {
	if _, err := s.user(); err != nil {
		return nil, err
	}
	addr = normalize(addr)
	if err := validation.Struct(addr); err != nil {
		return nil, err
	}
	return s.apply(ctx, "add", func() (types.User, error) {
		return s.client.AddAddress(ctx, addr)
	})
}

func (s *service) Update(ctx context.Context, id string, addr types.Address) ([]types.Address, error) {
	if _, err := s.owned(id); err != nil {
		return nil, err
	}
	addr = normalize(addr)
	addr.ID = strings.TrimSpace(id)
	if err := validation.Struct(addr); err != nil {
		return nil, err
	}
	return s.apply(ctx, "update", func() (types.User, error) {
		return s.client.UpdateAddress(ctx, addr.ID, addr)
	})
}

func (s *service) Delete(ctx context.Context, id string) ([]types.Address, error) {
	addr, err := s.owned(id)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, "delete", func() (types.User, error) {
		return s.client.DeleteAddress(ctx, addr.ID)
	})
}

// SetDefault makes one address the default. Only one address may be
// default, whatever the server returns.
func (s *service) SetDefault(ctx context.Context, id string) ([]types.Address, error) {
	addr, err := s.owned(id)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, "set_default", func() (types.User, error) {
		user, err := s.client.SetDefaultAddress(ctx, addr.ID)
		if err != nil {
			return types.User{}, err
		}
		user.Addresses = exclusiveDefault(user.Addresses, addr.ID)
		return user, nil
	})
}

func (s *service) apply(ctx context.Context, op string, call func() (types.User, error)) ([]types.Address, error) {
	user, err := call()
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "op", op), fmt.Sprintf("address %s failed: %v", op, err))
		return nil, err
	}
	current, ok := s.session.User()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, msgLoginRequired)
	}
	// Endpoints that answer with only the address list keep the rest of the
	// signed-in profile.
	if user.ID == "" {
		current.Addresses = user.Addresses
		user = current
	}
	user.Addresses = exclusiveDefault(user.Addresses, "")
	s.session.SetUser(user)
	return cloneAddresses(user.Addresses), nil
}

func (s *service) user() (types.User, error) {
	user, ok := s.session.User()
	if !ok {
		return types.User{}, pkgerrors.New(pkgerrors.CodeUnauthorized, msgLoginRequired)
	}
	return user, nil
}

func (s *service) owned(id string) (types.Address, error) {
	user, err := s.user()
	if err != nil {
		return types.Address{}, err
	}
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return types.Address{}, pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}
	addr, ok := user.AddressByID(trimmed)
	if !ok {
		return types.Address{}, pkgerrors.New(pkgerrors.CodeNotFound, "Address not found")
	}
	return addr, nil
}

// DefaultAddress returns the address flagged default, else the first.
func DefaultAddress(addresses []types.Address) (types.Address, bool) {
	return types.User{Addresses: addresses}.DefaultAddress()
}

// exclusiveDefault leaves at most one default. preferred wins when set,
// otherwise the first flagged address keeps the flag.
func exclusiveDefault(addresses []types.Address, preferred string) []types.Address {
	out := cloneAddresses(addresses)
	keep := -1
	for i, addr := range out {
		if preferred != "" && addr.ID == preferred {
			keep = i
			break
		}
		if preferred == "" && addr.IsDefault && keep < 0 {
			keep = i
		}
	}
	for i := range out {
		out[i].IsDefault = i == keep
	}
	return out
}

func normalize(addr types.Address) types.Address {
	addr.FullName = strings.TrimSpace(addr.FullName)
	addr.Mobile = strings.TrimSpace(addr.Mobile)
	addr.AddressLine1 = strings.TrimSpace(addr.AddressLine1)
	addr.AddressLine2 = strings.TrimSpace(addr.AddressLine2)
	addr.City = strings.TrimSpace(addr.City)
	addr.State = strings.TrimSpace(addr.State)
	addr.Pincode = strings.TrimSpace(addr.Pincode)
	return addr
}

func cloneAddresses(addresses []types.Address) []types.Address {
	out := make([]types.Address, len(addresses))
	copy(out, addresses)
	return out
}
