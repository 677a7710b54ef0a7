package address

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/innovativehub/storefront/pkg/types"
)

type stubClient struct {
	user  types.User
	err   error
	calls []string
	sent  types.Address
}

func (s *stubClient) AddAddress(ctx context.Context, addr types.Address) (types.User, error) {
	s.calls = append(s.calls, "add")
	s.sent = addr
	if s.err != nil {
		return types.User{}, s.err
	}
	return s.user, nil
}

func (s *stubClient) UpdateAddress(ctx context.Context, id string, addr types.Address) (types.User, error) {
	s.calls = append(s.calls, "update:"+id)
	s.sent = addr
	if s.err != nil {
		return types.User{}, s.err
	}
	return s.user, nil
}

func (s *stubClient) DeleteAddress(ctx context.Context, id string) (types.User, error) {
	s.calls = append(s.calls, "delete:"+id)
	if s.err != nil {
		return types.User{}, s.err
	}
	return s.user, nil
}

func (s *stubClient) SetDefaultAddress(ctx context.Context, id string) (types.User, error) {
	s.calls = append(s.calls, "default:"+id)
	if s.err != nil {
		return types.User{}, s.err
	}
	return s.user, nil
}

type stubSession struct {
	user *types.User
	set  int
}

func (s *stubSession) User() (types.User, bool) {
	if s.user == nil {
		return types.User{}, false
	}
	return *s.user, true
}

func (s *stubSession) SetUser(user types.User) {
	s.set++
	s.user = &user
}

func home() types.Address {
	return types.Address{ID: "a1", FullName: "Asha Rao", Mobile: "9876543210", AddressLine1: "12 MG Road", City: "Pune", State: "Maharashtra", Pincode: "411001", IsDefault: true}
}

func office() types.Address {
	return types.Address{ID: "a2", FullName: "Asha Rao", Mobile: "9876543210", AddressLine1: "4 Park St", City: "Kolkata", State: "West Bengal", Pincode: "700016"}
}

func newService(t *testing.T, client *stubClient, session *stubSession) Service {
	t.Helper()
	svc, err := NewService(client, session, logger.Nop())
	require.NoError(t, err)
	return svc
}

func signedIn(addresses ...types.Address) *stubSession {
	return &stubSession{user: &types.User{ID: "u1", Email: "asha@example.com", Addresses: addresses}}
}

func TestListRequiresLogin(t *testing.T) {
	svc := newService(t, &stubClient{}, &stubSession{})

	_, err := svc.List(context.Background())
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestDefaultFallsBackToFirst(t *testing.T) {
	addr, ok := DefaultAddress([]types.Address{office(), {ID: "a3"}})
	require.True(t, ok)
	require.Equal(t, "a2", addr.ID)

	_, ok = DefaultAddress(nil)
	require.False(t, ok)
}

func TestAddValidatesBeforeCalling(t *testing.T) {
	client := &stubClient{}
	svc := newService(t, client, signedIn())

	bad := office()
	bad.ID = ""
	bad.Pincode = "7000"
	_, err := svc.Add(context.Background(), bad)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	require.Empty(t, client.calls)

	bad = office()
	bad.Mobile = "12345"
	_, err = svc.Add(context.Background(), bad)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for mobile, got %v", err)
	}
}

func TestAddRefreshesSession(t *testing.T) {
	client := &stubClient{user: types.User{ID: "u1", Email: "asha@example.com", Addresses: []types.Address{home(), office()}}}
	session := signedIn(home())
	svc := newService(t, client, session)

	input := office()
	input.City = "  Kolkata "
	addresses, err := svc.Add(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	require.Equal(t, "Kolkata", client.sent.City)
	require.Equal(t, 1, session.set)
	require.Len(t, session.user.Addresses, 2)
}

func TestAddKeepsProfileWhenServerReturnsOnlyAddresses(t *testing.T) {
	client := &stubClient{user: types.User{Addresses: []types.Address{home(), office()}}}
	session := signedIn(home())
	svc := newService(t, client, session)

	_, err := svc.Add(context.Background(), office())
	require.NoError(t, err)
	require.Equal(t, "u1", session.user.ID)
	require.Equal(t, "asha@example.com", session.user.Email)
}

func TestUpdateUnknownAddress(t *testing.T) {
	client := &stubClient{}
	svc := newService(t, client, signedIn(home()))

	_, err := svc.Update(context.Background(), "missing", office())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	require.Empty(t, client.calls)
}

func TestUpdateUsesPathID(t *testing.T) {
	client := &stubClient{user: types.User{ID: "u1", Addresses: []types.Address{home()}}}
	svc := newService(t, client, signedIn(home()))

	input := home()
	input.ID = "other"
	_, err := svc.Update(context.Background(), "a1", input)
	require.NoError(t, err)
	require.Equal(t, []string{"update:a1"}, client.calls)
	require.Equal(t, "a1", client.sent.ID)
}

func TestSetDefaultIsExclusive(t *testing.T) {
	second := office()
	second.IsDefault = true
	client := &stubClient{user: types.User{ID: "u1", Addresses: []types.Address{home(), second}}}
	session := signedIn(home(), office())
	svc := newService(t, client, session)

	addresses, err := svc.SetDefault(context.Background(), "a2")
	require.NoError(t, err)

	defaults := 0
	for _, addr := range addresses {
		if addr.IsDefault {
			defaults++
			require.Equal(t, "a2", addr.ID)
		}
	}
	require.Equal(t, 1, defaults)
	got, ok := DefaultAddress(session.user.Addresses)
	require.True(t, ok)
	require.Equal(t, "a2", got.ID)
}

func TestDeleteFailureLeavesSession(t *testing.T) {
	client := &stubClient{err: errors.New("boom")}
	session := signedIn(home(), office())
	svc := newService(t, client, session)

	_, err := svc.Delete(context.Background(), "a2")
	require.Error(t, err)
	require.Equal(t, 0, session.set)
	require.Len(t, session.user.Addresses, 2)
}

func TestExclusiveDefaultKeepsFirstFlagged(t *testing.T) {
	a, b := home(), office()
	b.IsDefault = true
	out := exclusiveDefault([]types.Address{a, b}, "")
	require.True(t, out[0].IsDefault)
	require.False(t, out[1].IsDefault)
	require.True(t, b.IsDefault)
}
