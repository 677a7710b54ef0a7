// Package auth is the authentication collaborator of a browsing session. It
// exposes the user, whether the session is authenticated, and login/logout,
// and tells subscribers every time the authenticated flag flips.
package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	pkgAuth "github.com/innovativehub/storefront/pkg/auth"
	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/innovativehub/storefront/pkg/types"
	"github.com/innovativehub/storefront/pkg/validation"
)

type backendClient interface {
	Login(ctx context.Context, email, password string) (types.AuthResult, error)
	Register(ctx context.Context, req types.RegisterRequest) (types.AuthResult, error)
	GoogleLogin(ctx context.Context, tokenID string) (types.AuthResult, error)
	Me(ctx context.Context) (types.User, error)
}

// Listener observes authentication transitions. It runs synchronously on the
// goroutine that caused the transition.
type Listener func(ctx context.Context, authenticated bool)

// SessionParams bundles the dependencies of a Session.
type SessionParams struct {
	Backend backendClient
	Tokens  *TokenStore
	Logger  *logger.Logger
	Now     func() time.Time
}

// Session tracks who is signed in for one browsing session.
type Session struct {
	backend backendClient
	tokens  *TokenStore
	logg    *logger.Logger
	now     func() time.Time

	mu        sync.RWMutex
	user      *types.User
	listeners []Listener
}

func NewSession(params SessionParams) (*Session, error) {
	if params.Backend == nil {
		return nil, fmt.Errorf("auth backend is required")
	}
	if params.Tokens == nil {
		return nil, fmt.Errorf("token store is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		backend: params.Backend,
		tokens:  params.Tokens,
		logg:    params.Logger,
		now:     now,
	}, nil
}

// Subscribe registers l for future transitions.
func (s *Session) Subscribe(l Listener) {
	if l == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// User returns a copy of the signed-in user.
func (s *Session) User() (types.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return types.User{}, false
	}
	return cloneUser(*s.user), true
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// SetUser replaces the cached account after a server-side profile change.
// It is ignored while signed out.
func (s *Session) SetUser(user types.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return
	}
	updated := cloneUser(user)
	s.user = &updated
}

func (s *Session) Login(ctx context.Context, email, password string) (types.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return types.User{}, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}
	result, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return types.User{}, err
	}
	return s.signIn(ctx, result)
}

// Register creates an account. An empty name defaults to the local part of
// the email address.
func (s *Session) Register(ctx context.Context, req types.RegisterRequest) (types.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Mobile = strings.TrimSpace(req.Mobile)
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		req.Name = emailLocalPart(req.Email)
	}
	if err := validation.Struct(req); err != nil {
		return types.User{}, err
	}
	result, err := s.backend.Register(ctx, req)
	if err != nil {
		return types.User{}, err
	}
	return s.signIn(ctx, result)
}

func (s *Session) GoogleLogin(ctx context.Context, tokenID string) (types.User, error) {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return types.User{}, pkgerrors.New(pkgerrors.CodeValidation, "google token id is required")
	}
	result, err := s.backend.GoogleLogin(ctx, tokenID)
	if err != nil {
		return types.User{}, err
	}
	return s.signIn(ctx, result)
}

// Logout forgets the token and the user.
func (s *Session) Logout(ctx context.Context) {
	if err := s.tokens.Clear(ctx); err != nil {
		s.logg.Error(ctx, "clear auth token", err)
	}
	s.setUser(ctx, nil)
}

// Restore signs the session back in from a persisted token. Expired or
// rejected tokens are removed and the session stays a guest.
func (s *Session) Restore(ctx context.Context) bool {
	token := s.tokens.Token(ctx)
	if token == "" {
		return false
	}

	info, err := pkgAuth.InspectToken(token)
	if err != nil || info.Expired(s.now()) {
		s.logg.Warn(ctx, "discarding unusable auth token")
		s.dropToken(ctx)
		return false
	}

	user, err := s.backend.Me(ctx)
	if err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("restore session failed: %v", err))
		s.dropToken(ctx)
		return false
	}
	s.setUser(ctx, &user)
	return true
}

func (s *Session) signIn(ctx context.Context, result types.AuthResult) (types.User, error) {
	if err := s.tokens.Save(ctx, result.Token); err != nil {
		return types.User{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist auth token")
	}
	user := result.User
	s.setUser(ctx, &user)
	return cloneUser(user), nil
}

func (s *Session) dropToken(ctx context.Context) {
	if err := s.tokens.Clear(ctx); err != nil {
		s.logg.Error(ctx, "clear auth token", err)
	}
}

// setUser swaps the user and notifies listeners when the authenticated flag
// changed. Listeners run without the lock held.
func (s *Session) setUser(ctx context.Context, user *types.User) {
	s.mu.Lock()
	was := s.user != nil
	if user != nil {
		copied := cloneUser(*user)
		s.user = &copied
	} else {
		s.user = nil
	}
	is := s.user != nil
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	if was == is {
		return
	}
	if user != nil {
		ctx = s.logg.WithUserID(ctx, user.ID)
	}
	s.logg.Info(ctx, fmt.Sprintf("authentication changed: authenticated=%t", is))
	for _, l := range listeners {
		l(ctx, is)
	}
}

func emailLocalPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

func cloneUser(u types.User) types.User {
	u.Addresses = append([]types.Address(nil), u.Addresses...)
	return u
}
