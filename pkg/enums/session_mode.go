package enums

import "fmt"

// SessionMode is the persistence mode the stores run in.
type SessionMode string

const (
	SessionModeGuest         SessionMode = "guest"
	SessionModeAuthenticated SessionMode = "authenticated"
)

var validSessionModes = []SessionMode{
	SessionModeGuest,
	SessionModeAuthenticated,
}

// ModeFor maps the auth flag onto a SessionMode.
func ModeFor(authenticated bool) SessionMode {
	if authenticated {
		return SessionModeAuthenticated
	}
	return SessionModeGuest
}

// String implements fmt.Stringer.
func (m SessionMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known SessionMode.
func (m SessionMode) IsValid() bool {
	for _, candidate := range validSessionModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseSessionMode converts raw input into a SessionMode.
func ParseSessionMode(value string) (SessionMode, error) {
	for _, candidate := range validSessionModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid session mode %q", value)
}
