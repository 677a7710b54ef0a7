package enums

import (
	"fmt"
	"strings"
)

// GSTMode records whether a product's listed price already carries GST.
type GSTMode string

const (
	GSTModeIncluding GSTMode = "including"
	GSTModeExcluding GSTMode = "excluding"
)

var validGSTModes = []GSTMode{
	GSTModeIncluding,
	GSTModeExcluding,
}

// String implements fmt.Stringer.
func (g GSTMode) String() string {
	return string(g)
}

// IsValid reports whether the value is a known GSTMode.
func (g GSTMode) IsValid() bool {
	for _, candidate := range validGSTModes {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGSTMode converts raw input into a GSTMode. Empty input means the
// price already includes GST.
func ParseGSTMode(value string) (GSTMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return GSTModeIncluding, nil
	}
	for _, candidate := range validGSTModes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid gst mode %q", value)
}
