package backend

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

var jsonNull = []byte("null")

// flexString accepts strings, numbers and {_id} / {$oid} references.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		*f = ""
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case '{':
		var ref struct {
			ID  flexString `json:"_id"`
			OID string     `json:"$oid"`
		}
		if err := json.Unmarshal(trimmed, &ref); err != nil {
			*f = ""
			return nil
		}
		if ref.ID != "" {
			*f = ref.ID
		} else {
			*f = flexString(ref.OID)
		}
	case '[':
		*f = ""
	default:
		*f = flexString(trimmed)
	}
	return nil
}

func (f flexString) String() string {
	return strings.TrimSpace(string(f))
}

// firstString returns the first non-empty candidate.
func firstString(candidates ...flexString) string {
	for _, c := range candidates {
		if s := c.String(); s != "" {
			return s
		}
	}
	return ""
}

// flexNumber accepts numbers and numeric strings. Unparseable values decode
// as zero. set is false only when the field was absent or null.
type flexNumber struct {
	value decimal.Decimal
	set   bool
}

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		*f = flexNumber{}
		return nil
	}
	f.set = true
	f.value = decimal.Zero

	raw := string(trimmed)
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	if parsed, err := decimal.NewFromString(raw); err == nil {
		f.value = parsed
	}
	return nil
}

// or returns f when it was set, else other.
func (f flexNumber) or(other flexNumber) flexNumber {
	if f.set {
		return f
	}
	return other
}

func (f flexNumber) decimal() decimal.Decimal {
	return f.value
}

// nonNegativeInt truncates to an integer and clamps below at zero.
func (f flexNumber) nonNegativeInt() int {
	n := f.value.IntPart()
	if n < 0 {
		return 0
	}
	return int(n)
}

// rawList decodes a JSON array into its raw elements. Anything else decodes
// as an empty list.
type rawList []json.RawMessage

func (l *rawList) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		*l = nil
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		*l = nil
		return nil
	}
	*l = items
	return nil
}

// strings returns the non-empty string elements.
func (l rawList) strings() []string {
	out := make([]string, 0, len(l))
	for _, item := range l {
		var s flexString
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		if v := s.String(); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// flexMap decodes a JSON object into string values. Non-string values keep
// their JSON text.
type flexMap map[string]string

func (m *flexMap) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*m = nil
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		*m = nil
		return nil
	}
	out := make(flexMap, len(fields))
	for key, raw := range fields {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			out[key] = s
			continue
		}
		if !bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
			out[key] = string(bytes.TrimSpace(raw))
		}
	}
	*m = out
	return nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
