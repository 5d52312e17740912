package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Field is a provider value that may be absent, null or hold any JSON
// literal. The raw literal is kept so integer and float values stay
// distinguishable after decoding.
type Field struct {
	Set bool
	Raw json.RawMessage
}

// UnmarshalJSON records the literal, including null.
func (f *Field) UnmarshalJSON(data []byte) error {
	f.Set = true
	f.Raw = append(f.Raw[:0], data...)
	return nil
}

// MarshalJSON writes the literal back, or null when the field was never set.
func (f Field) MarshalJSON() ([]byte, error) {
	if !f.Set || len(f.Raw) == 0 {
		return []byte("null"), nil
	}
	return f.Raw, nil
}

// IsNull reports whether the field was present with a JSON null.
func (f Field) IsNull() bool {
	return f.Set && bytes.Equal(bytes.TrimSpace(f.Raw), []byte("null"))
}

// Number returns the numeric literal, if the field holds one.
func (f Field) Number() (json.Number, bool) {
	raw := bytes.TrimSpace(f.Raw)
	if !f.Set || len(raw) == 0 {
		return "", false
	}
	if c := raw[0]; c != '-' && (c < '0' || c > '9') {
		return "", false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", false
	}
	return n, true
}

// IsInteger reports whether the field holds an integer literal.
func (f Field) IsInteger() bool {
	n, ok := f.Number()
	return ok && !strings.ContainsAny(n.String(), ".eE")
}

// Bool returns the boolean value, if the field holds one.
func (f Field) Bool() (bool, bool) {
	raw := bytes.TrimSpace(f.Raw)
	if !f.Set || (!bytes.Equal(raw, []byte("true")) && !bytes.Equal(raw, []byte("false"))) {
		return false, false
	}
	return raw[0] == 't', true
}

// Text returns the string value, if the field holds one.
func (f Field) Text() (string, bool) {
	raw := bytes.TrimSpace(f.Raw)
	if !f.Set || len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
