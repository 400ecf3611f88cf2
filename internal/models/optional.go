package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Optional tracks whether a field was present in a partial write and
// whether it was explicitly null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns a present Optional holding JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// Present reports whether the field carries a value.
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}

// UnmarshalJSON marks the field as set; null is recorded, not decoded.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	if t, ok := any(&o.Value).(*time.Time); ok {
		return decodeTime(data, t)
	}
	return json.Unmarshal(data, &o.Value)
}

// decodeTime accepts an RFC 3339 timestamp or a date-only string, the
// latter as midnight UTC.
func decodeTime(data []byte, dst *time.Time) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		d, dateErr := time.ParseInLocation(time.DateOnly, s, time.UTC)
		if dateErr != nil {
			return err
		}
		t = d
	}
	*dst = t
	return nil
}

// MarshalJSON writes null for absent and null fields.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
