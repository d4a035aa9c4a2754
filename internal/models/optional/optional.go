// Package optional distinguishes absent, null and present JSON fields for
// partial updates.
package optional

import (
	"bytes"
	"encoding/json"
)

// Value is absent until the decoder sees its key. An explicit null marks it
// Set with Null true.
type Value[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Of[T any](v T) Value[T] {
	return Value[T]{Set: true, Value: v}
}

func Null[T any]() Value[T] {
	return Value[T]{Set: true, Null: true}
}

// UnmarshalJSON is only called when the key exists in the payload.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	v.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		v.Null = true
		var zero T
		v.Value = zero
		return nil
	}
	v.Null = false
	return json.Unmarshal(data, &v.Value)
}

// Ptr returns nil for null, otherwise a pointer to the value.
func (v Value[T]) Ptr() *T {
	if v.Null {
		return nil
	}
	value := v.Value
	return &value
}
