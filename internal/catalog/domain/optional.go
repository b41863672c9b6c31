package domain

import "encoding/json"

// Optional marks whether a field was present in a request payload. It lets
// partial updates distinguish "not provided" from "explicitly set to null":
// Optional[*string]{Set: true, Value: nil} clears a column, while the zero
// Optional leaves it untouched.
type Optional[T any] struct {
	Value T
	Set   bool
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Some returns a set Optional, mainly for building updates in tests.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}
