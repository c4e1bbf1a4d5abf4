package structs

import "encoding/json"

// Nullable tells an absent JSON field apart from an explicit null.
// Set is false when the field was missing, Value is nil for null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func NullableOf[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Value)
}

// Or returns the sent value, or current when the field was absent
func (n Nullable[T]) Or(current *T) *T {
	if n.Set {
		return n.Value
	}
	return current
}
