package adapter

import "encoding/json"

// Item decodes one element of a platform item list. A malformed element
// never fails the enclosing response: its decode error is kept in Err and
// the element is dropped during normalization.
type Item[T any] struct {
	Value T
	Err   error
}

// UnmarshalJSON implements json.Unmarshaler.
func (it *Item[T]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		it.Value, it.Err = zero, err
		return nil
	}
	it.Value, it.Err = v, nil
	return nil
}

// DropReason returns the reason recorded for an item that failed to decode.
func (it Item[T]) DropReason() string {
	return "malformed item: " + it.Err.Error()
}
