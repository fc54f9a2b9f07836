package encoding

import "encoding/json"

// NewJSON returns the indented JSON encoding. The output is human-readable
// and editable at the cost of larger blobs.
func NewJSON[T any]() Encoding[T] {
	return jsonEncoding[T]{}
}

type jsonEncoding[T any] struct{}

func (jsonEncoding[T]) Encode(v *T) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func (jsonEncoding[T]) Decode(data []byte, v *T) error {
	return json.Unmarshal(data, v)
}

func (jsonEncoding[T]) Name() string {
	return NameJSON
}
