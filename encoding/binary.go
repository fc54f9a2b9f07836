package encoding

import "github.com/vmihailenco/msgpack/v5"

// NewBinary returns the compact msgpack encoding. It produces the smallest
// blobs of the built-in strategies and is the fastest, but the output is not
// human-editable.
func NewBinary[T any]() Encoding[T] {
	return binaryEncoding[T]{}
}

type binaryEncoding[T any] struct{}

func (binaryEncoding[T]) Encode(v *T) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (binaryEncoding[T]) Decode(data []byte, v *T) error {
	return msgpack.Unmarshal(data, v)
}

func (binaryEncoding[T]) Name() string {
	return NameBinary
}
