package encoding

import (
	"bytes"
	"encoding/gob"
)

// NewGob returns an encoding using Go's native gob format. It is binary and
// Go-specific; prefer it when the data never leaves Go programs.
func NewGob[T any]() Encoding[T] {
	return gobEncoding[T]{}
}

type gobEncoding[T any] struct{}

func (gobEncoding[T]) Encode(v *T) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gobEncoding[T]) Decode(data []byte, v *T) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

func (gobEncoding[T]) Name() string {
	return NameGob
}
