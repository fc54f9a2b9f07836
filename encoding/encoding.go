// Package encoding converts typed values to and from the byte blobs a
// backend stores. Strategies are stateless and interchangeable at database
// construction time; mixing encodings on the same backend content across
// opens is a caller error and is not detected.
package encoding

import "fmt"

// An Encoding is a stateless strategy turning a value into bytes and back.
// Implementations round-trip: decoding the output of Encode yields a value
// equal to the input.
type Encoding[T any] interface {
	// Encode serializes v.
	Encode(v *T) ([]byte, error)
	// Decode deserializes data into v. When Decode fails, v is
	// unspecified and must be discarded by the caller.
	Decode(data []byte, v *T) error
	// Name returns the encoding's recognized configuration name.
	Name() string
}

// Recognized encoding names.
const (
	NameBinary = "binary"
	NameJSON   = "json"
	NameYAML   = "yaml"
	NameGob    = "gob"
)

// ForName returns the encoding strategy registered under name.
func ForName[T any](name string) (Encoding[T], error) {
	switch name {
	case NameBinary:
		return NewBinary[T](), nil
	case NameJSON:
		return NewJSON[T](), nil
	case NameYAML:
		return NewYAML[T](), nil
	case NameGob:
		return NewGob[T](), nil
	default:
		return nil, fmt.Errorf("unrecognized encoding %+q", name)
	}
}
