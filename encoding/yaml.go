package encoding

import "github.com/goccy/go-yaml"

// NewYAML returns the YAML encoding. It is the most permissive of the
// human-editable strategies and well suited for configuration-style data.
func NewYAML[T any]() Encoding[T] {
	return yamlEncoding[T]{}
}

type yamlEncoding[T any] struct{}

func (yamlEncoding[T]) Encode(v *T) ([]byte, error) {
	return yaml.Marshal(v)
}

func (yamlEncoding[T]) Decode(data []byte, v *T) error {
	return yaml.Unmarshal(data, v)
}

func (yamlEncoding[T]) Name() string {
	return NameYAML
}
