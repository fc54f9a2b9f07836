// Package backend defines where a database's durable bytes live.
// Implement a new storage medium by creating a type that satisfies the
// Backend interface.
package backend

import "io"

// A Backend owns a durable byte storage medium holding exactly one blob:
// Replace overwrites the blob wholesale and ReadAll returns it in full, so a
// completed Replace followed by a ReadAll always yields the same bytes.
//
// A zero-length result from ReadAll means the backend holds no prior content
// yet; the database seeds its caller-supplied default value in that case.
//
// Backends guard their medium with their own lock, independent of any lock
// the database holds, since the database may call Replace without holding
// its container lock.
type Backend interface {
	// ReadAll returns the full current durable content.
	ReadAll() ([]byte, error)
	// Replace overwrites the durable content wholesale.
	Replace(data []byte) error
	// Close releases any resources associated with the medium. It does not
	// flush anything; the last completed Replace is already durable.
	io.Closer
}
