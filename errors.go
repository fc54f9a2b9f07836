package rustbreak

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrPoisoned is returned once a write-class closure has panicked while
// holding the database's exclusive lock. The in-memory value may be partially
// mutated and can no longer be trusted; the instance must be discarded and a
// fresh one opened from the last saved state.
var ErrPoisoned = errors.New("database poisoned: a previous writer terminated abnormally")

// BackendError reports an I/O failure of the storage medium. The underlying
// error is surfaced verbatim and never retried.
type BackendError struct {
	Op  string // "open", "read", "replace" or "close"
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// SerializationError reports an encode or decode failure. On decode the
// in-memory value is left unmodified, on encode the backend is left
// unmodified.
type SerializationError struct {
	Encoding string
	Op       string // "encode" or "decode"
	Err      error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Encoding, e.Op, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
