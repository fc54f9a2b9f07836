// Package rustbreak is an embeddable, in-process persistence layer. An
// application holds a typed value in memory, mutates it under a
// reader/writer lock, and durably persists it on demand through a pluggable
// backend (where the bytes live) and a pluggable encoding (how the value
// becomes bytes).
//
// Persistence is always explicit: mutations stay in memory until Save is
// called, and a database that is discarded without a Save loses its unsaved
// mutations. There is no background flushing and no save-on-close.
//
// A Database is safe for concurrent use by many goroutines within one
// process. Two processes pointed at the same backend file are not
// coordinated and may destroy each other's writes.
package rustbreak

import (
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/TheNeikos/rustbreak/backend"
	"github.com/TheNeikos/rustbreak/encoding"
)

// Option overrides a default database option.
type Option func(*options)

type options struct {
	log *logrus.Logger
}

// Logger overrides the database's default logger. The database logs
// operational events at debug level; errors are always returned to the
// caller, never only logged.
func Logger(l *logrus.Logger) Option {
	return func(opts *options) {
		opts.log = l
	}
}

// Stats holds counters for the explicit persistence operations completed by
// a database.
type Stats struct {
	Saves int64
	Loads int64
}

// Database composes a lock-guarded in-memory value, a backend and an
// encoding. All access to the value goes through closure-scoped Read and
// Write calls; Save and Load move the value to and from the backend.
type Database[T any] struct {
	log *logrus.Logger

	c   *container[T]
	b   backend.Backend
	enc encoding.Encoding[T]

	saves *atomic.Int64
	loads *atomic.Int64
}

// Open composes a database from a backend, an encoding and a default value.
// If the backend holds no prior content the database starts from def and
// nothing is persisted until the first Save. Existing content is decoded; a
// decode failure aborts the open with a SerializationError.
func Open[T any](b backend.Backend, enc encoding.Encoding[T], def T, opts ...Option) (*Database[T], error) {
	cfg := &options{
		log: defaultLogger(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	data, err := b.ReadAll()
	if err != nil {
		return nil, &BackendError{Op: "read", Err: err}
	}

	value := def
	if len(data) > 0 {
		var decoded T
		if err := enc.Decode(data, &decoded); err != nil {
			return nil, &SerializationError{Encoding: enc.Name(), Op: "decode", Err: err}
		}

		value = decoded
	}

	cfg.log.Debugf("opened database: encoding=%s existing=%v", enc.Name(), len(data) > 0)

	return &Database[T]{
		log:   cfg.log,
		c:     newContainer(value),
		b:     b,
		enc:   enc,
		saves: atomic.NewInt64(0),
		loads: atomic.NewInt64(0),
	}, nil
}

// OpenMemory returns a database backed by an in-process buffer. Nothing
// survives the process; useful for tests and caches.
func OpenMemory[T any](enc encoding.Encoding[T], def T, opts ...Option) (*Database[T], error) {
	return Open(backend.NewMemory(), enc, def, opts...)
}

// OpenFile returns a database backed by the file at path, with atomic saves.
// Existing content at path is loaded; a missing file seeds the database with
// def and is not created until the first Save.
func OpenFile[T any](path string, enc encoding.Encoding[T], def T, opts ...Option) (*Database[T], error) {
	b, err := backend.NewFile(path)
	if err != nil {
		return nil, &BackendError{Op: "open", Err: err}
	}

	return Open(b, enc, def, opts...)
}

// OpenMmap returns a database backed by a memory-mapped file at path, mapped
// with room for at least capacity bytes. A missing file is created empty and
// seeds the database with def. Saves through this backend are not
// crash-atomic; see backend.Mmap.
func OpenMmap[T any](path string, enc encoding.Encoding[T], def T, capacity int, opts ...Option) (*Database[T], error) {
	b, err := backend.NewMmap(path, capacity)
	if err != nil {
		return nil, &BackendError{Op: "open", Err: err}
	}

	db, err := Open(b, enc, def, opts...)
	if err != nil {
		_ = b.Close()
		return nil, err
	}

	return db, nil
}

// Read runs fn with shared access to the value. Concurrent Read calls
// proceed without blocking each other. fn must not modify the value; results
// flow out through variables captured by fn.
func (d *Database[T]) Read(fn func(value *T)) error {
	return d.c.read(fn)
}

// Write runs fn with exclusive access to the value, blocking until all
// current readers and writers release. The mutation stays in memory only; it
// reaches the backend on the next Save.
func (d *Database[T]) Write(fn func(value *T)) error {
	return d.c.write(fn)
}

// Save encodes a snapshot of the current value and replaces the backend's
// durable content with it. The exclusive lock is held for the full
// encode-and-replace duration, a deliberate cost favoring correctness over
// throughput: concurrent writers block, and concurrent Saves serialize
// through the same lock. An encode failure leaves the backend untouched.
func (d *Database[T]) Save() error {
	var (
		size   int
		encErr error
		repErr error
	)

	err := d.c.write(func(value *T) {
		var data []byte
		data, encErr = d.enc.Encode(value)
		if encErr != nil {
			return
		}

		size = len(data)
		repErr = d.b.Replace(data)
	})
	if err != nil {
		return err
	}

	if encErr != nil {
		return &SerializationError{Encoding: d.enc.Name(), Op: "encode", Err: encErr}
	}
	if repErr != nil {
		return &BackendError{Op: "replace", Err: repErr}
	}

	d.saves.Inc()
	d.log.Debugf("saved %d bytes", size)

	return nil
}

// Load reads the backend's durable content, decodes it and wholesale
// replaces the in-memory value, discarding any unsaved mutations. Like Save,
// Load is a writer-class operation: the exclusive lock is held across the
// backend read, the decode and the swap, so no Write or Save can interleave
// with it. A read or decode failure leaves the value untouched.
func (d *Database[T]) Load() error {
	var (
		size    int
		readErr error
		decErr  error
	)

	err := d.c.write(func(value *T) {
		var data []byte
		data, readErr = d.b.ReadAll()
		if readErr != nil {
			return
		}

		size = len(data)

		var decoded T
		if decErr = d.enc.Decode(data, &decoded); decErr != nil {
			return
		}

		*value = decoded
	})
	if err != nil {
		return err
	}

	if readErr != nil {
		return &BackendError{Op: "read", Err: readErr}
	}
	if decErr != nil {
		return &SerializationError{Encoding: d.enc.Name(), Op: "decode", Err: decErr}
	}

	d.loads.Inc()
	d.log.Debugf("loaded %d bytes", size)

	return nil
}

// Data returns a copy of the current value taken under the shared lock. For
// reference types the copy is shallow.
func (d *Database[T]) Data() (T, error) {
	var out T

	err := d.c.read(func(value *T) {
		out = *value
	})

	return out, err
}

// SetData wholesale replaces the in-memory value without touching the
// backend.
func (d *Database[T]) SetData(value T) error {
	return d.c.replace(value)
}

// Stats returns how many Saves and Loads have completed successfully.
func (d *Database[T]) Stats() Stats {
	return Stats{
		Saves: d.saves.Load(),
		Loads: d.loads.Load(),
	}
}

// Close releases the backend's resources. It does not save; call Save first
// if unsaved mutations should survive.
func (d *Database[T]) Close() error {
	if err := d.b.Close(); err != nil {
		return &BackendError{Op: "close", Err: err}
	}

	return nil
}

// defaultLogger is quiet: the database only logs at debug level, so callers
// opt in by injecting their own logger via the Logger option.
func defaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)

	return l
}
