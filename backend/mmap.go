package backend

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/TheNeikos/rustbreak/mmap"
)

// Mmap is a backend that writes through a memory-mapped, file-backed region.
//
// Replace is NOT crash-atomic: a crash mid-write can leave a mix of old and
// new bytes in the file. That is the price of the lower-overhead, zero-copy
// write path; use File where crash safety matters.
//
// The backing file's size is the logical data length. Replace truncates the
// file to exactly len(data), so no header is needed and reopening an existing
// file recovers the previous content as-is. The mapping itself is kept at
// least capacity bytes long and doubles whenever a Replace outgrows it; pages
// past the end of the file are never touched.
type Mmap struct {
	// mtx guards buf and the file length
	mtx    sync.Mutex
	file   *os.File
	buf    []byte
	length *atomic.Int64
}

// NewMmap opens the file at path and maps it with room for at least capacity
// bytes. A file that does not yet exist is created empty and reads as no
// prior content.
func NewMmap(path string, capacity int) (*Mmap, error) {
	if capacity <= 0 {
		return nil, errors.Errorf("mmap capacity must be positive, got: %d", capacity)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not get absolute path for: %s", path)
	}

	f, err := os.OpenFile(abs, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "could not create/open file: %s", abs)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "could not stat file: %s", abs)
	}

	size := int(fi.Size())
	if capacity < size {
		capacity = size
	}

	buf, err := mmap.Map(f, capacity)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "could not map file: %s", abs)
	}

	return &Mmap{
		file:   f,
		buf:    buf,
		length: atomic.NewInt64(int64(size)),
	}, nil
}

// ReadAll returns a copy of the mapped region up to the logical length.
func (m *Mmap) ReadAll() ([]byte, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	n := int(m.length.Load())
	out := make([]byte, n)
	copy(out, m.buf[:n])

	return out, nil
}

// Replace writes data through the mapping, growing or truncating the backing
// file first when the length changes. A failure to grow the file or the
// mapping leaves the previous content and length in place.
func (m *Mmap) Replace(data []byte) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	n := len(data)
	old := int(m.length.Load())

	if n > len(m.buf) {
		if err := m.grow(n); err != nil {
			return err
		}
	}

	// grow the file before touching pages past the old end of file
	if n > old {
		if err := m.file.Truncate(int64(n)); err != nil {
			return errors.Wrapf(err, "could not grow file to %d bytes", n)
		}
	}

	copy(m.buf[:n], data)

	if n < old {
		if err := m.file.Truncate(int64(n)); err != nil {
			return errors.Wrapf(err, "could not truncate file to %d bytes", n)
		}
	}

	if err := mmap.Sync(m.file, m.buf); err != nil {
		return errors.Wrap(err, "could not sync mapped region")
	}

	m.length.Store(int64(n))

	return nil
}

// grow remaps the region to max(2*len, need) bytes. The old mapping is only
// released once the new one is in place.
func (m *Mmap) grow(need int) error {
	size := 2 * len(m.buf)
	if size < need {
		size = need
	}

	buf, err := mmap.Map(m.file, size)
	if err != nil {
		return errors.Wrapf(err, "could not grow mapping to %d bytes", size)
	}

	if err := mmap.Unmap(m.buf); err != nil {
		_ = mmap.Unmap(buf)
		return errors.Wrap(err, "could not release old mapping")
	}

	m.buf = buf

	return nil
}

// Length returns the logical data length in bytes.
func (m *Mmap) Length() int64 {
	return m.length.Load()
}

// Close releases the mapping and closes the backing file. Closing an
// already-closed backend is a no-op.
func (m *Mmap) Close() error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.file == nil {
		return nil
	}

	if m.buf != nil {
		if err := mmap.Unmap(m.buf); err != nil {
			_ = m.file.Close()
			m.file = nil
			return errors.Wrap(err, "could not release mapping")
		}

		m.buf = nil
	}

	// the platform mapping layer may have grown the file to the mapping
	// size; shrink it back so the file length equals the logical data
	// length again and a reopen recovers the right content
	if err := m.file.Truncate(m.length.Load()); err != nil {
		_ = m.file.Close()
		m.file = nil
		return errors.Wrap(err, "could not restore file length")
	}

	err := m.file.Close()
	m.file = nil

	return err
}
