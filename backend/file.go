package backend

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// File is a filesystem backend with atomic replace. Replace writes the new
// content to a uniquely named temporary file in the same directory, syncs it
// to disk, and renames it over the target path. A crash at any point before
// the rename leaves the previous content fully intact; after the rename only
// the new content is visible. No torn file is ever observable.
//
// File is the only backend with this guarantee.
type File struct {
	// mtx serializes replaces so concurrent savers cannot interleave their
	// temp-file renames out of order.
	mtx  sync.Mutex
	path string
}

// NewFile returns a File backend for path. The file is not created until the
// first Replace; a missing file reads as no prior content.
func NewFile(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not get absolute path for: %s", path)
	}

	return &File{path: abs}, nil
}

// Path returns the absolute path of the backing file.
func (f *File) Path() string {
	return f.path
}

// ReadAll returns the full file content, or empty content if the file does
// not exist yet.
func (f *File) ReadAll() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, errors.Wrapf(err, "could not read file: %s", f.path)
	}

	return data, nil
}

// Replace atomically overwrites the file with data via a temp file and
// rename. The temp file is removed on every failure path.
func (f *File) Replace(data []byte) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	tmp := filepath.Join(filepath.Dir(f.path), uuid.New().String()+".tmp")

	tf, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return errors.Wrapf(err, "could not create temp file: %s", tmp)
	}

	if _, err := tf.Write(data); err != nil {
		_ = tf.Close()
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "could not write temp file: %s", tmp)
	}

	// sync before rename, otherwise the rename can land before the data
	if err := tf.Sync(); err != nil {
		_ = tf.Close()
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "could not sync temp file: %s", tmp)
	}

	if err := tf.Close(); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "could not close temp file: %s", tmp)
	}

	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "could not rename temp file over: %s", f.path)
	}

	return nil
}

// Close is a no-op, the file is only held open during Replace.
func (f *File) Close() error {
	return nil
}
