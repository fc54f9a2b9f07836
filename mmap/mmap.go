// Package mmap provides thin platform wrappers around memory-mapped file
// I/O. Mappings are always shared and writable, since the backend built on
// top of this package writes its data through the map.
package mmap

import "os"

// Map maps size bytes of f, starting at the beginning of the file, into
// memory for reading and writing. size may exceed the current file length;
// pages past the end of the file must not be touched until the file has been
// grown to cover them. The file must stay open for the lifetime of the
// mapping.
func Map(f *os.File, size int) ([]byte, error) {
	return mapFile(f, size)
}

// Unmap releases a mapping returned by Map.
func Unmap(b []byte) error {
	return unmap(b)
}

// Sync flushes modified pages of the mapping b to the file f backing it.
//
// Errors from Sync are not recoverable: many operating systems mark dirty
// pages clean even when the flush failed, so the only sensible reaction is to
// treat the backing file as suspect.
func Sync(f *os.File, b []byte) error {
	return sync(f, b)
}
