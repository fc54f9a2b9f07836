//go:build !linux && !openbsd

package mmap

import "os"

func sync(f *os.File, _ []byte) error {
	return f.Sync()
}
