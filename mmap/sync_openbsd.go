package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

func sync(_ *os.File, b []byte) error {
	return unix.Msync(b, unix.MS_SYNC)
}
