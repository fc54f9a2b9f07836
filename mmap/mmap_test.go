package mmap

import (
	"os"
	"testing"
)

func TestMapWriteSyncUnmap(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "mmap_test_*")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()

	const size = 4096
	if err := f.Truncate(size); err != nil {
		t.Fatalf("Truncate: %v", err)
	}

	b, err := Map(f, size)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(b) != size {
		t.Fatalf("len(mapping) = %d, want %d", len(b), size)
	}

	b[0] = 0x42
	b[size-1] = 0x24

	if err := Sync(f, b); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := Unmap(b); err != nil {
		t.Fatalf("Unmap: %v", err)
	}

	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if data[0] != 0x42 || data[size-1] != 0x24 {
		t.Errorf("mapped writes did not reach the file: %x, %x", data[0], data[size-1])
	}
}

func TestMapPastEndOfFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "mmap_test_*")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()

	// Mapping a region larger than the file must succeed; the extra pages
	// stay untouched until the file is grown.
	b, err := Map(f, 1<<16)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	defer Unmap(b)

	if err := f.Truncate(8); err != nil {
		t.Fatalf("Truncate: %v", err)
	}

	copy(b[:8], "deadbeef")

	if err := Sync(f, b); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "deadbeef" {
		t.Errorf("file content = %q, want %q", data, "deadbeef")
	}
}
