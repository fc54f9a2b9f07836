package rustbreak

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestContainerReadersDoNotBlockEachOther(t *testing.T) {
	c := newContainer(map[string]string{"k": "v"})

	const readers = 8

	arrived := make(chan struct{}, readers)
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := c.read(func(value *map[string]string) {
				arrived <- struct{}{}
				<-release
			})
			if err != nil {
				t.Errorf("read: %v", err)
			}
		}()
	}

	// all readers must be inside their closures at the same time
	for i := 0; i < readers; i++ {
		select {
		case <-arrived:
		case <-time.After(5 * time.Second):
			t.Fatalf("only %d of %d readers entered concurrently", i, readers)
		}
	}

	close(release)
	wg.Wait()
}

func TestContainerWriterExclusive(t *testing.T) {
	type counter struct {
		n int
	}

	c := newContainer(counter{})

	const writers = 16

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := c.write(func(value *counter) {
				// read-modify-write with a pause in between; lost
				// updates would show up as a low final count
				n := value.n
				time.Sleep(time.Millisecond)
				value.n = n + 1
			})
			if err != nil {
				t.Errorf("write: %v", err)
			}
		}()
	}
	wg.Wait()

	err := c.read(func(value *counter) {
		if value.n != writers {
			t.Errorf("final count = %d, want %d", value.n, writers)
		}
	})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
}

func TestContainerPoisonedByWriterPanic(t *testing.T) {
	c := newContainer(map[string]string{})

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("panic did not propagate out of write")
			}
		}()
		_ = c.write(func(value *map[string]string) {
			(*value)["partial"] = "mutation"
			panic("writer died")
		})
	}()

	if err := c.write(func(*map[string]string) {}); !errors.Is(err, ErrPoisoned) {
		t.Errorf("write after poisoning: %v, want ErrPoisoned", err)
	}
	if err := c.read(func(*map[string]string) {}); !errors.Is(err, ErrPoisoned) {
		t.Errorf("read after poisoning: %v, want ErrPoisoned", err)
	}
	if err := c.replace(map[string]string{}); !errors.Is(err, ErrPoisoned) {
		t.Errorf("replace after poisoning: %v, want ErrPoisoned", err)
	}
}

func TestContainerReaderPanicDoesNotPoison(t *testing.T) {
	c := newContainer(42)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("panic did not propagate out of read")
			}
		}()
		_ = c.read(func(*int) {
			panic("reader died")
		})
	}()

	// the value was never mutably held, so the container stays usable
	err := c.read(func(value *int) {
		if *value != 42 {
			t.Errorf("value = %d, want 42", *value)
		}
	})
	if err != nil {
		t.Errorf("read after reader panic: %v", err)
	}

	if err := c.write(func(value *int) { *value = 43 }); err != nil {
		t.Errorf("write after reader panic: %v", err)
	}
}

func TestContainerReplace(t *testing.T) {
	c := newContainer(map[string]string{"old": "value"})

	if err := c.replace(map[string]string{"new": "value"}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	err := c.read(func(value *map[string]string) {
		if _, ok := (*value)["old"]; ok {
			t.Error("replace kept the old value")
		}
		if (*value)["new"] != "value" {
			t.Error("replace did not install the new value")
		}
	})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
}
