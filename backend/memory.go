package backend

import "sync"

// Memory is an in-process byte buffer backend. It offers no durability: the
// content is destroyed with the process.
type Memory struct {
	// mtx guards buf
	mtx sync.Mutex
	buf []byte
}

// NewMemory returns an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{}
}

// ReadAll returns a copy of the buffer, empty before the first Replace.
func (m *Memory) ReadAll() ([]byte, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	out := make([]byte, len(m.buf))
	copy(out, m.buf)

	return out, nil
}

// Replace overwrites the buffer with data.
func (m *Memory) Replace(data []byte) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.buf = append(m.buf[:0], data...)

	return nil
}

// Close is a no-op, there are no resources to release.
func (m *Memory) Close() error {
	return nil
}
