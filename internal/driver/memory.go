package driver

import "sync"

// Null discards every frame. Used when running without hardware.
type Null struct{}

func (Null) Write([]byte) error { return nil }
func (Null) Close() error       { return nil }

// Memory keeps the last written frame and a write count.
// Safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	last   []byte
	writes int
}

func (m *Memory) Write(frame []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.last) != len(frame) {
		m.last = make([]byte, len(frame))
	}
	copy(m.last, frame)
	m.writes++
	return nil
}

func (m *Memory) Close() error { return nil }

// Last returns a copy of the most recent frame, or nil if none was written.
func (m *Memory) Last() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return nil
	}
	cp := make([]byte, len(m.last))
	copy(cp, m.last)
	return cp
}

// Writes returns the number of frames written so far.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
