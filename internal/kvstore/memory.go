package kvstore

import (
	"sync"
)

type entry struct {
	kind string
	i    int
	b    bool
}

// Memory is a map-backed store. It is safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	values map[string]entry
	closed bool

	// FailWrites, when non-nil, is returned from every write.
	FailWrites error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]entry)}
}

// Int returns the int stored under key.
func (m *Memory) Int(key string) (int, bool, error) {
	e, ok, err := m.get(key, kindInt)
	return e.i, ok, err
}

// Bool returns the bool stored under key.
func (m *Memory) Bool(key string) (bool, bool, error) {
	e, ok, err := m.get(key, kindBool)
	return e.b, ok, err
}

// SetInt stores v under key.
func (m *Memory) SetInt(key string, v int) error {
	return m.put(key, entry{kind: kindInt, i: v})
}

// SetBool stores v under key.
func (m *Memory) SetBool(key string, v bool) error {
	return m.put(key, entry{kind: kindBool, b: v})
}

// Close marks the store closed; later calls return ErrClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *Memory) get(key, kind string) (entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return entry{}, false, ErrClosed
	}
	e, ok := m.values[key]
	if !ok {
		return entry{}, false, nil
	}
	if e.kind != kind {
		return entry{}, false, ErrKindMismatch
	}
	return e, true, nil
}

func (m *Memory) put(key string, e entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.values[key] = e
	return nil
}
