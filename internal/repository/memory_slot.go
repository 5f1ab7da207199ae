package repository

import (
	"context"
	"sync"
)

// MemorySlot is an in-process CollectionSlot used by tests and by the
// server when no durable backend is configured. A copy of the stored
// bytes is kept so callers cannot mutate slot content from outside.
type MemorySlot struct {
	mu      sync.RWMutex
	data    []byte
	written bool

	// FailSave, when set, is returned from Save. Lets tests exercise the
	// write-failure path, which the store must propagate untouched.
	FailSave error
}

// NewMemorySlot creates an empty in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

// Load returns the last saved bytes, or (nil, nil) before the first Save.
func (m *MemorySlot) Load(ctx context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.written {
		return nil, nil
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

// Save replaces the slot content.
func (m *MemorySlot) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return m.FailSave
	}
	m.data = make([]byte, len(data))
	copy(m.data, data)
	m.written = true
	return nil
}

// Seed overwrites the slot content directly, bypassing FailSave.
// Intended for test setup only.
func (m *MemorySlot) Seed(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.written = true
}
