package persistence

import (
	"context"
	"sync"

	"github.com/dmitrymomot/authbridge/pkg/auth"
)

// Memory is an in-process persistence store. Entries live only as long as
// the process does.
type Memory struct {
	auth.Traits

	mu      sync.RWMutex
	entries map[string]string
}

// NewMemory returns an empty in-memory persistence store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

// Get returns the value stored under key and whether it exists.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.entries[key]
	return v, ok, nil
}

// Set stores value under key, replacing any previous value.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = value
	return nil
}

// Delete removes key and reports whether it existed.
func (m *Memory) Delete(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.entries[key]
	delete(m.entries, key)
	return ok, nil
}
