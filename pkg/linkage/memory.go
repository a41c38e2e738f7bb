package linkage

import (
	"context"
	"sync"

	"github.com/dmitrymomot/authbridge/pkg/auth"
)

// Memory is an in-process linkage store. Links live only as long as the
// process does, which makes it a fit for tests and single-run tools.
type Memory struct {
	auth.Traits

	mu         sync.Mutex
	lastIssued int64
	links      map[string]int64
}

// NewMemory returns an empty in-memory linkage store.
func NewMemory() *Memory {
	return &Memory{links: make(map[string]int64)}
}

// FindUnifiedUser resolves the unified id behind a set of login results,
// issuing a fresh id when none of them is linked yet and backfilling rows
// for any local id seen for the first time.
func (m *Memory) FindUnifiedUser(_ context.Context, locals map[string]string) (int64, error) {
	keys := keysFor(locals)
	if len(keys) == 0 {
		return auth.NoUser, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := resolve(m.links, keys)
	if err != nil {
		return auth.NoUser, err
	}
	if id == 0 {
		m.lastIssued++
		id = m.lastIssued
	}
	for _, k := range keys {
		if _, ok := m.links[k]; !ok {
			m.links[k] = id
		}
	}
	return id, nil
}

// GetUnifiedUsers returns every driver-local account id linked to the given
// unified id, keyed by driver name.
func (m *Memory) GetUnifiedUsers(_ context.Context, id int64) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]string)
	for k, v := range m.links {
		if v != id {
			continue
		}
		if driver, localID, ok := splitKey(k); ok {
			out[driver] = localID
		}
	}
	return out, nil
}

// DeleteUnifiedUser removes the links behind a set of login results and
// reports which unified id they belonged to. Unlike FindUnifiedUser it never
// issues a new id: unknown links resolve to auth.NoUser and nothing is
// removed.
func (m *Memory) DeleteUnifiedUser(_ context.Context, locals map[string]string) (int64, error) {
	keys := keysFor(locals)
	if len(keys) == 0 {
		return auth.NoUser, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := resolve(m.links, keys)
	if err != nil {
		return auth.NoUser, err
	}
	if id == 0 {
		return auth.NoUser, nil
	}
	for _, k := range keys {
		delete(m.links, k)
	}
	return id, nil
}
