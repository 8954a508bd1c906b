package session

import "sync"

// PreferenceStore persists the active session id across restarts.
// Absence is a valid state.
type PreferenceStore interface {
	Get() (id string, ok bool, err error)
	Set(id string) error
	Clear() error
}

// MemoryPreferences is an in-process PreferenceStore.
type MemoryPreferences struct {
	mu sync.Mutex
	id string
}

// NewMemoryPreferences returns a store holding id; pass "" for none.
func NewMemoryPreferences(id string) *MemoryPreferences {
	return &MemoryPreferences{id: id}
}

func (m *MemoryPreferences) Get() (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id, m.id != "", nil
}

func (m *MemoryPreferences) Set(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = id
	return nil
}

func (m *MemoryPreferences) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = ""
	return nil
}
