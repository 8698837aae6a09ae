package store

import "sync"

// KeyValue is the durable key-value container backing the store. The method
// set matches fyne's Preferences, so the app's preference store satisfies it
// directly; tests use Memory.
type KeyValue interface {
	StringWithFallback(key, fallback string) string
	SetString(key, value string)
}

// Memory is an in-memory KeyValue for tests.
type Memory struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

func (m *Memory) StringWithFallback(key, fallback string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.m[key]; ok {
		return v
	}
	return fallback
}

func (m *Memory) SetString(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.m[key] = value
}
