package adapters

import (
	"sync"

	"hotel-erp/internal/ports"
)

type MemoryKVAdapter struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKVAdapter() *MemoryKVAdapter {
	return &MemoryKVAdapter{values: map[string]string{}}
}

func (a *MemoryKVAdapter) Get(key string) (string, bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	value, ok := a.values[key]
	return value, ok, nil
}

func (a *MemoryKVAdapter) Set(key string, value string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.values[key] = value
	return nil
}

func (a *MemoryKVAdapter) Remove(key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.values, key)
	return nil
}

var _ ports.KeyValuePort = (*MemoryKVAdapter)(nil)
