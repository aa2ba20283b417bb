package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryKV is a KV that lives only as long as the process.
type MemoryKV struct {
	mu    sync.RWMutex
	slots map[string]memorySlot
}

type memorySlot struct {
	value     string
	updatedAt time.Time
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{slots: make(map[string]memorySlot)}
}

func (m *MemoryKV) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	slot, ok := m.slots[key]
	if !ok {
		return "", fmt.Errorf("get %q: %w", key, ErrNotFound)
	}
	return slot.value, nil
}

func (m *MemoryKV) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = memorySlot{value: value, updatedAt: time.Now().UTC()}
	return nil
}

func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.slots[key]; !ok {
		return fmt.Errorf("delete %q: %w", key, ErrNotFound)
	}
	delete(m.slots, key)
	return nil
}

func (m *MemoryKV) Stat(ctx context.Context, key string) (*SlotInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	slot, ok := m.slots[key]
	if !ok {
		return nil, fmt.Errorf("stat %q: %w", key, ErrNotFound)
	}
	return &SlotInfo{Key: key, Bytes: int64(len(slot.value)), UpdatedAt: slot.updatedAt}, nil
}

func (m *MemoryKV) Close() error { return nil }
