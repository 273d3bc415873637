package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// DefaultMemoryQuota mirrors the usual per-origin budget of browser storage.
const DefaultMemoryQuota = 5 * 1024 * 1024

// MemoryKV is an in-process store with a byte quota counted as the sum of
// key and value lengths. A quota <= 0 disables the limit.
type MemoryKV struct {
	mu    sync.RWMutex
	data  map[string]string
	used  int
	quota int
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV(quotaBytes int) *MemoryKV {
	return &MemoryKV{
		data:  make(map[string]string),
		quota: quotaBytes,
	}
}

// Get implements KV.
func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set implements KV.
func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.used + len(key) + len(value)
	if old, ok := m.data[key]; ok {
		next -= len(key) + len(old)
	}
	if m.quota > 0 && next > m.quota {
		return &quotaError{cause: fmt.Errorf("writing %d bytes to %q would use %d of %d bytes", len(value), key, next, m.quota)}
	}

	m.data[key] = value
	m.used = next
	return nil
}

// Delete implements KV.
func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.data[key]; ok {
		m.used -= len(key) + len(old)
		delete(m.data, key)
	}
	return nil
}

// Keys implements KV.
func (m *MemoryKV) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Used returns the bytes currently counted against the quota.
func (m *MemoryKV) Used() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.used
}

// SetQuota changes the quota. Existing data is kept even if it exceeds it.
func (m *MemoryKV) SetQuota(quotaBytes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quota = quotaBytes
}

// Close implements KV. It is a no-op.
func (m *MemoryKV) Close() error {
	return nil
}
