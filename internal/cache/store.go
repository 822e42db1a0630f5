// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"errors"
	"strings"
	"sync"
)

// ErrQuotaExceeded is returned by Store.Set when the write would exceed the
// store's capacity. The store is left unchanged.
var ErrQuotaExceeded = errors.New("store quota exceeded")

// Store is the host key-value storage the cache lives in. It may be shared
// with other users; the cache only touches keys under its prefix.
// Implementations must be safe for concurrent use per entry.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool, error)

	// Set writes key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Keys lists keys with the given prefix, oldest first.
	Keys(prefix string) ([]string, error)
}

// Quota bounds a store. Zero fields mean unlimited.
type Quota struct {
	MaxEntries int
	MaxBytes   int64
}

func (q Quota) allows(entries int, bytes int64) bool {
	if q.MaxEntries > 0 && entries > q.MaxEntries {
		return false
	}
	if q.MaxBytes > 0 && bytes > q.MaxBytes {
		return false
	}
	return true
}

// MemoryStore is an in-process Store that keeps insertion order.
type MemoryStore struct {
	mu     sync.Mutex
	quota  Quota
	values map[string]string
	order  []string
	bytes  int64
}

// NewMemoryStore returns an empty MemoryStore bounded by quota.
func NewMemoryStore(quota Quota) *MemoryStore {
	return &MemoryStore{
		quota:  quota,
		values: make(map[string]string),
	}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, exists := m.values[key]
	entries := len(m.values)
	bytes := m.bytes + int64(len(key)+len(value))
	if exists {
		bytes -= int64(len(key) + len(old))
	} else {
		entries++
	}
	if !m.quota.allows(entries, bytes) {
		return ErrQuotaExceeded
	}

	if !exists {
		m.order = append(m.order, key)
	}
	m.values[key] = value
	m.bytes = bytes
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.values[key]
	if !ok {
		return nil
	}
	delete(m.values, key)
	m.bytes -= int64(len(key) + len(old))
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStore) Keys(prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	for _, k := range m.order {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}
