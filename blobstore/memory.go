package blobstore

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store implementation for testing and
// embedders. It stores blobs in a map keyed by encoded storage path.
// Thread-safe for concurrent reads and writes.
type MemoryStore struct {
	mu     sync.RWMutex
	blobs  map[string][]byte
	enc    KeyEncoder
	prefix string
}

// NewMemoryStore creates a new in-memory blob store using the default key
// encoder and the given key prefix (may be empty).
func NewMemoryStore(prefix string) *MemoryStore {
	return &MemoryStore{
		blobs:  make(map[string][]byte),
		enc:    Base32Encoder{},
		prefix: prefix,
	}
}

// Get fetches the blob stored under key, or the byte range rng of it.
// A missing blob yields (nil, nil).
func (m *MemoryStore) Get(_ context.Context, key []byte, rng Range) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[BuildKey(m.enc, m.prefix, key)]
	if !ok {
		return nil, nil
	}

	start, end := rng.Start, rng.End
	if end == 0 || end > uint64(len(data)) {
		end = uint64(len(data))
	}
	if start > end {
		start = end
	}

	// Return a copy to prevent external mutation
	copied := make([]byte, end-start)
	copy(copied, data[start:end])
	return copied, nil
}

// Put writes a blob atomically.
func (m *MemoryStore) Put(_ context.Context, key []byte, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Copy to prevent external mutation
	copied := make([]byte, len(data))
	copy(copied, data)
	m.blobs[BuildKey(m.enc, m.prefix, key)] = copied
	return nil
}

// Delete removes a blob, reporting whether it existed.
func (m *MemoryStore) Delete(_ context.Context, key []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := BuildKey(m.enc, m.prefix, key)
	_, ok := m.blobs[path]
	delete(m.blobs, path)
	return ok, nil
}

// Len returns the number of stored blobs.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}
