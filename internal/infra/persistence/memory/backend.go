// Package memory keeps persisted documents in process memory.
package memory

import (
	"context"
	"slices"
	"sync"

	"partnerhub/pkg/domain"
)

// Backend is a domain.Backend holding documents in a map. Saved buckets are
// copied so callers cannot mutate stored state.
type Backend struct {
	mu   sync.RWMutex
	docs map[string]domain.Buckets
}

var _ domain.Backend = (*Backend)(nil)

// NewBackend returns an empty in-memory backend.
func NewBackend() *Backend {
	return &Backend{docs: make(map[string]domain.Buckets)}
}

func (b *Backend) Load(_ context.Context, key string) (domain.Buckets, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	doc, ok := b.docs[key]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return doc.Clone(), nil
}

func (b *Backend) Save(_ context.Context, key string, buckets domain.Buckets) error {
	b.mu.Lock()
	b.docs[key] = buckets.Clone()
	b.mu.Unlock()
	return nil
}

func (b *Backend) Keys(_ context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.docs))
	for k := range b.docs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

func (b *Backend) Delete(_ context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.docs[key]
	delete(b.docs, key)
	return ok, nil
}

func (b *Backend) Driver() domain.Driver { return domain.DriverMemory }

func (b *Backend) Close() error { return nil }
