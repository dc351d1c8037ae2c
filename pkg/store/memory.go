package store

import (
	"context"
	"sync"

	"github.com/zestlabs/zest/pkg/errors"
)

// Memory is an in-process store for tests and single-shot CLI runs.
type Memory struct {
	mu   sync.RWMutex
	byID map[string]*Document
	ids  []string // insertion order, newest last
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{byID: make(map[string]*Document)}
}

// Save archives a document.
func (m *Memory) Save(ctx context.Context, doc *Document) error {
	if doc == nil || doc.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "document must have an ID")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[doc.ID]; !ok {
		m.ids = append(m.ids, doc.ID)
	}
	copied := *doc
	m.byID[doc.ID] = &copied
	return nil
}

// Get retrieves a document by ID.
func (m *Memory) Get(ctx context.Context, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.byID[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNetlistNotFound, "no document with id %q", id)
	}
	copied := *doc
	return &copied, nil
}

// FindByHash retrieves the most recently saved document for a hash.
func (m *Memory) FindByHash(ctx context.Context, hash string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.ids) - 1; i >= 0; i-- {
		if doc := m.byID[m.ids[i]]; doc.Hash == hash {
			copied := *doc
			return &copied, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNetlistNotFound, "no document with hash %q", hash)
}

// Close does nothing for the in-memory store.
func (m *Memory) Close(ctx context.Context) error { return nil }

// Ensure Memory implements Store.
var _ Store = (*Memory)(nil)
