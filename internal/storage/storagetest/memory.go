// Package storagetest provides an in-memory storage backend for tests.
package storagetest

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/storage"
)

var ErrInjected = errors.New("storagetest: injected failure")

// Memory keeps blobs in a map and records every Delete call.
type Memory struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	types   map[string]string
	deletes []string

	// URL, when set, is returned from Put as base + "/" + key.
	URL string
	// FailPutAfter makes Put fail once that many objects were stored.
	// Negative disables the failure.
	FailPutAfter int
	FailDelete   bool
}

func NewMemory() *Memory {
	return &Memory{
		blobs:        make(map[string][]byte),
		types:        make(map[string]string),
		FailPutAfter: -1,
	}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Put(_ context.Context, obj storage.Object) (string, error) {
	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPutAfter >= 0 && len(m.blobs) >= m.FailPutAfter {
		return "", ErrInjected
	}
	m.blobs[obj.Key] = data
	m.types[obj.Key] = obj.ContentType
	if m.URL == "" {
		return "", nil
	}
	return m.URL + "/" + obj.Key, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, key)
	if m.FailDelete {
		return ErrInjected
	}
	delete(m.blobs, key)
	delete(m.types, key)
	return nil
}

func (m *Memory) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[key]
	return ok
}

func (m *Memory) ContentType(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.types[key]
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}

// Deletes returns the keys passed to Delete, in call order.
func (m *Memory) Deletes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deletes...)
}
