package storage

import (
	"bytes"
	"context"
	"io"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/vinicius-lino-figueiredo/docstore/domain"
)

// Memory implements domain.Storage keeping every collection in a map. It is
// used by tests and by the CLI when no directory is configured.
type Memory struct {
	mu    sync.RWMutex
	units map[string][]byte
}

// NewMemory returns an empty in-memory domain.Storage.
func NewMemory() domain.Storage {
	return &Memory{units: make(map[string][]byte)}
}

// Exists implements domain.Storage.
func (m *Memory) Exists(ctx context.Context, name string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.units[name]
	return ok, nil
}

// Read implements domain.Storage.
func (m *Memory) Read(ctx context.Context, name string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.units[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(bytes.Clone(b))), nil
}

// Write implements domain.Storage.
func (m *Memory) Write(ctx context.Context, name string, data []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.units[name] = bytes.Clone(data)
	return nil
}

// Remove implements domain.Storage.
func (m *Memory) Remove(ctx context.Context, name string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.units, name)
	return nil
}

// List implements domain.Storage.
func (m *Memory) List(ctx context.Context) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string{}, slices.Sorted(maps.Keys(m.units))...), nil
}
