package catalog

import (
	"context"
	"sync"

	"landingcore/pkg/domain"
)

// Memory serves a fixed catalog held in process memory.
type Memory struct {
	mu      sync.RWMutex
	catalog domain.Catalog
}

// NewMemory returns a source serving a copy of c.
func NewMemory(c domain.Catalog) *Memory {
	return &Memory{catalog: c.Clone()}
}

// Load implements Source.
func (m *Memory) Load(context.Context) (domain.Catalog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.catalog.Clone(), nil
}

// Import implements Importer by replacing the held catalog.
func (m *Memory) Import(_ context.Context, c domain.Catalog) error {
	m.mu.Lock()
	m.catalog = c.Clone()
	m.mu.Unlock()
	return nil
}

// Driver implements Source.
func (m *Memory) Driver() string { return string(DriverMemory) }

// Close implements Source.
func (m *Memory) Close() error { return nil }
