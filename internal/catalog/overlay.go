package catalog

import (
	"context"
	"sync"

	"landingcore/pkg/domain"
)

// Overlay layers unit changes over a base source without writing them back.
// Load returns the base catalog with every recorded unit replacing the base
// unit of the same ID; recorded units the base no longer lists are dropped.
type Overlay struct {
	base Source

	mu    sync.RWMutex
	units map[int]domain.Unit
}

// NewOverlay wraps base.
func NewOverlay(base Source) *Overlay {
	return &Overlay{base: base, units: make(map[int]domain.Unit)}
}

// WriteUnits records units so later loads observe them.
func (o *Overlay) WriteUnits(_ context.Context, units []domain.Unit) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, u := range units {
		o.units[u.ID] = u
	}
	return nil
}

// Load implements Source.
func (o *Overlay) Load(ctx context.Context) (domain.Catalog, error) {
	c, err := o.base.Load(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	for i, u := range c.Units {
		if w, ok := o.units[u.ID]; ok {
			c.Units[i] = w
		}
	}
	return c, nil
}

// Driver implements Source.
func (o *Overlay) Driver() string { return o.base.Driver() }

// Close closes the base source.
func (o *Overlay) Close() error { return o.base.Close() }
