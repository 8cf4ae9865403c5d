// Package catalog opens the master data sources the engine loads projects,
// areas, zones, and units from.
package catalog

import (
	"context"
	"fmt"

	"landingcore/internal/catalog/file"
	"landingcore/internal/infra/persistence/postgres"
	"landingcore/internal/infra/persistence/sqlite"
	"landingcore/pkg/domain"
)

// Driver names a catalog source implementation.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverFile     Driver = "file"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Source yields complete catalog snapshots.
type Source interface {
	Load(ctx context.Context) (domain.Catalog, error)
	Driver() string
	Close() error
}

// Importer is implemented by sources that can be seeded.
type Importer interface {
	Import(ctx context.Context, c domain.Catalog) error
}

// Options select and configure a Source.
type Options struct {
	Driver Driver
	Path   string // file or sqlite path
	DSN    string // postgres
	Seed   uint64 // memory generator seed
}

// Open constructs the configured source. An empty driver means memory.
func Open(ctx context.Context, opts Options) (Source, error) {
	switch opts.Driver {
	case "", DriverMemory:
		return NewMemory(Generate(opts.Seed)), nil
	case DriverFile:
		if opts.Path == "" {
			return nil, fmt.Errorf("file catalog requires a path")
		}
		return file.New(opts.Path), nil
	case DriverSQLite:
		s, err := sqlite.NewStore(ctx, opts.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		s, err := postgres.NewStore(ctx, opts.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown catalog driver %q", opts.Driver)
	}
}

// Seed writes c into src when it supports imports.
func Seed(ctx context.Context, src Source, c domain.Catalog) error {
	imp, ok := src.(Importer)
	if !ok {
		return fmt.Errorf("catalog driver %s does not support import", src.Driver())
	}
	return imp.Import(ctx, c)
}
