// Package sqlite provides a catalog source backed by an embedded SQLite file.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"landingcore/internal/infra/persistence/sqlcatalog"
	"landingcore/pkg/domain"
)

// DefaultPath is used when no database path is configured.
const DefaultPath = "landingcore.db"

// Store reads and seeds the catalog tables of a SQLite database.
type Store struct {
	db   *sqlx.DB
	path string
}

// NewStore opens (creating when missing) the database at path and applies
// the catalog schema.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := sqlcatalog.Migrate(ctx, db, sqlcatalog.DialectSQLite); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Load reads the full catalog.
func (s *Store) Load(ctx context.Context) (domain.Catalog, error) {
	return sqlcatalog.Load(ctx, s.db)
}

// Import upserts the catalog into the database.
func (s *Store) Import(ctx context.Context, c domain.Catalog) error {
	return sqlcatalog.Import(ctx, s.db, c)
}

// Driver names the backing driver.
func (s *Store) Driver() string { return "sqlite" }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying handle for integration testing hooks.
func (s *Store) DB() *sqlx.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
