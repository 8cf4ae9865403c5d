// Package postgres provides a catalog source backed by a PostgreSQL database,
// using pgx through database/sql and sqlx.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"github.com/jmoiron/sqlx"

	"landingcore/internal/infra/persistence/sqlcatalog"
	"landingcore/pkg/domain"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/landingcore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store reads and seeds the catalog tables of a Postgres database.
type Store struct {
	db *sqlx.DB
}

// NewStore connects using dsn (falling back to a local default), verifies the
// connection, and applies the catalog schema.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	raw, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db := sqlx.NewDb(raw, defaultDriver)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := sqlcatalog.Migrate(ctx, db, sqlcatalog.DialectPostgres); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
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
func (s *Store) Driver() string { return "postgres" }

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying handle for integration testing hooks.
func (s *Store) DB() *sqlx.DB { return s.db }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
