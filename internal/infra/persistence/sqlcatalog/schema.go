// Package sqlcatalog holds the relational catalog schema and the sqlx
// load/import routines shared by the SQLite and Postgres catalog sources.
package sqlcatalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Dialect selects the DDL variant for a database.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Tables lists the catalog tables in dependency order.
var Tables = []string{"areas", "zones", "projects", "units"}

// Schema returns the catalog DDL for the dialect.
func Schema(d Dialect) string {
	floatType, boolType := "REAL", "INTEGER"
	if d == DialectPostgres {
		floatType, boolType = "DOUBLE PRECISION", "BOOLEAN"
	}
	return strings.NewReplacer("$REAL", floatType, "$BOOL", boolType).Replace(`
CREATE TABLE IF NOT EXISTS areas (
	area_id INTEGER PRIMARY KEY,
	name_en TEXT NOT NULL,
	name_ar TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS zones (
	zone_id INTEGER PRIMARY KEY,
	area_id INTEGER NOT NULL,
	name_en TEXT NOT NULL,
	name_ar TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS projects (
	project_id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	area_id INTEGER NOT NULL,
	zone_id INTEGER NOT NULL,
	completion_status TEXT NOT NULL,
	completion_date TEXT NOT NULL DEFAULT '',
	min_price $REAL NOT NULL,
	max_price $REAL NOT NULL,
	total_units INTEGER NOT NULL,
	available_units INTEGER NOT NULL,
	common_area_ratio $REAL NOT NULL DEFAULT 0,
	developer TEXT NOT NULL DEFAULT '',
	amenities_json TEXT NOT NULL DEFAULT '[]',
	image_url TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS units (
	unit_id INTEGER PRIMARY KEY,
	project_id INTEGER NOT NULL,
	unit_number TEXT NOT NULL,
	price $REAL NOT NULL,
	bedrooms INTEGER NOT NULL,
	property_type TEXT NOT NULL,
	area_sqft $REAL NOT NULL,
	floor_level INTEGER NOT NULL,
	status TEXT NOT NULL,
	demand_status TEXT NOT NULL DEFAULT 'normal',
	has_balcony $BOOL NOT NULL,
	has_parking $BOOL NOT NULL,
	phase TEXT NOT NULL,
	image_url TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_units_project ON units(project_id);
`)
}

// SplitStatements breaks a DDL script into individual statements.
func SplitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Migrate applies the catalog DDL statement by statement.
func Migrate(ctx context.Context, db *sqlx.DB, d Dialect) error {
	for _, stmt := range SplitStatements(Schema(d)) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute ddl: %w", err)
		}
	}
	return nil
}
