package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"landingcore/internal/infra/persistence/postgres/testutil"
	"landingcore/pkg/domain"
)

func stubOpen(t *testing.T) *testutil.StubConn {
	t.Helper()
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(driverName, _ string) (*sql.DB, error) {
		if driverName != defaultDriver {
			t.Fatalf("expected %s driver, got %s", defaultDriver, driverName)
		}
		return db, nil
	})
	t.Cleanup(restore)
	return conn
}

func fixtureCatalog() domain.Catalog {
	return domain.Catalog{
		Areas: []domain.Area{{ID: 2, NameEN: "Downtown Dubai", NameAR: "وسط مدينة دبي"}},
		Zones: []domain.Zone{{ID: 3, AreaID: 2, NameEN: "DIFC"}},
		Projects: []domain.Project{{
			ID:               2,
			Name:             "Downtown Luxury Residences",
			AreaID:           2,
			ZoneID:           3,
			CompletionStatus: domain.CompletionOffPlan,
			CompletionDate:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
			MinPrice:         1200000,
			MaxPrice:         4000000,
			TotalUnits:       150,
			AvailableUnits:   25,
			Developer:        "DAMAC Properties",
			Amenities:        []string{"Spa"},
		}},
		Units: []domain.Unit{
			{ID: 2002, ProjectID: 2, Number: "C202", Price: 1500000, Bedrooms: 2, PropertyType: domain.PropertyApartment, AreaSqft: 1000, FloorLevel: 5, Status: domain.UnitAvailable, DemandStatus: domain.DemandNormal, HasBalcony: true, Phase: "A"},
			{ID: 2001, ProjectID: 2, Number: "B201", Price: 1350000, Bedrooms: 1, PropertyType: domain.PropertyApartment, AreaSqft: 820, FloorLevel: 3, Status: domain.UnitReserved, DemandStatus: domain.DemandHigh, HasParking: true, Phase: "Luxury Wing"},
		},
	}
}

func TestNewStoreAppliesSchema(t *testing.T) {
	conn := stubOpen(t)
	store, err := NewStore(context.Background(), "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer func() { _ = store.Close() }()

	var created []string
	for _, stmt := range conn.Execs {
		if strings.HasPrefix(stmt, "CREATE TABLE") {
			created = append(created, stmt)
		}
	}
	if len(created) != 4 {
		t.Fatalf("expected 4 CREATE TABLE statements, got %d: %v", len(created), conn.Execs)
	}
	if !strings.Contains(created[2], "DOUBLE PRECISION") {
		t.Fatalf("expected postgres float type in projects DDL: %s", created[2])
	}
	if store.Driver() != "postgres" {
		t.Fatalf("unexpected driver %s", store.Driver())
	}
}

func TestImportThenLoadRoundTrip(t *testing.T) {
	stubOpen(t)
	ctx := context.Background()
	store, err := NewStore(ctx, "ignored")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	c := fixtureCatalog()
	if err := store.Import(ctx, c); err != nil {
		t.Fatalf("Import: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := c.Clone()
	want.Units[0], want.Units[1] = want.Units[1], want.Units[0]
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestImportUsesDollarPlaceholders(t *testing.T) {
	conn := stubOpen(t)
	ctx := context.Background()
	store, err := NewStore(ctx, "ignored")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Import(ctx, fixtureCatalog()); err != nil {
		t.Fatalf("Import: %v", err)
	}
	for _, stmt := range conn.Execs {
		if strings.HasPrefix(stmt, "INSERT INTO") && strings.Contains(stmt, "?") {
			t.Fatalf("expected rebound placeholders, got %s", stmt)
		}
	}
}

func TestNewStoreErrors(t *testing.T) {
	t.Run("open", func(t *testing.T) {
		restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return nil, errors.New("boom") })
		defer restore()
		if _, err := NewStore(context.Background(), "dsn"); err == nil || !strings.Contains(err.Error(), "open postgres") {
			t.Fatalf("expected open error, got %v", err)
		}
	})
	t.Run("ping", func(t *testing.T) {
		conn := stubOpen(t)
		conn.FailPing = true
		if _, err := NewStore(context.Background(), "dsn"); err == nil || !strings.Contains(err.Error(), "ping postgres") {
			t.Fatalf("expected ping error, got %v", err)
		}
	})
	t.Run("ddl", func(t *testing.T) {
		conn := stubOpen(t)
		conn.FailExec = true
		if _, err := NewStore(context.Background(), "dsn"); err == nil || !strings.Contains(err.Error(), "execute ddl") {
			t.Fatalf("expected ddl error, got %v", err)
		}
	})
}

func TestImportRollsBackOnFailure(t *testing.T) {
	conn := stubOpen(t)
	ctx := context.Background()
	store, err := NewStore(ctx, "ignored")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	conn.FailTables = map[string]bool{"units": true}
	if err := store.Import(ctx, fixtureCatalog()); err == nil || !strings.Contains(err.Error(), "upsert unit") {
		t.Fatalf("expected unit upsert failure, got %v", err)
	}
	conn.FailTables = nil
	conn.FailCommit = true
	if err := store.Import(ctx, fixtureCatalog()); err == nil || !strings.Contains(err.Error(), "commit") {
		t.Fatalf("expected commit failure, got %v", err)
	}
}

func TestLoadPropagatesQueryErrors(t *testing.T) {
	conn := stubOpen(t)
	ctx := context.Background()
	store, err := NewStore(ctx, "ignored")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	conn.FailTables = map[string]bool{"projects": true}
	if _, err := store.Load(ctx); err == nil || !strings.Contains(err.Error(), "select projects") {
		t.Fatalf("expected projects query failure, got %v", err)
	}
}
