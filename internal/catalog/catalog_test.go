package catalog

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"landingcore/pkg/domain"
)

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(42)
	b := Generate(42)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed produced different catalogs:\n%s", diff)
	}
	if cmp.Equal(a.Units, Generate(7).Units) {
		t.Fatalf("different seeds should give different units")
	}
	if cmp.Diff(Generate(0), Generate(DefaultSeed)) != "" {
		t.Fatalf("zero seed should fall back to DefaultSeed")
	}
}

func TestGenerateShape(t *testing.T) {
	c := Generate(1)
	if len(c.Areas) != 5 || len(c.Zones) != 7 || len(c.Projects) != 3 {
		t.Fatalf("unexpected reference data sizes %d/%d/%d", len(c.Areas), len(c.Zones), len(c.Projects))
	}
	if len(c.Units) != 150+80+250 {
		t.Fatalf("unexpected unit count %d", len(c.Units))
	}
	perProject := make(map[int]int)
	for _, u := range c.Units {
		perProject[u.ProjectID]++
		i := u.ID - u.ProjectID*1000
		if i < 1 || i > 250 {
			t.Fatalf("unit id %d outside project range", u.ID)
		}
		if u.Bedrooms < 0 || u.Bedrooms > 3 {
			t.Fatalf("unit %d bedrooms %d", u.ID, u.Bedrooms)
		}
		if (u.Bedrooms == 0) != (u.PropertyType == domain.PropertyStudio) {
			t.Fatalf("unit %d type %s with %d bedrooms", u.ID, u.PropertyType, u.Bedrooms)
		}
		minArea := float64(400 + 300*u.Bedrooms)
		if u.AreaSqft < minArea || u.AreaSqft >= minArea+100 {
			t.Fatalf("unit %d area %.0f out of range", u.ID, u.AreaSqft)
		}
		if int(u.Price)%1000 != 0 || u.Price < 1_000_000 {
			t.Fatalf("unit %d price %.0f not rounded to thousands", u.ID, u.Price)
		}
		if u.FloorLevel < 1 || u.FloorLevel > 40 {
			t.Fatalf("unit %d floor %d", u.ID, u.FloorLevel)
		}
		if u.Status != domain.UnitAvailable && u.Status != domain.UnitSold {
			t.Fatalf("unit %d status %s", u.ID, u.Status)
		}
		wantPhase := "A"
		if i%3 == 0 {
			wantPhase = "B"
		}
		if u.Phase != wantPhase || u.DemandStatus != domain.DemandNormal {
			t.Fatalf("unit %d phase %s demand %s", u.ID, u.Phase, u.DemandStatus)
		}
	}
	if diff := cmp.Diff(map[int]int{1: 150, 2: 80, 3: 250}, perProject); diff != "" {
		t.Fatalf("per project counts (-want +got):\n%s", diff)
	}
	if c.Units[0].Number != "B101" {
		t.Fatalf("first unit number = %s, want B101", c.Units[0].Number)
	}
}

func TestMemorySourceCopies(t *testing.T) {
	ctx := context.Background()
	src := NewMemory(Generate(3))
	c, err := src.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c.Units[0].Price = 1
	c.Projects[0].Amenities[0] = "mutated"
	again, _ := src.Load(ctx)
	if again.Units[0].Price == 1 || again.Projects[0].Amenities[0] == "mutated" {
		t.Fatalf("memory source leaked internal state")
	}
	if err := Seed(ctx, src, domain.Catalog{Areas: Areas()}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	replaced, _ := src.Load(ctx)
	if len(replaced.Units) != 0 || len(replaced.Areas) != 5 {
		t.Fatalf("import did not replace catalog: %+v", replaced)
	}
}

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cases := []struct {
		name    string
		opts    Options
		driver  string
		wantErr string
	}{
		{name: "default", opts: Options{}, driver: "memory"},
		{name: "file", opts: Options{Driver: DriverFile, Path: filepath.Join(dir, "c.yaml")}, driver: "file"},
		{name: "sqlite", opts: Options{Driver: DriverSQLite, Path: filepath.Join(dir, "c.db")}, driver: "sqlite"},
		{name: "file without path", opts: Options{Driver: DriverFile}, wantErr: "requires a path"},
		{name: "unknown", opts: Options{Driver: "mongo"}, wantErr: "unknown catalog driver"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src, err := Open(ctx, tc.opts)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("expected %q error, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer src.Close()
			if src.Driver() != tc.driver {
				t.Fatalf("driver = %s, want %s", src.Driver(), tc.driver)
			}
		})
	}
}

func TestSeedFileThenLoad(t *testing.T) {
	ctx := context.Background()
	src, err := Open(ctx, Options{Driver: DriverFile, Path: filepath.Join(t.TempDir(), "catalog.yaml")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	want := Generate(11)
	if err := Seed(ctx, src, want); err != nil {
		t.Fatalf("seed: %v", err)
	}
	got, err := src.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("file round trip (-want +got):\n%s", diff)
	}
}

type readOnlySource struct{}

func (readOnlySource) Load(context.Context) (domain.Catalog, error) { return domain.Catalog{}, nil }
func (readOnlySource) Driver() string                               { return "readonly" }
func (readOnlySource) Close() error                                 { return nil }

func TestSeedRequiresImporter(t *testing.T) {
	if err := Seed(context.Background(), readOnlySource{}, domain.Catalog{}); err == nil {
		t.Fatalf("expected error for source without Import")
	}
}
