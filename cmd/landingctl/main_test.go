package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"landingcore/internal/catalog/file"
	"landingcore/pkg/domain"
)

func testCatalog() domain.Catalog {
	unit := func(id int, number string, price float64, beds, floor int, balcony, parking bool, phase string, status domain.UnitStatus) domain.Unit {
		return domain.Unit{
			ID: id, ProjectID: 1, Number: number, Price: price, Bedrooms: beds,
			PropertyType: domain.PropertyApartment, AreaSqft: float64(400 + beds*350), FloorLevel: floor,
			Status: status, DemandStatus: domain.DemandNormal, HasBalcony: balcony, HasParking: parking, Phase: phase,
		}
	}
	return domain.Catalog{
		Areas: []domain.Area{{ID: 1, NameEN: "Dubai Marina", NameAR: "مرسى دبي"}},
		Zones: []domain.Zone{{ID: 1, AreaID: 1, NameEN: "Marina Walk"}},
		Projects: []domain.Project{{
			ID:               1,
			Name:             "Marina Heights Tower",
			AreaID:           1,
			ZoneID:           1,
			CompletionStatus: domain.CompletionOffPlan,
			CompletionDate:   time.Date(2040, 6, 30, 0, 0, 0, 0, time.UTC),
			TotalUnits:       12,
			AvailableUnits:   3,
		}},
		Units: []domain.Unit{
			unit(1001, "A101", 1_000_000, 1, 2, true, true, "A", domain.UnitAvailable),
			unit(1002, "A102", 1_500_000, 2, 10, true, false, "A", domain.UnitAvailable),
			unit(1003, "B103", 1_600_000, 2, 12, false, true, "B", domain.UnitAvailable),
			unit(1004, "S104", 800_000, 0, 5, false, false, "A", domain.UnitSold),
		},
	}
}

// setup points the catalog and blob store at temporary files.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	if err := file.Write(path, testCatalog()); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	t.Setenv("LANDINGCORE_CATALOG_DRIVER", "file")
	t.Setenv("LANDINGCORE_CATALOG_PATH", path)
	t.Setenv("LANDINGCORE_BLOB_DRIVER", "fs")
	t.Setenv("LANDINGCORE_BLOB_ROOT", filepath.Join(dir, "blobs"))
	t.Setenv("LANDINGCORE_LOG_LEVEL", "error")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func runWithStderr(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestPriceCommand(t *testing.T) {
	setup(t)
	out, err := run(t, "price", "--project", "1", "--units", "1001,1002")
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	for _, want := range []string{"Total Investment", "AED 2,963,400", "Cash price", "AED 2,815,230"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Bulk Discount") {
		t.Fatalf("inactive bulk discount should be hidden:\n%s", out)
	}
}

func TestValidateCommand(t *testing.T) {
	setup(t)
	out, err := run(t, "validate", "--units", "1001,1002")
	if err != nil || !strings.Contains(out, "selection is valid") {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	out, err = run(t, "validate", "--units", "1001,1003")
	if err == nil {
		t.Fatalf("mixed phases should fail validation")
	}
	if !strings.Contains(out, "[critical]") {
		t.Fatalf("critical violation not printed:\n%s", out)
	}
	if _, err := run(t, "validate", "--units", "1004"); err == nil {
		t.Fatalf("selecting a sold unit should fail")
	}
}

func TestPreviewCommand(t *testing.T) {
	setup(t)
	out, err := run(t, "preview", "--units", "1001,1002")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	var doc struct {
		FormattedTotal string `json:"formatted_total"`
		Units          []struct {
			ID int `json:"unit_id"`
		} `json:"units"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode preview: %v\n%s", err, out)
	}
	if doc.FormattedTotal != "AED 2,963,400" || len(doc.Units) != 2 {
		t.Fatalf("unexpected preview %+v", doc)
	}

	out, err = run(t, "preview", "--units", "1001", "--publish")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !strings.HasPrefix(out, "published previews/1/") || !strings.Contains(out, "url http://local.blob/previews/1/") {
		t.Fatalf("unexpected publish output:\n%s", out)
	}
	if _, err := run(t, "preview", "--units", "1001,1003", "--publish"); err == nil {
		t.Fatalf("critical previews must not be published")
	}
}

func TestReserveCommand(t *testing.T) {
	setup(t)
	out, err := run(t, "reserve", "--unit", "1001")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	for _, want := range []string{"unit 1001 reserved, hold 48:00:00", "TRIGGER_LIMITED_AVAILABILITY", "availability mode: limited_availability"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if _, err := run(t, "reserve"); err == nil {
		t.Fatalf("--unit is required")
	}
}

func TestSeedCommand(t *testing.T) {
	dir := setup(t)
	t.Setenv("LANDINGCORE_CATALOG_DRIVER", "sqlite")
	t.Setenv("LANDINGCORE_CATALOG_PATH", filepath.Join(dir, "catalog.db"))
	out, err := run(t, "seed")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !strings.Contains(out, "seeded sqlite catalog") || !strings.Contains(out, "480 units") {
		t.Fatalf("unexpected seed output:\n%s", out)
	}
	if out, err := run(t, "price", "--project", "2"); err != nil || !strings.Contains(out, "Cash price") {
		t.Fatalf("seeded catalog should be readable: %v\n%s", err, out)
	}

	t.Setenv("LANDINGCORE_CATALOG_DRIVER", "memory")
	if _, err := run(t, "seed"); err == nil {
		t.Fatalf("memory catalog cannot be seeded")
	}
}

func TestSimulateCommand(t *testing.T) {
	dir := setup(t)
	t.Setenv("LANDINGCORE_DRIVER_PRICE_EVERY", "1")
	t.Setenv("LANDINGCORE_DRIVER_RESERVATION_EVERY", "0")
	t.Setenv("LANDINGCORE_DRIVER_REFRESH_EVERY", "2")
	out, err := run(t, "simulate", "--units", "1001", "--ticks", "3", "--interval", "1ms", "--seed", "9")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !strings.Contains(out, "ran 3 ticks") {
		t.Fatalf("unexpected tick count:\n%s", out)
	}
	// The refresh sees the simulated prices, so it adds no conflict of its own.
	if got := strings.Count(out, "Price changed for unit A101"); got != 3 {
		t.Fatalf("expected three price changes, got %d:\n%s", got, out)
	}
	c, err := file.Read(filepath.Join(dir, "catalog.yaml"))
	if err != nil {
		t.Fatalf("read catalog: %v", err)
	}
	if diff := cmp.Diff(testCatalog().Units, c.Units); diff != "" {
		t.Fatalf("simulation must not rewrite the catalog file (-want +got):\n%s", diff)
	}
}

func TestRootRejectsBadLogLevel(t *testing.T) {
	setup(t)
	if _, err := run(t, "price", "--log-level", "chatty"); err == nil {
		t.Fatalf("expected log level error")
	}
}

func TestPreviewsCommand(t *testing.T) {
	setup(t)
	out, err := run(t, "previews")
	if err != nil || !strings.Contains(out, "no previews for project 1") {
		t.Fatalf("empty listing: %v\n%s", err, out)
	}
	if _, err := run(t, "preview", "--units", "1001", "--publish"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	out, err = run(t, "previews", "--project", "1")
	if err != nil {
		t.Fatalf("previews: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "previews/1/") || !strings.Contains(lines[0], "1 units") {
		t.Fatalf("unexpected listing:\n%s", out)
	}
}

func TestTraceWritesSpansAndAudit(t *testing.T) {
	setup(t)
	_, errOut, err := runWithStderr(t, "price", "--trace", "--units", "1001")
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	var spans, audits int
	for _, line := range strings.Split(strings.TrimSpace(errOut), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("trace line is not JSON: %q", line)
		}
		if entry["operation"] != "select_project" && entry["operation"] != "load_catalog" && entry["operation"] != "set_selected_units" {
			continue
		}
		if _, ok := entry["started_at"]; ok {
			spans++
		}
		if _, ok := entry["action"]; ok {
			audits++
		}
	}
	if spans != 3 || audits != 3 {
		t.Fatalf("expected 3 spans and 3 audit entries, got %d and %d:\n%s", spans, audits, errOut)
	}

	if _, errOut, err := runWithStderr(t, "price", "--units", "1001"); err != nil || errOut != "" {
		t.Fatalf("without --trace stderr should stay quiet: %v %q", err, errOut)
	}
}
