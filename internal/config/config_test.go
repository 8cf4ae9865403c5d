package config

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"landingcore/internal/blob"
	"landingcore/internal/catalog"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		Catalog: CatalogConfig{Driver: catalog.DriverMemory, Seed: 20250101},
		Blob:    BlobConfig{Driver: blob.DriverFilesystem, Root: "./blobdata"},
		Driver: DriverConfig{
			Interval:         time.Second,
			PriceEvery:       30,
			ReservationEvery: 45,
			RefreshEvery:     60,
		},
		LogLevel: "info",
	}
	if diff := cmp.Diff(want, cfg, cmpopts.IgnoreFields(blob.S3Config{}, "HTTPClient")); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"LANDINGCORE_CATALOG_DRIVER":       "sqlite",
		"LANDINGCORE_CATALOG_PATH":         "/tmp/catalog.db",
		"LANDINGCORE_CATALOG_SEED":         "7",
		"LANDINGCORE_BLOB_DRIVER":          "s3",
		"LANDINGCORE_BLOB_S3_BUCKET":       "previews",
		"LANDINGCORE_BLOB_S3_ENDPOINT":     "http://minio:9000",
		"LANDINGCORE_BLOB_S3_PATH_STYLE":   "true",
		"LANDINGCORE_DRIVER_INTERVAL":      "250ms",
		"LANDINGCORE_DRIVER_REFRESH_EVERY": "0",
		"LANDINGCORE_LOG_LEVEL":            "debug",
		"LANDINGCORE_METRICS_ADDR":         ":9102",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cfg.Catalog.Options(); got != (catalog.Options{Driver: catalog.DriverSQLite, Path: "/tmp/catalog.db", Seed: 7}) {
		t.Fatalf("unexpected catalog options %+v", got)
	}
	b := cfg.Blob.Options()
	if b.Driver != blob.DriverS3 || b.S3.Bucket != "previews" || b.S3.Endpoint != "http://minio:9000" || !b.S3.PathStyle {
		t.Fatalf("unexpected blob options %+v", b)
	}
	if cfg.Driver.Interval != 250*time.Millisecond || cfg.Driver.RefreshEvery != 0 || cfg.Driver.PriceEvery != 30 {
		t.Fatalf("unexpected driver config %+v", cfg.Driver)
	}
	if cfg.LogLevel != "debug" || cfg.MetricsAddr != ":9102" {
		t.Fatalf("unexpected ambient config %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		vars map[string]string
		want string
	}{
		{name: "bad duration", vars: map[string]string{"LANDINGCORE_DRIVER_INTERVAL": "soon"}, want: "parse env"},
		{name: "zero interval", vars: map[string]string{"LANDINGCORE_DRIVER_INTERVAL": "0s"}, want: "interval"},
		{name: "negative cadence", vars: map[string]string{"LANDINGCORE_DRIVER_PRICE_EVERY": "-1"}, want: "cadences"},
		{name: "catalog driver", vars: map[string]string{"LANDINGCORE_CATALOG_DRIVER": "mongo"}, want: "catalog driver"},
		{name: "blob driver", vars: map[string]string{"LANDINGCORE_BLOB_DRIVER": "ftp"}, want: "blob driver"},
		{name: "s3 bucket", vars: map[string]string{"LANDINGCORE_BLOB_DRIVER": "s3"}, want: "BLOB_S3_BUCKET"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFrom(tc.vars)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadReadsProcessEnvironment(t *testing.T) {
	t.Setenv("LANDINGCORE_CATALOG_DRIVER", "file")
	t.Setenv("LANDINGCORE_CATALOG_PATH", "catalog.yaml")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Catalog.Driver != catalog.DriverFile || cfg.Catalog.Path != "catalog.yaml" {
		t.Fatalf("unexpected catalog config %+v", cfg.Catalog)
	}
}
