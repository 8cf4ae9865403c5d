package blob

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name    string
		cfg     Config
		want    Driver
		wantErr bool
	}{
		{name: "default is filesystem", cfg: Config{FSRoot: t.TempDir()}, want: DriverFilesystem},
		{name: "memory", cfg: Config{Driver: DriverMemory}, want: DriverMemory},
		{name: "s3 without bucket", cfg: Config{Driver: DriverS3}, wantErr: true},
		{name: "unknown", cfg: Config{Driver: "ftp"}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, err := Open(ctx, tc.cfg)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				if store != nil {
					t.Fatalf("expected nil store on error, got %T", store)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if store.Driver() != tc.want {
				t.Fatalf("driver = %s, want %s", store.Driver(), tc.want)
			}
		})
	}
}

func TestFacadeErrorsMatchDrivers(t *testing.T) {
	ctx := context.Background()
	for _, open := range []func() (Store, error){
		func() (Store, error) { return NewFilesystem(t.TempDir()) },
		func() (Store, error) { return NewMemory(), nil },
	} {
		store, err := open()
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if _, err := store.Put(ctx, "k", bytes.NewReader([]byte("v")), PutOptions{}); err != nil {
			t.Fatalf("%s put: %v", store.Driver(), err)
		}
		if _, err := store.Put(ctx, "k", bytes.NewReader([]byte("v")), PutOptions{}); !errors.Is(err, ErrExists) {
			t.Fatalf("%s: expected ErrExists, got %v", store.Driver(), err)
		}
		if _, err := store.Head(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound, got %v", store.Driver(), err)
		}
	}
}
