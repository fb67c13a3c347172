package store

import (
	"context"
	"errors"
	"os"
	"testing"
)

func TestOpen_UnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Options{Kind: "redis", Dir: t.TempDir()})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestOpen_DiskBackendsNeedDir(t *testing.T) {
	t.Parallel()

	for _, kind := range []string{BackendSQLite, BackendDiskv, BackendFile} {
		if _, err := Open(context.Background(), Options{Kind: kind}); err == nil {
			t.Fatalf("%s: expected error for empty dir", kind)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: DefaultKey},
		{in: "  Work ", want: "work"},
		{in: "team_a-1", want: "team_a-1"},
		{in: "../etc", wantErr: true},
		{in: "a b", wantErr: true},
	}
	for _, tt := range tests {
		got, err := NormalizeKey(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidKey) {
				t.Fatalf("NormalizeKey(%q): expected ErrInvalidKey, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("NormalizeKey(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestBackends_MissingKey(t *testing.T) {
	for name, b := range openBackends(t) {
		_, ok, err := b.Get(context.Background(), "absent")
		if err != nil || ok {
			t.Fatalf("%s: Get(absent) = ok=%v err=%v; want not found", name, ok, err)
		}
	}
}

func TestPostgres_RoundTrip(t *testing.T) {
	dsn := os.Getenv("CATALOG_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CATALOG_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	b, err := Open(ctx, Options{Kind: BackendPostgres, DSN: dsn})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	defer b.Close()

	if err := b.Put(ctx, "pg-test", []byte(`{"selectedIds":[1],"sortedIds":[1]}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	v, ok, err := b.Get(ctx, "pg-test")
	if err != nil || !ok || string(v) != `{"selectedIds":[1],"sortedIds":[1]}` {
		t.Fatalf("get = %q ok=%v err=%v", v, ok, err)
	}
}
