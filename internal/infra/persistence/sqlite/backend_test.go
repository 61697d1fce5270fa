package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"partnerhub/pkg/domain"
)

func TestBackendPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	b, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := b.Load(ctx, "doc"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	buckets := domain.Buckets{
		"programs": []byte(`[{"id":"p1"}]`),
		"metadata": []byte(`{"version":3,"seededAt":null}`),
	}
	if err := b.Save(ctx, "doc", buckets); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	got, err := reopened.Load(ctx, "doc")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got["programs"]) != `[{"id":"p1"}]` || len(got) != 2 {
		t.Fatalf("unexpected buckets %v", got)
	}
	if reopened.Path() != path || reopened.Driver() != domain.DriverSQLite {
		t.Fatalf("unexpected path/driver %s %s", reopened.Path(), reopened.Driver())
	}
}

func TestSaveReplacesBucketsAndKeysAreIsolated(t *testing.T) {
	ctx := context.Background()
	b, err := Open(ctx, filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = b.Close() }()
	if err := b.Save(ctx, "a", domain.Buckets{"programs": []byte(`[]`), "stale": []byte(`1`)}); err != nil {
		t.Fatalf("save a: %v", err)
	}
	if err := b.Save(ctx, "a", domain.Buckets{"programs": []byte(`[1]`)}); err != nil {
		t.Fatalf("resave a: %v", err)
	}
	if err := b.Save(ctx, "b", domain.Buckets{"programs": []byte(`[2]`)}); err != nil {
		t.Fatalf("save b: %v", err)
	}
	got, err := b.Load(ctx, "a")
	if err != nil {
		t.Fatalf("load a: %v", err)
	}
	if _, ok := got["stale"]; ok {
		t.Fatalf("expected stale bucket removed on save")
	}
	if string(got["programs"]) != "[1]" {
		t.Fatalf("unexpected programs bucket %q", got["programs"])
	}
	var rows int
	if err := b.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM state`).Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 2 {
		t.Fatalf("expected 2 rows across both keys, got %d", rows)
	}
}

func TestKeysAndDelete(t *testing.T) {
	ctx := context.Background()
	b, err := Open(ctx, filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = b.Close() }()
	if keys, err := b.Keys(ctx); err != nil || len(keys) != 0 {
		t.Fatalf("expected no keys, got %v (%v)", keys, err)
	}
	for _, k := range []string{"v3", "v2"} {
		if err := b.Save(ctx, k, domain.Buckets{"programs": []byte(`[]`), "metadata": []byte(`{}`)}); err != nil {
			t.Fatalf("save %s: %v", k, err)
		}
	}
	keys, err := b.Keys(ctx)
	if err != nil || len(keys) != 2 || keys[0] != "v2" {
		t.Fatalf("unexpected keys %v (%v)", keys, err)
	}
	if ok, err := b.Delete(ctx, "v2"); err != nil || !ok {
		t.Fatalf("delete: (%v, %v)", ok, err)
	}
	if ok, err := b.Delete(ctx, "v2"); err != nil || ok {
		t.Fatalf("expected (false, nil) on second delete, got (%v, %v)", ok, err)
	}
	if _, err := b.Load(ctx, "v3"); err != nil {
		t.Fatalf("expected other key untouched: %v", err)
	}
}
