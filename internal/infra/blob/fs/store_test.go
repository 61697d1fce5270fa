package fs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"partnerhub/internal/blob/core"
)

func TestFilesystemRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	info, err := s.Put(ctx, "docs/main.json", strings.NewReader(`{"a":1}`), core.PutOptions{ContentType: "application/json", Metadata: map[string]string{"k": "v"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 7 || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}
	got, rc, err := s.Get(ctx, "docs/main.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != `{"a":1}` || got.ContentType != "application/json" || got.Metadata["k"] != "v" {
		t.Fatalf("unexpected object %q %+v", body, got)
	}
}

func TestFilesystemPutOverwrites(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	first, err := s.Put(ctx, "doc.json", strings.NewReader("v1"), core.PutOptions{})
	if err != nil {
		t.Fatalf("put v1: %v", err)
	}
	second, err := s.Put(ctx, "doc.json", strings.NewReader("version2"), core.PutOptions{})
	if err != nil {
		t.Fatalf("put v2: %v", err)
	}
	if first.ETag == second.ETag {
		t.Fatalf("expected etag to change on overwrite")
	}
	info, rc, err := s.Get(ctx, "doc.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = rc.Close()
	if info.Size != int64(len("version2")) {
		t.Fatalf("expected size of second write, got %d", info.Size)
	}
	entries, _ := os.ReadDir(s.Root())
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFilesystemNotFoundAndDelete(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, _, err := s.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Put(ctx, "x", strings.NewReader("1"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	ok, err := s.Delete(ctx, "x")
	if err != nil || !ok {
		t.Fatalf("expected delete to succeed, got (%v, %v)", ok, err)
	}
	ok, err = s.Delete(ctx, "x")
	if err != nil || ok {
		t.Fatalf("expected second delete to report absence, got (%v, %v)", ok, err)
	}
	if _, err := os.Stat(filepath.Join(s.Root(), "x"+metaSuffix)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected sidecar removed, got %v", err)
	}
}

func TestFilesystemRejectsUnsafeKeys(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, key := range []string{"", "../escape", "/abs", "a.meta"} {
		if _, err := s.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err == nil {
			t.Fatalf("expected key %q to be rejected", key)
		}
	}
}

func TestFilesystemListByPrefix(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, k := range []string{"snap/b.json", "snap/a.json", "other.json"} {
		if _, err := s.Put(ctx, k, strings.NewReader(k), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	infos, err := s.List(ctx, "snap/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "snap/a.json" || infos[1].Key != "snap/b.json" {
		t.Fatalf("unexpected listing %+v", infos)
	}
}
