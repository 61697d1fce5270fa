package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"partnerhub/internal/blob"
	"partnerhub/pkg/domain"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.Storage.Driver != domain.DriverSQLite || cfg.Storage.Key != domain.DefaultStorageKey {
		t.Fatalf("unexpected storage defaults %+v", cfg.Storage)
	}
	if cfg.HTTPAddr != ":8080" || cfg.LogLevel != "info" || cfg.SeedOnStart {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"PARTNERHUB_STORAGE_DRIVER":     "BLOB",
		"PARTNERHUB_STORAGE_KEY":        "custom",
		"PARTNERHUB_BLOB_DRIVER":        "s3",
		"PARTNERHUB_BLOB_S3_BUCKET":     "docs",
		"PARTNERHUB_BLOB_S3_PATH_STYLE": "true",
		"PARTNERHUB_LOG_LEVEL":          "DEBUG",
		"PARTNERHUB_SEED_ON_START":      "1",
	}))
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.Storage.Driver != domain.DriverBlob || cfg.Storage.Key != "custom" {
		t.Fatalf("unexpected storage %+v", cfg.Storage)
	}
	if cfg.Storage.Blob.Driver != blob.DriverS3 || cfg.Storage.Blob.S3.Bucket != "docs" || !cfg.Storage.Blob.S3.PathStyle {
		t.Fatalf("unexpected blob config %+v", cfg.Storage.Blob)
	}
	if cfg.LogLevel != "debug" || !cfg.SeedOnStart {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestInvalidSettings(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":   {"PARTNERHUB_STORAGE_DRIVER": "cassandra"},
		"bad bool":         {"PARTNERHUB_SEED_ON_START": "sometimes"},
		"postgres w/o dsn": {"PARTNERHUB_STORAGE_DRIVER": "postgres"},
		"s3 w/o bucket":    {"PARTNERHUB_STORAGE_DRIVER": "blob", "PARTNERHUB_BLOB_DRIVER": "s3"},
		"bad log level":    {"PARTNERHUB_LOG_LEVEL": "loud"},
	}
	for name, env := range cases {
		if _, err := FromEnv(envMap(env)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PARTNERHUB_HTTP_ADDR=:9999\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("PARTNERHUB_HTTP_ADDR", "")
	os.Unsetenv("PARTNERHUB_HTTP_ADDR")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9999" {
		t.Fatalf("expected addr from env file, got %q", cfg.HTTPAddr)
	}
	if !strings.HasPrefix(cfg.Storage.Key, "partnerhub") {
		t.Fatalf("unexpected key %q", cfg.Storage.Key)
	}
}
