package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"partnerhub/internal/config"
	"partnerhub/pkg/domain"
)

func TestZapLoggerWritesStructuredFields(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	s, backend := newTestStore(t, WithLogger(NewZapLogger(zap.New(obsCore))))
	backend.saveErr = errors.New("disk full")
	if _, err := Create(context.Background(), s, domain.Partners, domain.Partner{Name: "Hub"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	entries := logs.FilterMessage("persist database failed, continuing without persistence").All()
	if len(entries) != 1 {
		t.Fatalf("expected one persist failure entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["driver"] != "memory" || fields["key"] != domain.DefaultStorageKey {
		t.Fatalf("unexpected fields %v", fields)
	}
	if entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("expected error level, got %s", entries[0].Level)
	}
	if NewZapLogger(nil) == nil {
		t.Fatalf("expected nop logger for nil input")
	}
}

func TestPrometheusRecorderCountsOperationsAndFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	s, backend := newTestStore(t, WithMetricsRecorder(rec))
	ctx := context.Background()
	_, _ = Create(ctx, s, domain.Partners, domain.Partner{Name: "Hub"})
	backend.saveErr = errors.New("disk full")
	_, _ = Create(ctx, s, domain.Partners, domain.Partner{Name: "Other"})

	if got := testutil.ToFloat64(rec.persistFailures.WithLabelValues("memory")); got != 1 {
		t.Fatalf("expected one persist failure, got %v", got)
	}
	if n := testutil.CollectAndCount(rec.durations); n == 0 {
		t.Fatalf("expected operation durations to be observed")
	}
	if _, err := NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

func TestOpenStoreSelectsBackend(t *testing.T) {
	ctx := context.Background()
	mem, err := OpenStore(ctx, config.Storage{Driver: domain.DriverMemory, Key: "k"})
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if mem.Driver() != domain.DriverMemory || mem.Key() != "k" {
		t.Fatalf("unexpected store %s %s", mem.Driver(), mem.Key())
	}

	path := filepath.Join(t.TempDir(), "state.db")
	sq, err := OpenStore(ctx, config.Storage{Driver: domain.DriverSQLite, Key: "k", SQLitePath: path})
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	defer func() { _ = sq.Close() }()
	if _, err := Create(ctx, sq, domain.Partners, domain.Partner{Name: "Hub"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if n := len(GetAll(ctx, sq, domain.Partners)); n != 1 {
		t.Fatalf("expected sqlite round trip, got %d", n)
	}

	cfg := config.Default().Storage
	cfg.Driver = domain.DriverBlob
	cfg.Blob.FSRoot = t.TempDir()
	bl, err := OpenStore(ctx, cfg)
	if err != nil {
		t.Fatalf("blob: %v", err)
	}
	if bl.Driver() != domain.DriverBlob {
		t.Fatalf("unexpected driver %s", bl.Driver())
	}

	if _, err := OpenBackend(ctx, config.Storage{Driver: "cassandra"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}
