package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"partnerhub/internal/infra/persistence/memory"
	"partnerhub/pkg/domain"
)

// Store is the record store: generic CRUD over the single document held by
// a Backend. Every read loads the document afresh; every write loads,
// mutates in memory, and persists the whole document.
//
// Storage failures never reach callers. Reads fall back to the default
// document and failed writes are logged and counted, leaving the caller with
// a working but non-persistent store. A transaction that ran against a
// fallback document is not written back, so the stored document survives
// until it can be read again or is explicitly replaced.
type Store struct {
	mu      sync.RWMutex
	backend domain.Backend
	key     string
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	clock   Clock
	newID   func() string

	persistFailures atomic.Int64
	loadFallbacks   atomic.Int64
	skippedWrites   atomic.Int64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetricsRecorder sets the metrics recorder.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *Store) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracer sets the tracer.
func WithTracer(t Tracer) Option {
	return func(s *Store) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(c Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithIDGenerator overrides record id assignment.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithStorageKey overrides the document key.
func WithStorageKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// NewStore constructs a store over backend. A nil backend keeps the
// document in process memory.
func NewStore(backend domain.Backend, opts ...Option) *Store {
	if backend == nil {
		backend = memory.NewBackend()
	}
	s := &Store{
		backend: backend,
		key:     domain.DefaultStorageKey,
		logger:  noopLogger{},
		metrics: noopMetrics{},
		tracer:  noopTracer{},
		clock:   utcClock{},
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key of the document.
func (s *Store) Key() string { return s.key }

// Driver returns the backend driver.
func (s *Store) Driver() domain.Driver { return s.backend.Driver() }

// Now returns the store clock's current time.
func (s *Store) Now() time.Time { return s.clock.Now() }

// PersistFailures returns how many writes failed and were suppressed.
func (s *Store) PersistFailures() int64 { return s.persistFailures.Load() }

// LoadFallbacks returns how many reads were served from the default
// document because the stored one could not be read.
func (s *Store) LoadFallbacks() int64 { return s.loadFallbacks.Load() }

// SkippedWrites returns how many transactions were not written because the
// document they ran against was a fallback.
func (s *Store) SkippedWrites() int64 { return s.skippedWrites.Load() }

// Close releases the backend.
func (s *Store) Close() error { return s.backend.Close() }

// LoadDatabase returns the current document, or the structural default when
// nothing usable is stored.
func (s *Store) LoadDatabase(ctx context.Context) domain.Database {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var db domain.Database
	_ = s.run(ctx, "load_database", func(ctx context.Context) error {
		var err error
		db, err = s.load(ctx)
		return err
	})
	return db
}

// PersistDatabase stores db in full. Failures are logged and suppressed.
func (s *Store) PersistDatabase(ctx context.Context, db domain.Database) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.run(ctx, "persist_database", func(ctx context.Context) error {
		return s.persist(ctx, db)
	})
}

// ResetDatabase replaces the stored document with the empty default.
func (s *Store) ResetDatabase(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.run(ctx, "reset_database", func(ctx context.Context) error {
		return s.persist(ctx, domain.NewDatabase())
	})
	s.logger.Info("database reset", "key", s.key, "driver", string(s.backend.Driver()))
}

// Export returns the current document as indented JSON.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	db := s.LoadDatabase(ctx)
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export database: %w", err)
	}
	return data, nil
}

// RunInTransaction loads the document, applies fn to it, and persists the
// result once if fn succeeded and changed something. When fn fails nothing
// is written. When the load was degraded fn still runs against the fallback
// document but its changes are dropped unless fn replaced the whole document.
// Operations are serialized within the process only; separate processes
// sharing a backend remain last-write-wins.
func (s *Store) RunInTransaction(ctx context.Context, op string, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run(ctx, op, func(ctx context.Context) error {
		db, loadErr := s.load(ctx)
		tx := &Tx{db: db, now: s.clock.Now(), newID: s.newID}
		if err := fn(tx); err != nil {
			return err
		}
		if !tx.changed {
			return nil
		}
		if loadErr != nil && !tx.replaced {
			s.skippedWrites.Add(1)
			s.logger.Warn("stored document unreadable, transaction not persisted",
				"operation", op, "key", s.key, "driver", string(s.backend.Driver()), "error", loadErr)
			return nil
		}
		_ = s.persist(ctx, tx.db)
		return nil
	})
}

// Documents lists the storage keys holding a document in the backend,
// including documents of older schema generations.
func (s *Store) Documents(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	err := s.run(ctx, "list_documents", func(ctx context.Context) error {
		var err error
		keys, err = s.backend.Keys(ctx)
		return err
	})
	return keys, err
}

// DropDocument removes the document stored under key and reports whether one
// existed. The store's own document is reset, never dropped.
func (s *Store) DropDocument(ctx context.Context, key string) (bool, error) {
	if key == s.key {
		return false, fmt.Errorf("%w: %s", ErrActiveDocument, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed bool
	err := s.run(ctx, "drop_document", func(ctx context.Context) error {
		var err error
		removed, err = s.backend.Delete(ctx, key)
		return err
	})
	if err == nil && removed {
		s.logger.Info("document dropped", "key", key, "driver", string(s.backend.Driver()))
	}
	return removed, err
}

func (s *Store) load(ctx context.Context) (domain.Database, error) {
	buckets, err := s.backend.Load(ctx, s.key)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		return domain.NewDatabase(), nil
	}
	if err != nil {
		s.loadFallbacks.Add(1)
		s.logger.Warn("load database failed, using default document",
			"key", s.key, "driver", string(s.backend.Driver()), "error", err)
		return domain.NewDatabase(), fmt.Errorf("%w: %v", errDegraded, err)
	}
	db, problems := decodeDatabase(buckets)
	for _, p := range problems {
		s.logger.Warn("discarding undecodable collection", "key", s.key, "error", p)
	}
	db, ok := mergeWithDefaults(db)
	if !ok {
		s.loadFallbacks.Add(1)
		s.logger.Warn("stored document has an unknown schema version, using default document", "key", s.key)
		return db, errDegraded
	}
	if len(problems) > 0 {
		s.loadFallbacks.Add(1)
		return db, errors.Join(append([]error{errDegraded}, problems...)...)
	}
	return db, nil
}

func (s *Store) persist(ctx context.Context, db domain.Database) error {
	db.FillMissing()
	db.Metadata.Version = domain.SchemaVersion
	buckets, err := encodeDatabase(&db)
	if err == nil {
		err = s.backend.Save(ctx, s.key, buckets)
	}
	if err != nil {
		s.persistFailures.Add(1)
		if rec, ok := s.metrics.(PersistFailureRecorder); ok {
			rec.PersistFailed(string(s.backend.Driver()))
		}
		s.logger.Error("persist database failed, continuing without persistence",
			"key", s.key, "driver", string(s.backend.Driver()), "error", err)
		return err
	}
	return nil
}

func (s *Store) run(ctx context.Context, op string, fn func(context.Context) error) error {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, op)
	err := fn(ctx)
	span.End(err)
	elapsed := time.Since(start)
	s.metrics.Observe(ctx, op, err == nil, elapsed)
	if err != nil {
		s.logger.Debug("store operation failed", "operation", op, "duration", elapsed, "error", err)
		return err
	}
	s.logger.Debug("store operation", "operation", op, "duration", elapsed)
	return nil
}
