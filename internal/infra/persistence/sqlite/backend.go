// Package sqlite persists the document into an embedded SQLite file, one
// row per top-level bucket.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"partnerhub/pkg/domain"
)

// DefaultPath is used when no file path is configured.
const DefaultPath = "partnerhub.db"

// Backend stores buckets in the state table keyed by (doc_key, bucket).
type Backend struct {
	db   *sql.DB
	path string
}

var _ domain.Backend = (*Backend)(nil)

// Open creates the file and schema if needed.
func Open(ctx context.Context, path string) (*Backend, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite permits a single writer
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		doc_key TEXT NOT NULL,
		bucket TEXT NOT NULL,
		payload BLOB NOT NULL,
		PRIMARY KEY (doc_key, bucket)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &Backend{db: db, path: path}, nil
}

func (b *Backend) Load(ctx context.Context, key string) (domain.Buckets, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT bucket, payload FROM state WHERE doc_key = ?`, key)
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()
	out := domain.Buckets{}
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out[bucket] = payload
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate state: %w", err)
	}
	if len(out) == 0 {
		return nil, domain.ErrDocumentNotFound
	}
	return out, nil
}

func (b *Backend) Save(ctx context.Context, key string, buckets domain.Buckets) (retErr error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM state WHERE doc_key = ?`, key); err != nil {
		return fmt.Errorf("clear %s: %w", key, err)
	}
	for bucket, payload := range buckets {
		if _, err := tx.ExecContext(ctx, `INSERT INTO state(doc_key, bucket, payload) VALUES(?, ?, ?)`, key, bucket, payload); err != nil {
			return fmt.Errorf("insert %s: %w", bucket, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT DISTINCT doc_key FROM state ORDER BY doc_key`)
	if err != nil {
		return nil, fmt.Errorf("select keys: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	return keys, nil
}

func (b *Backend) Delete(ctx context.Context, key string) (bool, error) {
	res, err := b.db.ExecContext(ctx, `DELETE FROM state WHERE doc_key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", key, err)
	}
	return n > 0, nil
}

func (b *Backend) Driver() domain.Driver { return domain.DriverSQLite }

func (b *Backend) Close() error { return b.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (b *Backend) DB() *sql.DB { return b.db }

// Path returns the configured database path.
func (b *Backend) Path() string { return b.path }
