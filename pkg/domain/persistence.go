package domain

import (
	"context"
	"errors"
)

// Driver identifies a concrete document storage backend.
type Driver string

const (
	DriverMemory   Driver = "memory"   // process memory (tests / ephemeral)
	DriverSQLite   Driver = "sqlite"   // embedded sqlite file
	DriverPostgres Driver = "postgres" // PostgreSQL server
	DriverMongo    Driver = "mongo"    // MongoDB server
	DriverBlob     Driver = "blob"     // object storage (fs, s3, memory)
)

// Buckets maps a top-level document key (a TableName or MetadataBucket) to
// its encoded payload.
type Buckets map[string][]byte

// Clone returns a deep copy of b.
func (b Buckets) Clone() Buckets {
	if b == nil {
		return nil
	}
	out := make(Buckets, len(b))
	for k, v := range b {
		out[k] = append([]byte(nil), v...)
	}
	return out
}

// ErrDocumentNotFound is returned by Backend.Load when nothing is stored
// under the requested key.
var ErrDocumentNotFound = errors.New("document not found")

// Backend persists the encoded document under a storage key. Implementations
// store and return opaque payloads; only the record store interprets them.
// A Save replaces every bucket stored under the key.
type Backend interface {
	Load(ctx context.Context, key string) (Buckets, error)
	Save(ctx context.Context, key string, buckets Buckets) error
	// Keys lists the storage keys holding a document, sorted.
	Keys(ctx context.Context) ([]string, error)
	// Delete removes the document under key and reports whether one existed.
	Delete(ctx context.Context, key string) (bool, error)
	Driver() Driver
	Close() error
}
