package core

import (
	"context"
	"fmt"

	"partnerhub/internal/blob"
	"partnerhub/internal/config"
	"partnerhub/internal/infra/persistence/blobdoc"
	"partnerhub/internal/infra/persistence/memory"
	"partnerhub/internal/infra/persistence/mongo"
	"partnerhub/internal/infra/persistence/postgres"
	"partnerhub/internal/infra/persistence/sqlite"
	"partnerhub/pkg/domain"
)

// OpenBackend constructs the document backend selected by cfg.
func OpenBackend(ctx context.Context, cfg config.Storage) (domain.Backend, error) {
	switch cfg.Driver {
	case domain.DriverMemory:
		return memory.NewBackend(), nil
	case domain.DriverSQLite, "":
		return sqlite.Open(ctx, cfg.SQLitePath)
	case domain.DriverPostgres:
		return postgres.Open(ctx, cfg.PostgresDSN)
	case domain.DriverMongo:
		return mongo.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case domain.DriverBlob:
		store, err := blob.Open(ctx, cfg.Blob)
		if err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		return blobdoc.New(store), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", cfg.Driver)
	}
}

// OpenStore opens the configured backend and wraps it in a Store keyed by
// cfg.Key.
func OpenStore(ctx context.Context, cfg config.Storage, opts ...Option) (*Store, error) {
	backend, err := OpenBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithStorageKey(cfg.Key)}, opts...)
	return NewStore(backend, opts...), nil
}
