// Package mongo persists the document into a MongoDB collection, one
// MongoDB document per storage key.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"partnerhub/pkg/domain"
)

const (
	defaultURI        = "mongodb://localhost:27017"
	defaultDatabase   = "partnerhub"
	defaultCollection = "state"
)

// stateDoc holds each bucket as its JSON text so payloads stay opaque.
type stateDoc struct {
	Key       string            `bson:"_id"`
	Buckets   map[string]string `bson:"buckets"`
	UpdatedAt time.Time         `bson:"updatedAt"`
}

// Backend stores documents in the state collection.
type Backend struct {
	client *mongo.Client
	col    *mongo.Collection
}

var _ domain.Backend = (*Backend)(nil)

// Open connects to uri and selects database. Empty values use local defaults.
func Open(ctx context.Context, uri, database string) (*Backend, error) {
	if uri == "" {
		uri = defaultURI
	}
	if database == "" {
		database = defaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Backend{client: client, col: client.Database(database).Collection(defaultCollection)}, nil
}

func (b *Backend) Load(ctx context.Context, key string) (domain.Buckets, error) {
	var doc stateDoc
	err := b.col.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", key, err)
	}
	out := make(domain.Buckets, len(doc.Buckets))
	for name, payload := range doc.Buckets {
		out[name] = []byte(payload)
	}
	return out, nil
}

func (b *Backend) Save(ctx context.Context, key string, buckets domain.Buckets) error {
	doc := stateDoc{Key: key, Buckets: make(map[string]string, len(buckets)), UpdatedAt: time.Now().UTC()}
	for name, payload := range buckets {
		doc.Buckets[name] = string(payload)
	}
	_, err := b.col.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	cur, err := b.col.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("find keys: %w", err)
	}
	var docs []struct {
		Key string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode keys: %w", err)
	}
	keys := make([]string, 0, len(docs))
	for _, d := range docs {
		keys = append(keys, d.Key)
	}
	return keys, nil
}

func (b *Backend) Delete(ctx context.Context, key string) (bool, error) {
	res, err := b.col.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", key, err)
	}
	return res.DeletedCount > 0, nil
}

func (b *Backend) Driver() domain.Driver { return domain.DriverMongo }

func (b *Backend) Close() error { return b.client.Disconnect(context.Background()) }

// Collection exposes the state collection for integration testing hooks.
func (b *Backend) Collection() *mongo.Collection { return b.col }
