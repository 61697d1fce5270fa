// Package blobdoc persists the document as a single JSON object in a blob
// store, which lets the state live on a filesystem or in S3.
package blobdoc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"partnerhub/internal/blob"
	"partnerhub/pkg/domain"
)

// Backend writes <key>.json into the wrapped blob store. The object is the
// document itself: each bucket becomes a top-level member.
type Backend struct {
	store blob.Store
}

var _ domain.Backend = (*Backend)(nil)

// New wraps store.
func New(store blob.Store) *Backend { return &Backend{store: store} }

const objectSuffix = ".json"

func objectKey(key string) string { return key + objectSuffix }

func (b *Backend) Load(ctx context.Context, key string) (domain.Buckets, error) {
	_, rc, err := b.store.Get(ctx, objectKey(key))
	if errors.Is(err, blob.ErrNotFound) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", objectKey(key), err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", objectKey(key), err)
	}
	out := make(domain.Buckets, len(raw))
	for name, payload := range raw {
		out[name] = []byte(payload)
	}
	return out, nil
}

func (b *Backend) Save(ctx context.Context, key string, buckets domain.Buckets) error {
	raw := make(map[string]json.RawMessage, len(buckets))
	for name, payload := range buckets {
		raw[name] = json.RawMessage(payload)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode %s: %w", objectKey(key), err)
	}
	_, err = b.store.Put(ctx, objectKey(key), bytes.NewReader(data), blob.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"storage-key": key},
	})
	return err
}

// Keys lists the stored documents. Objects that are not documents, such as
// other files sharing the bucket, are skipped.
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	infos, err := b.store.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	keys := make([]string, 0, len(infos))
	for _, info := range infos {
		if key, ok := strings.CutSuffix(info.Key, objectSuffix); ok && key != "" {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func (b *Backend) Delete(ctx context.Context, key string) (bool, error) {
	removed, err := b.store.Delete(ctx, objectKey(key))
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", objectKey(key), err)
	}
	return removed, nil
}

func (b *Backend) Driver() domain.Driver { return domain.DriverBlob }

// BlobDriver reports which object store holds the document.
func (b *Backend) BlobDriver() blob.Driver { return b.store.Driver() }

func (b *Backend) Close() error { return nil }
