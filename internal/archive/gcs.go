package archive

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcsstorage "cloud.google.com/go/storage"
)

// GCS stores objects in a Google Cloud Storage bucket.
type GCS struct {
	bucket *gcsstorage.BucketHandle
}

// NewGCS wraps an existing bucket handle.
func NewGCS(bucket *gcsstorage.BucketHandle) *GCS {
	return &GCS{bucket: bucket}
}

func (g *GCS) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	w := g.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close object writer: %w", err)
	}
	return key, nil
}

func (g *GCS) Get(ctx context.Context, key string) ([]byte, error) {
	reader, err := g.bucket.Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcsstorage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("open object: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	return data, nil
}

func (g *GCS) Delete(ctx context.Context, key string) error {
	if err := g.bucket.Object(key).Delete(ctx); err != nil && !errors.Is(err, gcsstorage.ErrObjectNotExist) {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
