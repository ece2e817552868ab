package storage

import (
	"context"
	"fmt"
	"time"

	gcs "cloud.google.com/go/storage"
)

// GCSStore writes objects to a Google Cloud Storage bucket.
type GCSStore struct {
	client *gcs.Client
	bucket string
	now    func() time.Time
}

// NewGCSStore creates a client from application default credentials.
func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, &StorageError{Op: "connect", Key: bucket, Err: err}
	}
	return NewGCSStoreFromClient(client, bucket), nil
}

func NewGCSStoreFromClient(client *gcs.Client, bucket string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket, now: time.Now}
}

func (s *GCSStore) Store(ctx context.Context, keyPrefix string, payload []byte, contentType string) (string, error) {
	key := ObjectKey(keyPrefix, contentType, s.now())

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(payload); err != nil {
		_ = w.Close()
		return "", &StorageError{Op: "write", Key: key, Err: err}
	}
	if err := w.Close(); err != nil {
		return "", &StorageError{Op: "write", Key: key, Err: err}
	}

	return fmt.Sprintf("gs://%s/%s", s.bucket, key), nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
