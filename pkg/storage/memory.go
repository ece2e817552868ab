package storage

import (
	"context"
	"maps"
	"sync"
	"time"
)

type Object struct {
	Data        []byte
	ContentType string
}

// MemoryStore keeps objects in process memory. It backs dry runs and tests.
type MemoryStore struct {
	bucket  string
	now     func() time.Time
	mu      sync.Mutex
	objects map[string]Object
}

func NewMemoryStore(bucket string) *MemoryStore {
	return &MemoryStore{
		bucket:  bucket,
		now:     time.Now,
		objects: make(map[string]Object),
	}
}

func (s *MemoryStore) Store(ctx context.Context, keyPrefix string, payload []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &StorageError{Op: "write", Key: keyPrefix, Err: err}
	}
	key := ObjectKey(keyPrefix, contentType, s.now())

	s.mu.Lock()
	s.objects[key] = Object{Data: append([]byte(nil), payload...), ContentType: contentType}
	s.mu.Unlock()

	return "mem://" + s.bucket + "/" + key, nil
}

// Objects returns a snapshot of every stored object keyed by object key.
func (s *MemoryStore) Objects() map[string]Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.objects)
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
