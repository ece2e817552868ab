package storage

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// FileStore writes objects below a local directory and returns file:// URIs.
type FileStore struct {
	dir string
	now func() time.Time
}

func NewFileStore(dir string) (*FileStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, &StorageError{Op: "open", Key: dir, Err: err}
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, &StorageError{Op: "open", Key: dir, Err: err}
	}
	return &FileStore{dir: abs, now: time.Now}, nil
}

func (s *FileStore) Store(ctx context.Context, keyPrefix string, payload []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &StorageError{Op: "write", Key: keyPrefix, Err: err}
	}
	key := ObjectKey(keyPrefix, contentType, s.now())
	full := filepath.Join(s.dir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", &StorageError{Op: "mkdir", Key: key, Err: err}
	}
	if err := os.WriteFile(full, payload, 0o644); err != nil {
		return "", &StorageError{Op: "write", Key: key, Err: err}
	}

	return "file://" + filepath.ToSlash(full), nil
}
