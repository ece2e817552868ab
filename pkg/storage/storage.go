// Package storage writes book artifacts to object stores under
// collision-resistant keys.
package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ContentTypeMarkdown = "text/markdown; charset=utf-8"
	ContentTypeJSON     = "application/json; charset=utf-8"
)

var ErrStorage = errors.New("storage error")

// Store is an opaque blob writer. Implementations choose the full object key
// from keyPrefix and return a location URI for it.
type Store interface {
	Store(ctx context.Context, keyPrefix string, payload []byte, contentType string) (string, error)
}

// StorageError wraps any failure of a Store.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

var unsafeRX = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Slugify turns a book title into a folder name. Runs of characters outside
// [a-zA-Z0-9_-] become a single dash; titles with nothing left become "book".
func Slugify(title string) string {
	safe := strings.ToLower(strings.Trim(unsafeRX.ReplaceAllString(title, "-"), "-"))
	if safe == "" {
		return "book"
	}
	return safe
}

// ObjectKey appends a UTC timestamp, a short random suffix and an extension
// derived from contentType to keyPrefix.
func ObjectKey(keyPrefix, contentType string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%s-%s%s", keyPrefix, now.UTC().Format("20060102-150405"), suffix, extension(contentType))
}

func extension(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "text/markdown":
		return ".md"
	case "application/json":
		return ".json"
	case "text/plain":
		return ".txt"
	default:
		return ""
	}
}
