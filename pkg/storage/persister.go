package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/charmbracelet/log"

	"quill/pkg/schema"
)

// Persister stores the two artifacts of a book under a folder derived from
// its title.
type Persister struct {
	store Store
}

func NewPersister(store Store) *Persister {
	return &Persister{store: store}
}

func (p *Persister) SaveManuscript(ctx context.Context, title, markdown string) (string, error) {
	return p.put(ctx, path.Join(Slugify(title), "manuscript"), []byte(markdown), ContentTypeMarkdown)
}

func (p *Persister) SaveMetadata(ctx context.Context, title string, meta schema.Metadata) (string, error) {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", &StorageError{Op: "encode", Key: "metadata", Err: err}
	}
	return p.put(ctx, path.Join(Slugify(title), "metadata"), data, ContentTypeJSON)
}

// SaveBook stores the manuscript and then its metadata. The first failure is
// returned and no receipt is produced.
func (p *Persister) SaveBook(ctx context.Context, title, markdown string, meta schema.Metadata) (schema.StorageReceipt, error) {
	manuscriptURI, err := p.SaveManuscript(ctx, title, markdown)
	if err != nil {
		return schema.StorageReceipt{}, err
	}
	metadataURI, err := p.SaveMetadata(ctx, title, meta)
	if err != nil {
		return schema.StorageReceipt{}, err
	}
	log.Info("book stored", "manuscript", manuscriptURI, "metadata", metadataURI)
	return schema.StorageReceipt{ManuscriptURI: manuscriptURI, MetadataURI: metadataURI}, nil
}

func (p *Persister) put(ctx context.Context, keyPrefix string, payload []byte, contentType string) (string, error) {
	uri, err := p.store.Store(ctx, keyPrefix, payload, contentType)
	if err != nil {
		if errors.Is(err, ErrStorage) {
			return "", err
		}
		return "", &StorageError{Op: "put", Key: keyPrefix, Err: err}
	}
	if uri == "" {
		return "", &StorageError{Op: "put", Key: keyPrefix, Err: fmt.Errorf("store returned no location")}
	}
	return uri, nil
}
