package storage

import (
	"context"
	"fmt"

	"cha-ching/internal/models"
)

// Store loads and saves the whole document. A completed Save must be visible
// to the next Load. There is no locking: the last writer wins.
type Store interface {
	Load(ctx context.Context) (*models.Document, error)
	Save(ctx context.Context, doc *models.Document) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open returns the store for backend at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendJSON, "":
		return NewFileStore(path), nil
	case BackendSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
