package storage

import (
	"context"

	"cha-ching/internal/models"
)

// MemoryStore keeps a private copy of the document in process.
type MemoryStore struct {
	doc *models.Document
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{doc: models.NewDocument()}
}

func (s *MemoryStore) Load(ctx context.Context) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.doc.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, doc *models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.doc = doc.Clone()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
