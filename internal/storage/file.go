package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"cha-ching/internal/models"
)

// FileStore keeps the document as a JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the JSON file at path. The file is
// created on the first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the document. A missing or empty file is an empty document.
func (s *FileStore) Load(ctx context.Context) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return models.NewDocument(), nil
	}

	var doc models.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	doc.Normalize()
	return &doc, nil
}

// Save writes the document to a temporary file next to the target and
// renames it into place, so readers never see a partial document.
func (s *FileStore) Save(ctx context.Context, doc *models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(b, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (s *FileStore) Close() error { return nil }
