package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend stores each document as one JSON file under a directory. It is
// the local-device analogue of the remote encrypted store.
type FileBackend struct {
	dir string
}

// NewFileBackend constructs a file backend rooted at dir.
func NewFileBackend(dir string) *FileBackend {
	if dir == "" {
		dir = "."
	}
	return &FileBackend{dir: dir}
}

// Read loads the document for key, reporting absence for a missing file.
func (b *FileBackend) Read(_ context.Context, key string) ([]byte, bool, error) {
	body, err := os.ReadFile(b.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read document %q: %w", key, err)
	}
	return body, true, nil
}

// Write replaces the document for key. The write is atomic: a temp file is
// written first then renamed over the target.
func (b *FileBackend) Write(_ context.Context, key string, body []byte) error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}

	target := b.path(key)
	tmp, err := os.CreateTemp(b.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write document %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp document: %w", err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace document %q: %w", key, err)
	}
	return nil
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

var _ Backend = (*FileBackend)(nil)
