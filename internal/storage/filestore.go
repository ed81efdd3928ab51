package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore persists raw uploaded bytes on disk. Keys are opaque to callers.
type FileStore struct {
	dir string
}

// NewFileStore creates the upload directory if needed and returns a store
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the bytes under a fresh key and returns the key
func (s *FileStore) Save(filename string, data []byte) (string, error) {
	key := uuid.NewString() + sanitizeExt(filename)
	path := filepath.Join(s.dir, key)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return key, nil
}

// Read returns the bytes previously stored under key
func (s *FileStore) Read(key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil {
		return nil, fmt.Errorf("failed to read stored upload: %w", err)
	}
	return data, nil
}

// sanitizeExt keeps the original extension for operator convenience,
// dropping anything that could escape the upload dir
func sanitizeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) > 10 {
		return ""
	}
	return ext
}
