package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"praxis-rag/internal/domain"
)

// FSStore stores uploaded files on the local filesystem under a base
// directory. Storage keys are relative paths; anything escaping the base
// directory is rejected.
type FSStore struct {
	baseDir string
}

// NewFSStore creates a file store rooted at baseDir, creating it if needed.
func NewFSStore(baseDir string) (*FSStore, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &FSStore{baseDir: baseDir}, nil
}

func (s *FSStore) resolve(storageKey string) (string, error) {
	if storageKey == "" {
		return "", fmt.Errorf("empty storage key")
	}
	path := filepath.Join(s.baseDir, filepath.Clean(storageKey))
	if !strings.HasPrefix(path, s.baseDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage key escapes base dir: %s", storageKey)
	}
	return path, nil
}

func (s *FSStore) Get(_ context.Context, storageKey string) ([]byte, error) {
	path, err := s.resolve(storageKey)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func (s *FSStore) Put(_ context.Context, storageKey string, data []byte) error {
	path, err := s.resolve(storageKey)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create parent dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (s *FSStore) Delete(_ context.Context, storageKey string) error {
	path, err := s.resolve(storageKey)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

var _ domain.FileStore = (*FSStore)(nil)
