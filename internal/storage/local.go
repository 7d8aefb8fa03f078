package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStorage reads images from the local filesystem. Relative keys are
// resolved against baseDir, or the working directory when baseDir is empty.
type LocalStorage struct {
	baseDir string
}

func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir}
}

func (s *LocalStorage) Resolve(key string) string {
	if filepath.IsAbs(key) || s.baseDir == "" {
		return key
	}
	return filepath.Join(s.baseDir, key)
}

// Read loads a file. Missing files map to ErrNotFound.
func (s *LocalStorage) Read(ctx context.Context, key string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.Resolve(key)

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return newObject(path, data), nil
}

// Close is a no-op for local storage
func (s *LocalStorage) Close() error {
	return nil
}

func (s *LocalStorage) IsRemote() bool {
	return false
}
