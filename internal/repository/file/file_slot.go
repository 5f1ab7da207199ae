package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"alcyxob/fitcrm/internal/repository"
)

// FileSlot implements repository.CollectionSlot over a single JSON file
// on disk. This is the default backend: the closest server-side analog
// of the browser-local storage the tool grew out of.
type FileSlot struct {
	path string
}

// NewFileSlot creates a FileSlot at the given path, creating parent
// directories as needed.
func NewFileSlot(path string) (*FileSlot, error) {
	if path == "" {
		return nil, errors.New("file slot: path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("file slot: create directory: %w", err)
		}
	}
	return &FileSlot{path: path}, nil
}

// Load reads the file content. A missing file means the slot was never
// written and returns (nil, nil).
func (s *FileSlot) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("file slot: read %s: %w", s.path, err)
	}
	return data, nil
}

// Save replaces the file content. The write goes to a temporary file in
// the same directory followed by a rename, so readers never observe a
// half-written collection.
func (s *FileSlot) Save(ctx context.Context, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("file slot: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("file slot: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file slot: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file slot: replace %s: %w", s.path, err)
	}
	return nil
}

var _ repository.CollectionSlot = (*FileSlot)(nil)
