package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// FileRepository stores each key as a JSON file in a directory. Writes go
// through a temp file and rename, so a reader never sees a partial value.
type FileRepository struct {
	dir string
}

// NewFileRepository creates the directory if needed.
func NewFileRepository(dir string) (*FileRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileRepository{dir: dir}, nil
}

func (r *FileRepository) path(key string) string {
	return filepath.Join(r.dir, url.PathEscape(key)+".json")
}

// Get returns the value for key, or nil when the key is absent.
func (r *FileRepository) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(r.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", key, err)
	}
	return data, nil
}

// Set replaces the value for key.
func (r *FileRepository) Set(_ context.Context, key string, value []byte) error {
	if err := atomic.WriteFile(r.path(key), bytes.NewReader(value)); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}
