package driver

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

var _ KV = (*FileKV)(nil)

// FileKV persists each key as one file under a directory, standing in for
// the browser profile storage of the original storefront.
type FileKV struct {
	dir string
}

// NewFileKV creates dir if needed and returns a KV that stores each key as
// <dir>/<key>.json.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileKV{dir: dir}, nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileKV) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (f *FileKV) Set(_ context.Context, key string, value []byte) error {
	return os.WriteFile(f.path(key), value, 0o644)
}

func (f *FileKV) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
