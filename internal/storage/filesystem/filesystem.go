package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Filesystem reads and writes price sheets on local disk.
type Filesystem interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
}

func New() Filesystem {
	return &filesystem{}
}

type filesystem struct{}

func (fs *filesystem) Read(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return data, nil
}

func (fs *filesystem) Write(ctx context.Context, path string, data []byte) error {
	dir := filepath.Dir(path)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}

	return os.WriteFile(path, data, 0644)
}
