package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// File keeps one <key>.json document per key in a directory. Writes replace the file
// atomically so a crashed save never leaves a truncated document behind.
type File struct {
	dir string
}

func OpenFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &File{dir: dir}, nil
}

func (b *File) path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

func (b *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, err := os.ReadFile(b.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return v, true, nil
}

func (b *File) Put(_ context.Context, key string, val []byte) error {
	return atomic.WriteFile(b.path(key), bytes.NewReader(val))
}

func (b *File) Close() error { return nil }
