package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	ErrUnknownBackend = errors.New("unknown state backend")
	ErrInvalidKey     = errors.New("invalid state key")
)

// Backend is the key-value persistence capability the state service writes through.
// Values are opaque bytes; a missing key is reported as ok == false, not as an error.
type Backend interface {
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Put(ctx context.Context, key string, val []byte) error
	Close() error
}

const (
	BackendSQLite   = "sqlite"
	BackendDiskv    = "diskv"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Backends lists the accepted values for Options.Kind.
func Backends() []string {
	return []string{BackendSQLite, BackendDiskv, BackendFile, BackendPostgres, BackendMemory}
}

type Options struct {
	Kind string
	// Dir holds on-disk state for the sqlite, diskv and file backends.
	Dir string
	// DSN is the postgres connection string.
	DSN string
}

// Open returns the backend selected by opts.Kind. Kind defaults to sqlite.
func Open(ctx context.Context, opts Options) (Backend, error) {
	kind := strings.ToLower(strings.TrimSpace(opts.Kind))
	if kind == "" {
		kind = BackendSQLite
	}
	dir := strings.TrimSpace(opts.Dir)
	needsDir := kind == BackendSQLite || kind == BackendDiskv || kind == BackendFile
	if needsDir && dir == "" {
		return nil, fmt.Errorf("state backend %s: dir is empty", kind)
	}

	switch kind {
	case BackendSQLite:
		return OpenSQLite(ctx, filepath.Join(dir, "state.sqlite"))
	case BackendDiskv:
		return OpenDiskv(filepath.Join(dir, "diskv")), nil
	case BackendFile:
		return OpenFile(dir)
	case BackendPostgres:
		return OpenPostgres(ctx, opts.DSN)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q (expected %s)", ErrUnknownBackend, opts.Kind, strings.Join(Backends(), "|"))
	}
}

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// NormalizeKey lowercases and trims a state key. Keys double as file names in the file and
// diskv backends, so only [a-z0-9_-] is accepted.
func NormalizeKey(key string) (string, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return DefaultKey, nil
	}
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return key, nil
}
