package store

import (
	"context"

	"github.com/peterbourgon/diskv/v3"
)

// Diskv stores each key as a flat file under basePath. The read cache stays off so
// another process's writes are visible.
type Diskv struct {
	d *diskv.Diskv
}

func OpenDiskv(basePath string) *Diskv {
	return &Diskv{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 0,
	})}
}

func (b *Diskv) Get(_ context.Context, key string) ([]byte, bool, error) {
	if !b.d.Has(key) {
		return nil, false, nil
	}
	v, err := b.d.Read(key)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (b *Diskv) Put(_ context.Context, key string, val []byte) error {
	return b.d.Write(key, val)
}

func (b *Diskv) Close() error { return nil }
