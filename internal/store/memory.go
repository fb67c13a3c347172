package store

import (
	"context"
	"sync"
)

// Memory is a process-local backend; state is lost on exit.
type Memory struct {
	mu sync.Mutex
	m  map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{m: map[string][]byte{}}
}

func (b *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.m[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte{}, v...), true, nil
}

func (b *Memory) Put(_ context.Context, key string, val []byte) error {
	b.mu.Lock()
	b.m[key] = append([]byte{}, val...)
	b.mu.Unlock()
	return nil
}

func (b *Memory) Close() error { return nil }
