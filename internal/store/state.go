// Package store persists the order overlay (selection + manual order) through a key-value
// backend and serves it as the state service.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"catalog-cli/internal/model"

	"github.com/golang/glog"
)

const DefaultKey = "default"

// State is the state service: whole-overlay reads and replace-only writes.
//
// Every Get reads the backend, so processes sharing a backend see each other's writes.
// There is no versioning; the last Set wins.
type State struct {
	backend Backend
	key     string
}

// NewState binds a state service to one key of backend.
func NewState(backend Backend, key string) (*State, error) {
	k, err := NormalizeKey(key)
	if err != nil {
		return nil, err
	}
	return &State{backend: backend, key: k}, nil
}

func (s *State) Key() string { return s.key }

// Get returns the persisted overlay. A key that was never written yields an
// empty overlay. An unreadable document is logged and treated as empty.
func (s *State) Get(ctx context.Context) (model.Overlay, error) {
	return s.load(ctx)
}

func (s *State) load(ctx context.Context) (model.Overlay, error) {
	b, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return model.Overlay{}, fmt.Errorf("load state %q: %w", s.key, err)
	}
	if !ok || len(b) == 0 {
		return model.Overlay{}.Normalize(), nil
	}
	var ov model.Overlay
	if err := json.Unmarshal(b, &ov); err != nil {
		glog.Warningf("state %q: unreadable document, starting empty: %v", s.key, err)
		return model.Overlay{}.Normalize(), nil
	}
	return ov.Normalize(), nil
}

// Set fully replaces the persisted overlay and returns the stored (normalized) form.
func (s *State) Set(ctx context.Context, ov model.Overlay) (model.Overlay, error) {
	ov = ov.Normalize()
	b, err := json.Marshal(ov)
	if err != nil {
		return model.Overlay{}, err
	}

	if err := s.backend.Put(ctx, s.key, b); err != nil {
		return model.Overlay{}, fmt.Errorf("save state %q: %w", s.key, err)
	}
	glog.V(1).Infof("state %q saved: selected=%d sorted=%d", s.key, len(ov.SelectedIDs), len(ov.SortedIDs))
	return ov.Clone(), nil
}
