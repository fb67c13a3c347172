// Package query answers paged catalog listings with the persisted manual order applied.
package query

import (
	"context"
	"fmt"

	"catalog-cli/internal/catalog"
	"catalog-cli/internal/model"
)

// OverlaySource yields the currently persisted overlay.
type OverlaySource interface {
	Get(ctx context.Context) (model.Overlay, error)
}

type Service struct {
	catalog  *catalog.Store
	overlays OverlaySource
}

func NewService(c *catalog.Store, overlays OverlaySource) *Service {
	return &Service{catalog: c, overlays: overlays}
}

// List filters the catalog by q, applies the overlay read at call time, and returns the
// requested page. There is no isolation from concurrent overlay writes: a write landing
// between two List calls can shift items across page boundaries.
func (s *Service) List(ctx context.Context, q string, offset, limit int) ([]model.Item, error) {
	ov, err := s.overlays.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read overlay: %w", err)
	}
	return Window(s.catalog.Filter(q), ov.SortedIDs, offset, limit), nil
}

// Lookup returns a single catalog item by id.
func (s *Service) Lookup(id int) (model.Item, error) {
	return s.catalog.Lookup(id)
}
