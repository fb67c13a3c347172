// Package catalog holds the immutable item collection and answers label filters.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"catalog-cli/internal/model"
)

var ErrNotFound = errors.New("item not found")

// Store is read-only after construction and safe for concurrent use.
type Store struct {
	items []model.Item
	lower []string    // lowercased labels, parallel to items
	byID  map[int]int // id -> index into items
}

// Label returns the label the generator assigns to id.
func Label(id int) string {
	return fmt.Sprintf("Item %d", id)
}

// Generate builds a catalog of n items with ids 1..n labelled "Item <id>".
func Generate(n int) *Store {
	if n < 0 {
		n = 0
	}
	items := make([]model.Item, n)
	for i := range items {
		items[i] = model.Item{ID: i + 1, Label: Label(i + 1)}
	}
	return New(items)
}

// New builds a store over items. Items are expected in ascending id order; New does not
// re-sort them. A later duplicate id is unreachable through Lookup.
func New(items []model.Item) *Store {
	s := &Store{
		items: items,
		lower: make([]string, len(items)),
		byID:  make(map[int]int, len(items)),
	}
	for i, it := range items {
		s.lower[i] = strings.ToLower(it.Label)
		if _, ok := s.byID[it.ID]; !ok {
			s.byID[it.ID] = i
		}
	}
	return s
}

func (s *Store) Len() int { return len(s.items) }

// Filter returns the items whose label contains q, case-insensitively, in catalog order.
//
// An empty query returns the backing collection itself; callers must not mutate it.
func (s *Store) Filter(q string) []model.Item {
	if q == "" {
		return s.items
	}
	needle := strings.ToLower(q)
	out := []model.Item{}
	for i, l := range s.lower {
		if strings.Contains(l, needle) {
			out = append(out, s.items[i])
		}
	}
	return out
}

// Lookup returns the item with the given id.
func (s *Store) Lookup(id int) (model.Item, error) {
	i, ok := s.byID[id]
	if !ok {
		return model.Item{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return s.items[i], nil
}
