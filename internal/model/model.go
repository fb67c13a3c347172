package model

import "sort"

const (
	// DefaultPageSize is shared by the server's default limit and the client's page cursor.
	// hasMore detection relies on both sides agreeing on it.
	DefaultPageSize = 20

	// DefaultItemCount is the size of the generated catalog.
	DefaultItemCount = 1_000_000
)

type Item struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// Overlay is the persisted user state: the selection set plus the manual order.
//
// SortedIDs is authoritative for pinned placement. Every id in SortedIDs is expected to be
// selected, but nothing enforces it.
type Overlay struct {
	SelectedIDs []int `json:"selectedIds"`
	SortedIDs   []int `json:"sortedIds"`
}

// Normalize returns a copy with nil slices replaced by empty ones and duplicate ids dropped
// (first occurrence wins). SelectedIDs is a set, so it comes back sorted ascending.
func (o Overlay) Normalize() Overlay {
	sel := dedupe(o.SelectedIDs)
	sort.Ints(sel)
	return Overlay{
		SelectedIDs: sel,
		SortedIDs:   dedupe(o.SortedIDs),
	}
}

// Clone returns a deep copy.
func (o Overlay) Clone() Overlay {
	return Overlay{
		SelectedIDs: append([]int{}, o.SelectedIDs...),
		SortedIDs:   append([]int{}, o.SortedIDs...),
	}
}

// IsSelected reports whether id is part of the selection.
func (o Overlay) IsSelected(id int) bool {
	for _, v := range o.SelectedIDs {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle flips id in the selection and mirrors the change into SortedIDs: a newly selected id
// is appended, a deselected one is removed. The receiver is left unchanged.
func (o Overlay) Toggle(id int) Overlay {
	if o.IsSelected(id) {
		return Overlay{SelectedIDs: without(o.SelectedIDs, id), SortedIDs: without(o.SortedIDs, id)}
	}
	out := o.Clone()
	out.SelectedIDs = append(out.SelectedIDs, id)
	for _, v := range out.SortedIDs {
		if v == id {
			return out
		}
	}
	out.SortedIDs = append(out.SortedIDs, id)
	return out
}

func without(ids []int, id int) []int {
	out := make([]int, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func dedupe(ids []int) []int {
	out := make([]int, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
