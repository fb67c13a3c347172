package query

import "catalog-cli/internal/model"

// Merge places the pinned items of sortedIDs ahead of the rest of filtered.
//
// Pinned ids absent from filtered are skipped; they stay in sortedIDs but are not visible
// under the current filter. The remaining items keep their filtered order. An id repeated in
// sortedIDs is placed once, at its first position.
//
// Cost is O(len(sortedIDs) + len(filtered)).
func Merge(filtered []model.Item, sortedIDs []int) []model.Item {
	if len(sortedIDs) == 0 {
		return filtered
	}
	pins := pinSlots(sortedIDs)
	slots := make([]*model.Item, len(sortedIDs))
	rest := make([]model.Item, 0, len(filtered))
	for i := range filtered {
		if slot, ok := pins[filtered[i].ID]; ok {
			if slots[slot] == nil {
				slots[slot] = &filtered[i]
			}
			continue
		}
		rest = append(rest, filtered[i])
	}

	out := make([]model.Item, 0, len(filtered))
	for _, it := range slots {
		if it != nil {
			out = append(out, *it)
		}
	}
	return append(out, rest...)
}

// Window returns Page(Merge(filtered, sortedIDs), offset, limit) without materializing the
// merged sequence. Only the pinned group is allocated; the unpinned tail is walked in place.
func Window(filtered []model.Item, sortedIDs []int, offset, limit int) []model.Item {
	offset, limit = clamp(offset, limit)
	if limit == 0 {
		return []model.Item{}
	}
	if len(sortedIDs) == 0 {
		return Page(filtered, offset, limit)
	}

	pins := pinSlots(sortedIDs)
	slots := make([]*model.Item, len(sortedIDs))
	for i := range filtered {
		if slot, ok := pins[filtered[i].ID]; ok && slots[slot] == nil {
			slots[slot] = &filtered[i]
		}
	}
	pinned := make([]model.Item, 0, len(slots))
	for _, it := range slots {
		if it != nil {
			pinned = append(pinned, *it)
		}
	}

	out := make([]model.Item, 0, limit)
	if offset < len(pinned) {
		out = append(out, Page(pinned, offset, limit)...)
	}
	skip := offset - len(pinned)
	if skip < 0 {
		skip = 0
	}
	for i := range filtered {
		if len(out) == limit {
			break
		}
		if _, ok := pins[filtered[i].ID]; ok {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		out = append(out, filtered[i])
	}
	return out
}

func pinSlots(sortedIDs []int) map[int]int {
	pins := make(map[int]int, len(sortedIDs))
	for i, id := range sortedIDs {
		if _, ok := pins[id]; !ok {
			pins[id] = i
		}
	}
	return pins
}
