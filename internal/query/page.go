package query

// MaxPageSize bounds a single page request.
const MaxPageSize = 500

// Page returns items[offset : offset+limit], clamped to the sequence bounds.
// A negative offset is treated as 0; an offset past the end yields an empty page.
func Page[T any](items []T, offset, limit int) []T {
	offset, limit = clamp(offset, limit)
	if offset >= len(items) || limit == 0 {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// HasMore reports whether a page of returned items suggests another page exists.
//
// A full page is taken as the signal; a catalog whose size is an exact multiple of the page
// size costs the client one extra empty fetch.
func HasMore(returned, limit int) bool {
	return limit > 0 && returned == limit
}

func clamp(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return offset, limit
}
