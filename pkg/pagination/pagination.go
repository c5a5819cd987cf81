// Package pagination slices ordered result sets into 1-based fixed-size pages.
// Out-of-range pages resolve to empty results, never errors.
package pagination

// DefaultPageSize matches the reference page size used across listing endpoints.
const DefaultPageSize = 30

// Normalize clamps page and size to usable values: page >= 1,
// size defaults to DefaultPageSize when non-positive.
func Normalize(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	return page, size
}

// Offset converts a normalized page into a query offset.
func Offset(page, size int) int {
	return (page - 1) * size
}

// PageCount returns how many pages a total row count occupies.
// An empty set still has zero pages; callers treat any requested
// page beyond the count as empty.
func PageCount(total int64, size int) int {
	if size < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Slice pages an in-memory sequence (e.g. a cached id list).
func Slice[T any](items []T, page, size int) []T {
	page, size = Normalize(page, size)
	start := Offset(page, size)
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
