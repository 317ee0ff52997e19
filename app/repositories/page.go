package repositories

import "math"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Page is an offset window over an ordered result.
type Page struct {
	Skip int
	Take int
}

// NewPage converts a 1-indexed page number and a page size to an offset
// window. Non-positive values fall back to the defaults. A page too far out
// to address selects nothing.
func NewPage(page, size int) Page {
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if page-1 > math.MaxInt/size {
		return Page{Skip: math.MaxInt, Take: size}
	}
	return Page{
		Skip: (page - 1) * size,
		Take: size,
	}
}

// Paginate returns the window of items selected by p.
func Paginate[T any](items []T, p Page) []T {
	if p.Skip < 0 || p.Skip >= len(items) {
		return []T{}
	}
	end := len(items)
	if p.Take >= 0 && p.Take < end-p.Skip {
		end = p.Skip + p.Take
	}
	return items[p.Skip:end]
}
