// Package pagination turns raw page/pageSize inputs into a bounded row window.
package pagination

import "strconv"

const (
	DefaultPageSize = 12
	MaxPageSize     = 48

	// MaxPage bounds page so the row offset cannot overflow.
	MaxPage = 1_000_000
)

// Window is a 1-based page together with its zero-based inclusive row range.
type Window struct {
	Page     int
	PageSize int
	From     int64
	To       int64
}

// Parse reads page and pageSize from query-string values.
// Missing or non-numeric values fall back to page 1 and the default size.
func Parse(page, pageSize string) Window {
	p, err := strconv.Atoi(page)
	if err != nil {
		p = 1
	}
	ps, err := strconv.Atoi(pageSize)
	if err != nil || ps == 0 {
		ps = DefaultPageSize
	}
	return New(p, ps)
}

// New clamps page to [1, MaxPage] and pageSize to [1, MaxPageSize].
func New(page, pageSize int) Window {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	from := int64(page-1) * int64(pageSize)
	return Window{
		Page:     page,
		PageSize: pageSize,
		From:     from,
		To:       from + int64(pageSize) - 1,
	}
}

// TotalPages returns ceil(total/pageSize), never less than 1.
func (w Window) TotalPages(total int64) int {
	if total <= 0 {
		return 1
	}
	size := int64(w.PageSize)
	return int((total + size - 1) / size)
}
