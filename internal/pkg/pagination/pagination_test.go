package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		page     string
		pageSize string
		want     Window
	}{
		{"defaults", "", "", Window{Page: 1, PageSize: 12, From: 0, To: 11}},
		{"third page", "3", "12", Window{Page: 3, PageSize: 12, From: 24, To: 35}},
		{"non-numeric page", "abc", "10", Window{Page: 1, PageSize: 10, From: 0, To: 9}},
		{"zero page", "0", "5", Window{Page: 1, PageSize: 5, From: 0, To: 4}},
		{"negative page", "-4", "5", Window{Page: 1, PageSize: 5, From: 0, To: 4}},
		{"size above max", "2", "500", Window{Page: 2, PageSize: 48, From: 48, To: 95}},
		{"negative size", "1", "-3", Window{Page: 1, PageSize: 1, From: 0, To: 0}},
		{"zero size uses default", "1", "0", Window{Page: 1, PageSize: 12, From: 0, To: 11}},
		{"huge page is clamped", "9223372036854775807", "48", Window{Page: MaxPage, PageSize: 48, From: (MaxPage - 1) * 48, To: MaxPage*48 - 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.page, tt.pageSize))
		})
	}
}

func TestNew_WindowMatchesFormula(t *testing.T) {
	for page := -2; page <= 6; page++ {
		for size := -1; size <= 60; size++ {
			w := New(page, size)

			assert.GreaterOrEqual(t, w.Page, 1)
			assert.GreaterOrEqual(t, w.PageSize, 1)
			assert.LessOrEqual(t, w.PageSize, MaxPageSize)
			assert.Equal(t, int64(w.Page-1)*int64(w.PageSize), w.From)
			assert.Equal(t, w.From+int64(w.PageSize)-1, w.To)
		}
	}
}

func TestNew_LargePageKeepsPositiveOffset(t *testing.T) {
	w := New(math.MaxInt, MaxPageSize)

	assert.Equal(t, MaxPage, w.Page)
	assert.Positive(t, w.From)
	assert.Greater(t, w.To, w.From)
}

func TestWindow_TotalPages(t *testing.T) {
	w := New(1, 12)

	assert.Equal(t, 1, w.TotalPages(0))
	assert.Equal(t, 1, w.TotalPages(1))
	assert.Equal(t, 1, w.TotalPages(12))
	assert.Equal(t, 2, w.TotalPages(13))
	assert.Equal(t, 5, w.TotalPages(60))
}
