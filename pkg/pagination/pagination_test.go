package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		page, size   int
		offset, limit int
	}{
		{name: "first page", page: 1, size: 10, offset: 0, limit: 10},
		{name: "third page", page: 3, size: 10, offset: 20, limit: 10},
		{name: "page below one", page: 0, size: 10, offset: 0, limit: 10},
		{name: "size defaults", page: 2, size: 0, offset: DefaultPageSize, limit: DefaultPageSize},
		{name: "size capped", page: 1, size: 1000, offset: 0, limit: MaxPageSize},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			offset, limit := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.offset, offset)
			assert.Equal(t, tt.limit, limit)
		})
	}
}

func TestSlice_PageContainsExpectedRange(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 25; n++ {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}
		for size := 1; size <= 7; size++ {
			for page := 1; page <= n/size+2; page++ {
				got := Slice(items, page, size)

				start := (page - 1) * size
				end := page * size
				if end > n {
					end = n
				}
				if start >= n {
					assert.Empty(t, got, "n=%d size=%d page=%d", n, size, page)
					continue
				}
				assert.Equal(t, items[start:end], got, "n=%d size=%d page=%d", n, size, page)
			}
		}
	}
}

func TestSlice_PagesCoverAllItemsOnce(t *testing.T) {
	t.Parallel()

	items := []string{"a", "b", "c", "d", "e", "f", "g"}
	var seen []string
	meta := NewMeta(1, 3, int64(len(items)))
	for p := 1; int64(p) <= meta.TotalPages; p++ {
		seen = append(seen, Slice(items, p, 3)...)
	}
	assert.Equal(t, items, seen)
}

func TestNewMeta(t *testing.T) {
	t.Parallel()

	m := NewMeta(2, 10, 25)
	assert.Equal(t, Meta{Page: 2, Size: 10, Total: 25, TotalPages: 3, HasPrev: true, HasNext: true}, m)

	last := NewMeta(3, 10, 25)
	assert.False(t, last.HasNext)

	empty := NewMeta(1, 10, 0)
	assert.EqualValues(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestParseIntDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, ParseIntDefault("", 5))
	assert.Equal(t, 7, ParseIntDefault("7", 5))
	assert.Equal(t, 5, ParseIntDefault("seven", 5))
}
