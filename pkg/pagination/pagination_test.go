package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlice(t *testing.T) {
	items := make([]int, 35)
	for i := range items {
		items[i] = i
	}

	page1 := Slice(items, 1, 30)
	assert.Len(t, page1, 30)
	assert.Equal(t, 0, page1[0])

	page2 := Slice(items, 2, 30)
	assert.Len(t, page2, 5)
	assert.Equal(t, 30, page2[0])

	// out-of-range page is empty, not an error
	assert.Empty(t, Slice(items, 99, 30))
	assert.Empty(t, Slice([]int{}, 1, 30))
}

func TestNormalize(t *testing.T) {
	page, size := Normalize(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, size)

	page, size = Normalize(3, 10)
	assert.Equal(t, 3, page)
	assert.Equal(t, 10, size)
	assert.Equal(t, 20, Offset(page, size))
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 30))
	assert.Equal(t, 1, PageCount(1, 30))
	assert.Equal(t, 1, PageCount(30, 30))
	assert.Equal(t, 2, PageCount(31, 30))
	assert.Equal(t, 2, PageCount(35, 30))
}
