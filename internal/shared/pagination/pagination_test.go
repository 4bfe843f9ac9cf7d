package pagination

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, Request{Page: 0, Size: DefaultSize}, Request{Page: -2}.Normalize())
	assert.Equal(t, Request{Page: 3, Size: MaxSize}, Request{Page: 3, Size: 1000}.Normalize())
}

func TestSlice(t *testing.T) {
	all := []int{1, 2, 3, 4, 5}

	page := Slice(all, Request{Page: 1, Size: 2})
	assert.Equal(t, []int{3, 4}, page.Content)
	assert.Equal(t, int64(5), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Number)

	beyond := Slice(all, Request{Page: 9, Size: 2})
	require.NotNil(t, beyond.Content)
	assert.Empty(t, beyond.Content)
	assert.Equal(t, int64(5), beyond.TotalElements)
}

func TestSliceFarPageDoesNotOverflow(t *testing.T) {
	assert.Equal(t, math.MaxInt, Request{Page: math.MaxInt/2 + 2, Size: 2}.Offset())
	assert.Equal(t, 4, Request{Page: 2, Size: 2}.Offset())

	page := Slice([]int{1, 2, 3}, Request{Page: math.MaxInt/2 + 2, Size: 2})
	require.NotNil(t, page.Content)
	assert.Empty(t, page.Content)
	assert.Equal(t, int64(3), page.TotalElements)

	last := Slice([]int{1, 2, 3}, Request{Page: 0, Size: MaxSize})
	assert.Equal(t, []int{1, 2, 3}, last.Content)
}

func TestMaxPage(t *testing.T) {
	assert.Equal(t, math.MaxInt/20, MaxPage(20))
	assert.Equal(t, math.MaxInt, MaxPage(0))
}

func TestMap(t *testing.T) {
	page := Map(Slice([]int{7, 8}, Request{Size: 10}), strconv.Itoa)
	assert.Equal(t, []string{"7", "8"}, page.Content)
	assert.Equal(t, 1, page.TotalPages)
}
