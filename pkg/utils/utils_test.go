package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGeneratorUnique(t *testing.T) {
	g, err := NewIDGenerator(1)
	require.NoError(t, err)

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := g.NewString()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestIDGeneratorInvalidNode(t *testing.T) {
	_, err := NewIDGenerator(4096)
	assert.Error(t, err)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(0, 0, 25)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.EqualValues(t, 3, p.Pages)

	p = NewPagination(3, 5000, 1)
	assert.Equal(t, 1000, p.PageSize)
}

func TestParsePagination(t *testing.T) {
	page, size := ParsePagination("2", "20")
	assert.Equal(t, 2, page)
	assert.Equal(t, 20, size)

	page, size = ParsePagination("", "x")
	assert.Equal(t, 1, page)
	assert.Equal(t, 0, size)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{3, 4}, Paginate(items, NewPagination(2, 2, 5)))
	assert.Equal(t, []int{5}, Paginate(items, NewPagination(3, 2, 5)))
	assert.Empty(t, Paginate(items, NewPagination(9, 2, 5)))
}

func TestToWholeNumberE(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
		ok   bool
	}{
		{"int", 20, 20, true},
		{"json number", float64(20), 20, true},
		{"numeric string", "15", 15, true},
		{"negative", "-3", -3, true},
		{"trailing zero fraction", "4.0", 4, true},
		{"fractional float", 2.7, 0, false},
		{"fractional string", "2.7", 0, false},
		{"not a number", "many", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
		{"overflow", "99999999999999999999", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToWholeNumberE(tt.in)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrNotWholeNumber)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
