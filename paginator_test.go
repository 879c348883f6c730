package quarry_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/quarry"
)

func TestNewPaginator(t *testing.T) {
	tests := []struct {
		name        string
		items       []any
		total       int
		perPage     int
		currentPage int
		wantLast    int
		wantPerPage int
		wantPage    int
	}{
		{"ceil", []any{1, 2}, 21, 10, 1, 3, 10, 1},
		{"empty has one page", nil, 0, 10, 1, 1, 10, 1},
		{"bad inputs clamp", nil, 5, 0, -2, 5, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := quarry.NewPaginator(tt.items, tt.total, tt.perPage, tt.currentPage)
			assert.Equal(t, tt.wantLast, p.LastPage)
			assert.Equal(t, tt.wantPerPage, p.PerPage)
			assert.Equal(t, tt.wantPage, p.CurrentPage)
			assert.NotNil(t, p.Items)
		})
	}
}

func TestPaginator_SetLastPage(t *testing.T) {
	p := quarry.NewPaginator([]any{"a"}, 50000, 20, 499)
	assert.Equal(t, 2500, p.LastPage)
	assert.True(t, p.HasMorePages())

	p.SetLastPage(500)
	assert.Equal(t, 500, p.LastPage)
	assert.True(t, p.HasMorePages())

	p.CurrentPage = 500
	assert.False(t, p.HasMorePages())
	assert.False(t, p.OnFirstPage())
}

func TestPaginator_ItemPositions(t *testing.T) {
	empty := quarry.NewPaginator(nil, 0, 10, 1)
	assert.Equal(t, 0, empty.FirstItem())
	assert.Equal(t, 0, empty.LastItem())
	assert.True(t, empty.OnFirstPage())

	p := quarry.NewPaginator([]any{"a", "b", "c"}, 23, 10, 3)
	assert.Equal(t, 21, p.FirstItem())
	assert.Equal(t, 23, p.LastItem())
}

func TestPaginator_JSON(t *testing.T) {
	p := quarry.NewPaginator([]any{"a"}, 1, 10, 1)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":["a"],"total":1,"per_page":10,"current_page":1,"last_page":1}`, string(out))
}
