package flow

import (
	"testing"

	"github.com/Freeeeeet/parkflow_bot/internal/keyboard"
	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0))
	assert.Equal(t, 1, TotalPages(1))
	assert.Equal(t, 1, TotalPages(PageSize))
	assert.Equal(t, 2, TotalPages(PageSize+1))
	assert.Equal(t, 3, TotalPages(12))
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0, 3))
	assert.Equal(t, 1, ClampPage(-4, 3))
	assert.Equal(t, 2, ClampPage(2, 3))
	assert.Equal(t, 3, ClampPage(9, 3))
	assert.Equal(t, 1, ClampPage(5, 0))
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		page, count int
		start, end  int
	}{
		{page: 1, count: 12, start: 0, end: 5},
		{page: 3, count: 12, start: 10, end: 12},
		{page: 7, count: 12, start: 10, end: 12},
		{page: 1, count: 0, start: 0, end: 0},
		{page: 1, count: 3, start: 0, end: 3},
	}
	for _, tt := range tests {
		start, end := PageBounds(tt.page, tt.count)
		assert.Equal(t, tt.start, start, "page %d of %d", tt.page, tt.count)
		assert.Equal(t, tt.end, end, "page %d of %d", tt.page, tt.count)
	}
}

func TestTurnPage(t *testing.T) {
	assert.Equal(t, 2, turnPage(1, 3, keyboard.BtnNext))
	assert.Equal(t, 3, turnPage(3, 3, keyboard.BtnNext))
	assert.Equal(t, 1, turnPage(1, 3, keyboard.BtnPrev))
	assert.Equal(t, 2, turnPage(3, 3, keyboard.BtnPrev))
	assert.Equal(t, 2, turnPage(2, 3, "інше"))
}
