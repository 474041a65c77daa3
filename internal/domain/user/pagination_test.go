package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name           string
		total          int64
		page           int64
		limit          int64
		wantPage       int64
		wantTotalPages int64
	}{
		{"exact multiple", 10, 1, 5, 1, 2},
		{"rounds up", 11, 1, 5, 1, 3},
		{"single short page", 3, 1, 5, 1, 1},
		{"page beyond last clamps", 7, 10, 5, 2, 2},
		{"last page not clamped", 7, 2, 5, 2, 2},
		{"empty result keeps requested page", 0, 3, 5, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, tt.page, tt.limit)

			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantTotalPages, p.TotalPages)
		})
	}
}

func TestPatchIsEmpty(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())

	name := "John"
	assert.False(t, Patch{Name: &name}.IsEmpty())

	age := int64(30)
	assert.False(t, Patch{Age: &age}.IsEmpty())
}
