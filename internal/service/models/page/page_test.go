package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		totalElements int64
		size          int
		wantPages     int
	}{
		{name: "exact division", totalElements: 20, size: 10, wantPages: 2},
		{name: "partial last page", totalElements: 25, size: 10, wantPages: 3},
		{name: "empty", totalElements: 0, size: 10, wantPages: 0},
		{name: "single element", totalElements: 1, size: 10, wantPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New([]int{}, 0, tt.size, tt.totalElements)

			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.totalElements, p.TotalElements)
			assert.Equal(t, tt.size, p.Size)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(0, 10))
	assert.ErrorIs(t, Validate(-1, 10), ErrInvalidPage)
	assert.ErrorIs(t, Validate(0, 0), ErrInvalidPage)
	assert.ErrorIs(t, Validate(0, -5), ErrInvalidPage)
}

func TestMap(t *testing.T) {
	p := New([]int{1, 2, 3}, 1, 3, 9)

	mapped := Map(p, func(v int) string {
		switch v {
		case 1:
			return "one"
		case 2:
			return "two"
		default:
			return "three"
		}
	})

	assert.Equal(t, []string{"one", "two", "three"}, mapped.Content)
	assert.Equal(t, p.Number, mapped.Number)
	assert.Equal(t, p.Size, mapped.Size)
	assert.Equal(t, p.TotalElements, mapped.TotalElements)
	assert.Equal(t, p.TotalPages, mapped.TotalPages)
}
