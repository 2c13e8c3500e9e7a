package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageVerify(t *testing.T) {
	tests := []struct {
		name               string
		page, size         int
		wantPage, wantSize int
	}{
		{"valid", 2, 20, 2, 20},
		{"zero page", 0, 20, DefaultPage, 20},
		{"negative size", 3, -1, 3, DefaultPageSize},
		{"oversized", 1, 500, 1, MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := tt.page, tt.size
			PageVerify(&page, &size)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantSize, size)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 40, Offset(5, 10))
}
