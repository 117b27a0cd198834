package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		page, size int
		from       int
		limit      int
	}{
		{name: "defaults", page: 0, size: 0, from: 0, limit: 10},
		{name: "first page", page: 1, size: 20, from: 0, limit: 20},
		{name: "third page", page: 3, size: 10, from: 20, limit: 10},
		{name: "size clamped", page: 1, size: 1000, from: 0, limit: 10},
		{name: "negative page", page: -5, size: 10, from: 0, limit: 10},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			from, limit := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.limit, limit)
		})
	}
}
