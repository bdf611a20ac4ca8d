package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRating(t *testing.T) {
	assert.Nil(t, Rating(nil))
	assert.Nil(t, Rating([]int{}))

	tests := []struct {
		scores []int
		want   float64
	}{
		{[]int{8}, 8},
		{[]int{8, 9}, 8.5},
		{[]int{7, 8, 8}, 7.7},
		{[]int{8, 9, 8, 8}, 8.3},
		{[]int{1, 10}, 5.5},
		{[]int{10, 10, 10}, 10},
	}

	for _, tt := range tests {
		got := Rating(tt.scores)
		require.NotNil(t, got, "scores %v", tt.scores)
		assert.InDelta(t, tt.want, *got, 1e-9, "scores %v", tt.scores)
	}
}
