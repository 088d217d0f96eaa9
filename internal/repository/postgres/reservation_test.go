package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionSeats(t *testing.T) {
	valid := []int64{1, 2, 3, 4, 5}
	taken := []int64{3, 4}

	tests := []struct {
		name            string
		requested       []int64
		wantAvailable   []int64
		wantUnavailable []int64
		wantInvalid     []int64
	}{
		{
			name:          "all free",
			requested:     []int64{1, 2},
			wantAvailable: []int64{1, 2},
		},
		{
			name:            "mixed",
			requested:       []int64{1, 3, 99},
			wantAvailable:   []int64{1},
			wantUnavailable: []int64{3},
			wantInvalid:     []int64{99},
		},
		{
			name:        "unknown seat in theater",
			requested:   []int64{42},
			wantInvalid: []int64{42},
		},
		{
			name:            "already taken",
			requested:       []int64{3, 4},
			wantUnavailable: []int64{3, 4},
		},
		{
			name:          "duplicates collapse",
			requested:     []int64{1, 1, 2},
			wantAvailable: []int64{1, 2},
		},
		{
			name:          "request order preserved",
			requested:     []int64{5, 1, 2},
			wantAvailable: []int64{5, 1, 2},
		},
		{
			name:      "empty request",
			requested: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := partitionSeats(tt.requested, valid, taken)
			assert.Equal(t, tt.wantAvailable, got.Available)
			assert.Equal(t, tt.wantUnavailable, got.Unavailable)
			assert.Equal(t, tt.wantInvalid, got.Invalid)
			assert.Equal(t,
				len(tt.wantUnavailable) == 0 && len(tt.wantInvalid) == 0,
				got.AllAvailable(),
			)
		})
	}
}
