package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBookingRequest(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name       string
		userID     int64
		showtimeID int64
		seatIDs    []int64
		wantReason Reason
	}{
		{
			name:       "valid single seat",
			userID:     1,
			showtimeID: 1,
			seatIDs:    []int64{10},
		},
		{
			name:       "valid at per-request cap",
			userID:     1,
			showtimeID: 1,
			seatIDs:    []int64{1, 2, 3, 4, 5},
		},
		{
			name:       "non-positive user id",
			userID:     0,
			showtimeID: 1,
			seatIDs:    []int64{10},
			wantReason: ReasonBadRequest,
		},
		{
			name:       "non-positive showtime id",
			userID:     1,
			showtimeID: -5,
			seatIDs:    []int64{10},
			wantReason: ReasonBadRequest,
		},
		{
			name:       "empty seat list",
			userID:     1,
			showtimeID: 1,
			seatIDs:    nil,
			wantReason: ReasonBadRequest,
		},
		{
			name:       "over per-request cap",
			userID:     1,
			showtimeID: 1,
			seatIDs:    []int64{1, 2, 3, 4, 5, 6},
			wantReason: ReasonTooManySeats,
		},
		{
			name:       "non-positive seat id",
			userID:     1,
			showtimeID: 1,
			seatIDs:    []int64{1, 0},
			wantReason: ReasonBadRequest,
		},
		{
			name:       "duplicate seat",
			userID:     1,
			showtimeID: 1,
			seatIDs:    []int64{1, 2, 1},
			wantReason: ReasonDuplicateSeats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := rules.ValidateBookingRequest(tt.userID, tt.showtimeID, tt.seatIDs)
			if tt.wantReason == "" {
				assert.Nil(t, v)
				return
			}
			require.NotNil(t, v)
			assert.Equal(t, tt.wantReason, v.Reason)
		})
	}
}

func TestValidateShowtimeIsFuture(t *testing.T) {
	now := time.Date(2026, time.March, 1, 18, 0, 0, 0, time.UTC)

	assert.Nil(t, ValidateShowtimeIsFuture(now.Add(time.Minute), now))

	// start == now counts as already started
	v := ValidateShowtimeIsFuture(now, now)
	require.NotNil(t, v)
	assert.Equal(t, ReasonPastShowtime, v.Reason)

	v = ValidateShowtimeIsFuture(now.Add(-time.Hour), now)
	require.NotNil(t, v)
	assert.Equal(t, ReasonPastShowtime, v.Reason)
}

func TestValidateActiveCap(t *testing.T) {
	rules := Rules{MaxActivePerShowtime: 5}

	assert.Nil(t, rules.ValidateActiveCap(0, 5))
	assert.Nil(t, rules.ValidateActiveCap(3, 2))

	v := rules.ValidateActiveCap(3, 3)
	require.NotNil(t, v)
	assert.Equal(t, ReasonActiveCapExceeded, v.Reason)

	v = rules.ValidateActiveCap(5, 1)
	require.NotNil(t, v)
	assert.Equal(t, ReasonActiveCapExceeded, v.Reason)
}

func TestValidateCancellationWindow(t *testing.T) {
	rules := Rules{CancelLeadTime: time.Hour}
	now := time.Date(2026, time.March, 1, 18, 0, 0, 0, time.UTC)

	// well before the window closes
	assert.Nil(t, rules.ValidateCancellationWindow(now.Add(3*time.Hour), now))

	// exactly one hour left is still allowed
	assert.Nil(t, rules.ValidateCancellationWindow(now.Add(time.Hour), now))

	// one second less and the window is closed
	v := rules.ValidateCancellationWindow(now.Add(time.Hour-time.Second), now)
	require.NotNil(t, v)
	assert.Equal(t, ReasonCancellationWindow, v.Reason)

	// already started
	v = rules.ValidateCancellationWindow(now.Add(-time.Minute), now)
	require.NotNil(t, v)
	assert.Equal(t, ReasonCancellationWindow, v.Reason)
}
