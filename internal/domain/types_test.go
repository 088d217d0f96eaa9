package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTotalCents(t *testing.T) {
	assert.Equal(t, 1500, TotalCents(1500, 1))
	assert.Equal(t, 4500, TotalCents(1500, 3))
	assert.Equal(t, 0, TotalCents(1500, 0))
}

func TestShowtimeDetailEnd(t *testing.T) {
	start := time.Date(2026, time.March, 1, 18, 0, 0, 0, time.UTC)
	sh := ShowtimeDetail{
		Showtime:         Showtime{StartTime: start},
		MovieDurationMin: 120,
	}
	assert.Equal(t, start.Add(2*time.Hour), sh.End())
}

func TestIdentityIsAdmin(t *testing.T) {
	assert.False(t, Identity{UserID: 1, Role: RoleUser}.IsAdmin())
	assert.True(t, Identity{UserID: 1, Role: RoleAdmin}.IsAdmin())
	assert.False(t, Identity{UserID: 1}.IsAdmin())
}
