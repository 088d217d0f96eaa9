package booking

import (
	"errors"
	"fmt"
)

var (
	ErrShowtimeNotFound    = errors.New("showtime not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrPastShowtime        = errors.New("showtime already started")
	ErrAlreadyCancelled    = errors.New("reservation already cancelled")
	ErrLeadTime            = errors.New("cancellation window closed")
	ErrBookingLimit        = errors.New("active reservation limit reached")
	ErrConflict            = errors.New("conflict creating reservation")
	ErrRateLimited         = errors.New("rate limited")
)

// ValidationError reports a malformed booking request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + e.Message
}

// SeatsUnavailableError rejects the whole batch when any requested seat is
// invalid for the showtime's theater or already actively reserved.
type SeatsUnavailableError struct {
	Invalid     []int64
	Unavailable []int64
}

func (e *SeatsUnavailableError) Error() string {
	switch {
	case len(e.Invalid) > 0 && len(e.Unavailable) > 0:
		return fmt.Sprintf("seats unavailable: %v, not in theater: %v", e.Unavailable, e.Invalid)
	case len(e.Invalid) > 0:
		return fmt.Sprintf("seats not in theater: %v", e.Invalid)
	default:
		return fmt.Sprintf("seats unavailable: %v", e.Unavailable)
	}
}
