// Package policy holds the booking business rules as pure functions.
// No I/O happens here; the booking service feeds it data loaded inside
// its transaction and maps violations onto the service error set.
package policy

import (
	"fmt"
	"time"
)

type Reason string

const (
	ReasonBadRequest         Reason = "bad_request"
	ReasonPastShowtime       Reason = "past_showtime"
	ReasonTooManySeats       Reason = "too_many_seats"
	ReasonDuplicateSeats     Reason = "duplicate_seats"
	ReasonActiveCapExceeded  Reason = "active_cap_exceeded"
	ReasonCancellationWindow Reason = "cancellation_window"
)

// Violation is a failed rule with a machine-readable reason.
type Violation struct {
	Reason  Reason
	Message string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("policy: %s: %s", v.Reason, v.Message)
}

// Rules carries the configurable booking limits.
type Rules struct {
	MaxSeatsPerRequest   int
	MaxActivePerShowtime int
	CancelLeadTime       time.Duration
}

// Defaults mirror the product rules: at most 5 seats per request, at most
// 5 active seats per user per showtime, cancellation no later than one
// hour before the screening.
func DefaultRules() Rules {
	return Rules{
		MaxSeatsPerRequest:   5,
		MaxActivePerShowtime: 5,
		CancelLeadTime:       time.Hour,
	}
}

// ValidateBookingRequest checks the request shape: positive ids, a
// non-empty seat list within the per-request cap, no repeated seat.
func (r Rules) ValidateBookingRequest(userID, showtimeID int64, seatIDs []int64) *Violation {
	if userID <= 0 {
		return &Violation{Reason: ReasonBadRequest, Message: "user id must be positive"}
	}

	if showtimeID <= 0 {
		return &Violation{Reason: ReasonBadRequest, Message: "showtime id must be positive"}
	}

	if len(seatIDs) == 0 {
		return &Violation{Reason: ReasonBadRequest, Message: "no seats selected"}
	}

	if len(seatIDs) > r.MaxSeatsPerRequest {
		return &Violation{
			Reason:  ReasonTooManySeats,
			Message: fmt.Sprintf("at most %d seats per booking", r.MaxSeatsPerRequest),
		}
	}

	seen := make(map[int64]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		if id <= 0 {
			return &Violation{Reason: ReasonBadRequest, Message: "seat ids must be positive"}
		}
		if _, dup := seen[id]; dup {
			return &Violation{
				Reason:  ReasonDuplicateSeats,
				Message: fmt.Sprintf("seat %d requested twice", id),
			}
		}
		seen[id] = struct{}{}
	}

	return nil
}

// ValidateShowtimeIsFuture rejects bookings for screenings that already
// started. The boundary start == now counts as past.
func ValidateShowtimeIsFuture(start, now time.Time) *Violation {
	if !start.After(now) {
		return &Violation{Reason: ReasonPastShowtime, Message: "showtime already started"}
	}

	return nil
}

// ValidateActiveCap rejects a booking that would push the user's active
// seat count for the showtime over the cap.
func (r Rules) ValidateActiveCap(existing, requested int) *Violation {
	if existing+requested > r.MaxActivePerShowtime {
		return &Violation{
			Reason: ReasonActiveCapExceeded,
			Message: fmt.Sprintf("at most %d active seats per showtime, already holding %d",
				r.MaxActivePerShowtime, existing),
		}
	}

	return nil
}

// ValidateCancellationWindow permits cancellation only while at least
// CancelLeadTime remains before the screening. Exactly the lead time left
// is still allowed; anything less is not.
func (r Rules) ValidateCancellationWindow(start, now time.Time) *Violation {
	if start.Sub(now) < r.CancelLeadTime {
		return &Violation{
			Reason:  ReasonCancellationWindow,
			Message: fmt.Sprintf("cancellation closes %s before the showtime", r.CancelLeadTime),
		}
	}

	return nil
}
