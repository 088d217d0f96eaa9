package domain

import (
	"time"
)

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationCancelled ReservationStatus = "cancelled"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the trusted caller identity supplied by the upstream auth layer.
type Identity struct {
	UserID int64
	Role   Role
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

type Movie struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DurationMin int       `json:"duration_min"`
	Rating      string    `json:"rating"`
	PosterURL   string    `json:"poster_url"`
	Genres      []string  `json:"genres"`
	CreatedAt   time.Time `json:"created_at"`
}

type Theater struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Capacity int    `json:"capacity"`
}

type Seat struct {
	ID        int64  `json:"id"`
	TheaterID int64  `json:"theater_id"`
	Row       string `json:"row"`
	Number    int    `json:"number"`
}

type Showtime struct {
	ID         int64     `json:"id"`
	MovieID    int64     `json:"movie_id"`
	TheaterID  int64     `json:"theater_id"`
	StartTime  time.Time `json:"start_time"`
	PriceCents int       `json:"price_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

// ShowtimeDetail is a Showtime joined with its movie and theater reference data.
type ShowtimeDetail struct {
	Showtime
	MovieTitle       string `json:"movie_title"`
	MovieDurationMin int    `json:"movie_duration_min"`
	MoviePosterURL   string `json:"movie_poster_url"`
	TheaterName      string `json:"theater_name"`
	TheaterType      string `json:"theater_type"`
	TheaterCapacity  int    `json:"theater_capacity"`
}

// End returns the end of the screening interval [StartTime, StartTime+duration).
func (s ShowtimeDetail) End() time.Time {
	return s.StartTime.Add(time.Duration(s.MovieDurationMin) * time.Minute)
}

type Reservation struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	ShowtimeID  int64             `json:"showtime_id"`
	Status      ReservationStatus `json:"status"`
	PriceCents  int               `json:"price_cents"`
	TotalCents  int               `json:"total_cents"`
	CreatedAt   time.Time         `json:"created_at"`
	CancelledAt *time.Time        `json:"cancelled_at,omitempty"`
}

// ReservationDetail is a Reservation joined with showtime, movie, theater and seats.
type ReservationDetail struct {
	Reservation
	StartTime   time.Time `json:"start_time"`
	MovieTitle  string    `json:"movie_title"`
	PosterURL   string    `json:"movie_poster"`
	TheaterName string    `json:"theater_name"`
	TheaterType string    `json:"theater_type"`
	Seats       []Seat    `json:"seats"`
}

// SeatAvailability partitions a requested seat set for one showtime.
// Invalid seats do not belong to the showtime's theater; unavailable
// seats are held by another active reservation.
type SeatAvailability struct {
	Available   []int64 `json:"available"`
	Unavailable []int64 `json:"unavailable"`
	Invalid     []int64 `json:"invalid"`
}

func (a SeatAvailability) AllAvailable() bool {
	return len(a.Unavailable) == 0 && len(a.Invalid) == 0
}

type UserStats struct {
	Upcoming             int64    `json:"upcoming"`
	Past                 int64    `json:"past"`
	Cancelled            int64    `json:"cancelled"`
	TotalSpentCents      int64    `json:"total_spent_cents"`
	FavoriteTheaterTypes []string `json:"favorite_theater_types"`
}

// RevenueRow is one day of the admin revenue report.
type RevenueRow struct {
	Day          time.Time `json:"day"`
	Reservations int64     `json:"reservations"`
	RevenueCents int64     `json:"revenue_cents"`
}

// TotalCents computes the snapshot total for a booking: per-seat price
// times seat count. The value is persisted with the reservation and never
// recomputed afterwards.
func TotalCents(priceCents, seatCount int) int {
	return priceCents * seatCount
}
