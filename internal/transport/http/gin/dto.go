package httpgin

import (
	"time"
)

type CreateReservationRequest struct {
	ShowtimeID int64   `json:"showtime_id" binding:"required,gt=0"`
	SeatIDs    []int64 `json:"seat_ids" binding:"required,min=1,dive,gt=0"`
}

type CreateMovieRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	DurationMin int      `json:"duration_min" binding:"required,gt=0"`
	Rating      string   `json:"rating"`
	PosterURL   string   `json:"poster_url"`
	Genres      []string `json:"genres"`
}

type CreateShowtimeRequest struct {
	MovieID    int64  `json:"movie_id" binding:"required,gt=0"`
	TheaterID  int64  `json:"theater_id" binding:"required,gt=0"`
	StartsAt   string `json:"starts_at" binding:"required"`
	PriceCents int    `json:"price_cents" binding:"required,gt=0"`
}

type UpdateShowtimeRequest struct {
	StartsAt   string `json:"starts_at" binding:"required"`
	PriceCents int    `json:"price_cents" binding:"required,gt=0"`
}

type ErrorResponse struct {
	Code             string  `json:"code"`
	Error            string  `json:"error"`
	InvalidSeats     []int64 `json:"invalid_seats,omitempty"`
	UnavailableSeats []int64 `json:"unavailable_seats,omitempty"`
}

type CreateMovieResponse struct {
	MovieID int64 `json:"movie_id"`
}

type CreateShowtimeResponse struct {
	ShowtimeID int64 `json:"showtime_id"`
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
