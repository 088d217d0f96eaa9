package catalog

import (
	"errors"
)

var (
	ErrMovieNotFound      = errors.New("movie not found")
	ErrShowtimeNotFound   = errors.New("showtime not found")
	ErrTheaterNotFound    = errors.New("theater not found")
	ErrShowtimeOverlap    = errors.New("showtime overlaps another screening in the theater")
	ErrShowtimeInPast     = errors.New("showtime must start in the future")
	ErrActiveReservations = errors.New("showtime has active reservations")
	ErrInvalidInput       = errors.New("invalid input")
)
