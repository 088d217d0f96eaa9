package query

import (
	"errors"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
)
