package booking

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/cinetix/cinetix-go/internal/repository"
)

func TestLostRace(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "serialization failure after retries",
			err:  fmt.Errorf("service.booking.createOnce:%w", &pgconn.PgError{Code: "40001"}),
			want: true,
		},
		{
			name: "deadlock after retries",
			err:  fmt.Errorf("service.booking.createOnce:%w", &pgconn.PgError{Code: "40P01"}),
			want: true,
		},
		{
			name: "active-seat index conflict",
			err:  fmt.Errorf("postgres.ReservationRepo.Create:%w", repository.ErrConflict),
			want: true,
		},
		{
			name: "seats unavailable is a typed rejection, not a race",
			err:  fmt.Errorf("service.booking.createOnce:%w", repository.ErrSeatsUnavailable),
			want: false,
		},
		{
			name: "unrelated pg error",
			err:  fmt.Errorf("service.booking.createOnce:%w", &pgconn.PgError{Code: "23503"}),
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("connection refused"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lostRace(tt.err))
		})
	}
}
