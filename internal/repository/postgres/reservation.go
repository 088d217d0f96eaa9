package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinetix/cinetix-go/internal/domain"
	"github.com/cinetix/cinetix-go/internal/repository"
)

type ReservationRepo struct {
	pool *pgxpool.Pool
	db   DB
}

// With rebinds the repo to an open transaction.
func (r *ReservationRepo) With(db DB) *ReservationRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ReservationRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// CheckAvailability partitions seatIDs for a showtime into available,
// unavailable and invalid sets. When bound to a transaction it locks the
// valid seat rows with FOR UPDATE, so two concurrent bookings of the same
// seats serialize here instead of both observing the seat as free.
//
// Returns:
//   - *domain.SeatAvailability: the partition; never nil on success.
//   - error: any database error.
func (r *ReservationRepo) CheckAvailability(
	ctx context.Context,
	showtimeID int64,
	theaterID int64,
	seatIDs []int64,
) (*domain.SeatAvailability, error) {
	const op = "postgres.ReservationRepo.CheckAvailability"

	db := r.handle()

	lock := ""
	if r.db != nil {
		lock = " FOR UPDATE"
	}

	valid, err := collectIDs(db.Query(ctx,
		`SELECT id FROM seats
      	 WHERE theater_id = $1 AND id = ANY($2)
      	 ORDER BY id`+lock,
		theaterID, seatIDs,
	))
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	taken, err := collectIDs(db.Query(ctx,
		`SELECT seat_id FROM reservation_seats
      	 WHERE showtime_id = $1 AND seat_id = ANY($2) AND active`,
		showtimeID, seatIDs,
	))
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return partitionSeats(seatIDs, valid, taken), nil
}

// CountActiveForUser returns how many seats the user currently holds in
// active reservations for the showtime.
func (r *ReservationRepo) CountActiveForUser(
	ctx context.Context,
	userID int64,
	showtimeID int64,
) (int, error) {
	const op = "postgres.ReservationRepo.CountActiveForUser"

	db := r.handle()

	var n int
	err := db.QueryRow(ctx,
		`SELECT COUNT(*)
       	 FROM reservations r
       	 JOIN reservation_seats rs ON rs.reservation_id = r.id
      	 WHERE r.user_id = $1 AND r.showtime_id = $2 AND r.status = 'active'`,
		userID, showtimeID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return n, nil
}

// Create persists a reservation and its seat bindings. Must run inside a
// transaction; the caller is responsible for the availability check. A
// unique-violation on the active-seat index surfaces as
// repository.ErrSeatsUnavailable (the seat was won by a concurrent booking).
//
// Returns:
//   - *domain.Reservation: the persisted row.
//   - error: repository.ErrSeatsUnavailable on a lost seat race.
func (r *ReservationRepo) Create(
	ctx context.Context,
	userID int64,
	showtimeID int64,
	priceCents int,
	totalCents int,
	seatIDs []int64,
) (*domain.Reservation, error) {
	const op = "postgres.ReservationRepo.Create"

	db := r.handle()

	res := domain.Reservation{
		UserID:     userID,
		ShowtimeID: showtimeID,
		Status:     domain.ReservationActive,
		PriceCents: priceCents,
		TotalCents: totalCents,
	}

	err := db.QueryRow(ctx,
		`INSERT INTO reservations (user_id, showtime_id, status, price_cents, total_cents)
       	 VALUES ($1, $2, 'active', $3, $4)
       	 RETURNING id, created_at`,
		userID, showtimeID, priceCents, totalCents,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	batch := &pgx.Batch{}
	for _, sid := range seatIDs {
		batch.Queue(
			`INSERT INTO reservation_seats (reservation_id, showtime_id, seat_id)
         	 VALUES ($1, $2, $3)`,
			res.ID, showtimeID, sid,
		)
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		if translateDBErr(err) == repository.ErrConflict {
			return nil, fmt.Errorf("%s:%w", op, repository.ErrSeatsUnavailable)
		}
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &res, nil
}

// GetForCancel loads the reservation owned by userID together with its
// showtime start, locking the reservation row for the duration of the
// transaction.
//
// Returns:
//   - error: repository.ErrNotFound if no such reservation exists for the user.
func (r *ReservationRepo) GetForCancel(
	ctx context.Context,
	reservationID int64,
	userID int64,
) (*domain.Reservation, time.Time, error) {
	const op = "postgres.ReservationRepo.GetForCancel"

	db := r.handle()

	var res domain.Reservation
	var start time.Time

	err := db.QueryRow(ctx,
		`SELECT r.id, r.user_id, r.showtime_id, r.status, r.price_cents,
	            r.total_cents, r.created_at, r.cancelled_at, s.start_time
       	 FROM reservations r
       	 JOIN showtimes s ON s.id = r.showtime_id
      	 WHERE r.id = $1 AND r.user_id = $2
      	 FOR UPDATE OF r`,
		reservationID, userID,
	).Scan(
		&res.ID,
		&res.UserID,
		&res.ShowtimeID,
		&res.Status,
		&res.PriceCents,
		&res.TotalCents,
		&res.CreatedAt,
		&res.CancelledAt,
		&start,
	)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &res, start, nil
}

// MarkCancelled flips an active reservation to cancelled, stamps the
// cancellation time and releases its seat rows. The freed seats become
// visible to CheckAvailability as soon as the transaction commits.
//
// Returns:
//   - error: repository.ErrNotFound if the reservation is not active.
func (r *ReservationRepo) MarkCancelled(ctx context.Context, reservationID int64) (*domain.Reservation, error) {
	const op = "postgres.ReservationRepo.MarkCancelled"

	db := r.handle()

	var res domain.Reservation
	err := db.QueryRow(ctx,
		`UPDATE reservations
        	SET status = 'cancelled', cancelled_at = now()
      	 WHERE id = $1 AND status = 'active'
      	 RETURNING id, user_id, showtime_id, status, price_cents, total_cents,
	               created_at, cancelled_at`,
		reservationID,
	).Scan(
		&res.ID,
		&res.UserID,
		&res.ShowtimeID,
		&res.Status,
		&res.PriceCents,
		&res.TotalCents,
		&res.CreatedAt,
		&res.CancelledAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if _, err := db.Exec(ctx,
		`UPDATE reservation_seats SET active = FALSE WHERE reservation_id = $1`,
		reservationID,
	); err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &res, nil
}

// Delete hard-deletes a reservation; seat rows go with it via cascade.
// Admin cleanup path only.
//
// Returns:
//   - error: repository.ErrNotFound if the reservation does not exist.
func (r *ReservationRepo) Delete(ctx context.Context, reservationID int64) error {
	const op = "postgres.ReservationRepo.Delete"

	db := r.handle()

	ct, err := db.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, reservationID)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

// partitionSeats splits the requested seat ids into the availability sets.
// Order of the input is preserved within each set.
func partitionSeats(requested, valid, taken []int64) *domain.SeatAvailability {
	validSet := make(map[int64]struct{}, len(valid))
	for _, id := range valid {
		validSet[id] = struct{}{}
	}

	takenSet := make(map[int64]struct{}, len(taken))
	for _, id := range taken {
		takenSet[id] = struct{}{}
	}

	out := &domain.SeatAvailability{}
	seen := make(map[int64]struct{}, len(requested))

	for _, id := range requested {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if _, ok := validSet[id]; !ok {
			out.Invalid = append(out.Invalid, id)
			continue
		}
		if _, ok := takenSet[id]; ok {
			out.Unavailable = append(out.Unavailable, id)
			continue
		}
		out.Available = append(out.Available, id)
	}

	return out
}

func collectIDs(rows pgx.Rows, err error) ([]int64, error) {
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
