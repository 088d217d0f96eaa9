package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinetix/cinetix-go/internal/domain"
)

// QueryRepo serves the read-side projections. Everything here reflects
// committed state only; no locking.
type QueryRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *QueryRepo) With(db DB) *QueryRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *QueryRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// ReservationFilter narrows reservation listings. A zero Status means any
// status; Upcoming keeps only showtimes that have not started yet.
type ReservationFilter struct {
	Status   domain.ReservationStatus
	Upcoming bool
	Limit    int
	Offset   int
}

const reservationDetailColumns = `
	r.id, r.user_id, r.showtime_id, r.status, r.price_cents, r.total_cents,
	r.created_at, r.cancelled_at,
	s.start_time, m.title, m.poster_url, t.name, t.type`

const reservationDetailJoins = `
	FROM reservations r
	JOIN showtimes s ON s.id = r.showtime_id
	JOIN movies m ON m.id = s.movie_id
	JOIN theaters t ON t.id = s.theater_id`

// GetReservation retrieves one fully joined reservation with its seats.
//
// Returns:
//   - error: repository.ErrNotFound if the reservation does not exist.
func (r *QueryRepo) GetReservation(ctx context.Context, id int64) (*domain.ReservationDetail, error) {
	const op = "postgres.QueryRepo.GetReservation"

	db := r.handle()

	var d domain.ReservationDetail
	err := db.QueryRow(ctx,
		`SELECT`+reservationDetailColumns+reservationDetailJoins+`
      	 WHERE r.id = $1`,
		id,
	).Scan(
		&d.ID, &d.UserID, &d.ShowtimeID, &d.Status, &d.PriceCents, &d.TotalCents,
		&d.CreatedAt, &d.CancelledAt,
		&d.StartTime, &d.MovieTitle, &d.PosterURL, &d.TheaterName, &d.TheaterType,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if err := r.attachSeats(ctx, db, []*domain.ReservationDetail{&d}); err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &d, nil
}

// ListByUser lists the user's reservations newest showtime first.
func (r *QueryRepo) ListByUser(
	ctx context.Context,
	userID int64,
	f ReservationFilter,
) ([]domain.ReservationDetail, error) {
	const op = "postgres.QueryRepo.ListByUser"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT`+reservationDetailColumns+reservationDetailJoins+`
      	 WHERE r.user_id = $1
        	AND ($2 = '' OR r.status = $2)
        	AND (NOT $3 OR s.start_time >= now())
      	 ORDER BY s.start_time DESC, r.id DESC
      	 LIMIT $4 OFFSET $5`,
		userID, string(f.Status), f.Upcoming, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return r.collectDetails(ctx, db, rows, op)
}

// ListByShowtime lists reservations for one showtime, optionally filtered
// by status. Admin projection.
func (r *QueryRepo) ListByShowtime(
	ctx context.Context,
	showtimeID int64,
	status domain.ReservationStatus,
) ([]domain.ReservationDetail, error) {
	const op = "postgres.QueryRepo.ListByShowtime"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT`+reservationDetailColumns+reservationDetailJoins+`
      	 WHERE r.showtime_id = $1
        	AND ($2 = '' OR r.status = $2)
      	 ORDER BY r.created_at`,
		showtimeID, string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return r.collectDetails(ctx, db, rows, op)
}

// UserStats aggregates the user's booking history: active upcoming/past
// counts, cancellations, total spend on non-cancelled bookings and the
// most booked theater types.
func (r *QueryRepo) UserStats(ctx context.Context, userID int64) (*domain.UserStats, error) {
	const op = "postgres.QueryRepo.UserStats"

	db := r.handle()

	var st domain.UserStats
	err := db.QueryRow(ctx,
		`SELECT
	        COUNT(*) FILTER (WHERE r.status = 'active' AND s.start_time >= now()),
	        COUNT(*) FILTER (WHERE r.status = 'active' AND s.start_time < now()),
	        COUNT(*) FILTER (WHERE r.status = 'cancelled'),
	        COALESCE(SUM(r.total_cents) FILTER (WHERE r.status = 'active'), 0)
       	 FROM reservations r
       	 JOIN showtimes s ON s.id = r.showtime_id
      	 WHERE r.user_id = $1`,
		userID,
	).Scan(&st.Upcoming, &st.Past, &st.Cancelled, &st.TotalSpentCents)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	rows, err := db.Query(ctx,
		`SELECT t.type
       	 FROM reservations r
       	 JOIN showtimes s ON s.id = r.showtime_id
       	 JOIN theaters t ON t.id = s.theater_id
      	 WHERE r.user_id = $1 AND r.status = 'active'
      	 GROUP BY t.type
      	 ORDER BY COUNT(*) DESC, t.type
      	 LIMIT 3`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		st.FavoriteTheaterTypes = append(st.FavoriteTheaterTypes, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &st, nil
}

// Revenue groups active reservation totals by showtime day, newest first.
func (r *QueryRepo) Revenue(ctx context.Context) ([]domain.RevenueRow, error) {
	const op = "postgres.QueryRepo.Revenue"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT date_trunc('day', s.start_time), COUNT(r.id), COALESCE(SUM(r.total_cents), 0)
       	 FROM reservations r
       	 JOIN showtimes s ON s.id = r.showtime_id
      	 WHERE r.status = 'active'
      	 GROUP BY 1
      	 ORDER BY 1 DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.RevenueRow
	for rows.Next() {
		var row domain.RevenueRow
		if err := rows.Scan(&row.Day, &row.Reservations, &row.RevenueCents); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (r *QueryRepo) collectDetails(
	ctx context.Context,
	db DB,
	rows pgx.Rows,
	op string,
) ([]domain.ReservationDetail, error) {
	defer rows.Close()

	var out []domain.ReservationDetail
	for rows.Next() {
		var d domain.ReservationDetail
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.ShowtimeID, &d.Status, &d.PriceCents, &d.TotalCents,
			&d.CreatedAt, &d.CancelledAt,
			&d.StartTime, &d.MovieTitle, &d.PosterURL, &d.TheaterName, &d.TheaterType,
		); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	refs := make([]*domain.ReservationDetail, len(out))
	for i := range out {
		refs[i] = &out[i]
	}

	if err := r.attachSeats(ctx, db, refs); err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return out, nil
}

// attachSeats stitches the seat lists onto the given reservations in one
// round trip.
func (r *QueryRepo) attachSeats(ctx context.Context, db DB, details []*domain.ReservationDetail) error {
	if len(details) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(details))
	byID := make(map[int64]*domain.ReservationDetail, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		byID[d.ID] = d
	}

	rows, err := db.Query(ctx,
		`SELECT rs.reservation_id, se.id, se.theater_id, se.row_label, se.seat_number
       	 FROM reservation_seats rs
       	 JOIN seats se ON se.id = rs.seat_id
      	 WHERE rs.reservation_id = ANY($1)
      	 ORDER BY se.row_label, se.seat_number`,
		ids,
	)
	if err != nil {
		return err
	}

	defer rows.Close()

	for rows.Next() {
		var rid int64
		var s domain.Seat
		if err := rows.Scan(&rid, &s.ID, &s.TheaterID, &s.Row, &s.Number); err != nil {
			return err
		}
		if d, ok := byID[rid]; ok {
			d.Seats = append(d.Seats, s)
		}
	}

	return rows.Err()
}
