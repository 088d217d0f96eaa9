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

// CatalogRepo owns the reference data: movies with genres, theaters with
// their seats, and showtimes.
type CatalogRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *CatalogRepo) With(db DB) *CatalogRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CatalogRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// --- movies ---

// CreateMovie inserts a movie and binds its genres, creating missing genre
// rows on the way. Runs standalone; wrap in a tx via With for atomicity with
// other writes.
func (r *CatalogRepo) CreateMovie(ctx context.Context, m *domain.Movie) (int64, error) {
	const op = "postgres.CatalogRepo.CreateMovie"

	db := r.handle()

	var id int64
	err := db.QueryRow(ctx,
		`INSERT INTO movies (title, description, duration_min, rating, poster_url)
       	 VALUES ($1, $2, $3, $4, $5)
       	 RETURNING id`,
		m.Title, m.Description, m.DurationMin, m.Rating, m.PosterURL,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if err := r.bindGenres(ctx, db, id, m.Genres); err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return id, nil
}

// UpdateMovie replaces the movie's fields and genre set.
//
// Returns:
//   - error: repository.ErrNotFound if the movie does not exist.
func (r *CatalogRepo) UpdateMovie(ctx context.Context, m *domain.Movie) error {
	const op = "postgres.CatalogRepo.UpdateMovie"

	db := r.handle()

	ct, err := db.Exec(ctx,
		`UPDATE movies
        	SET title = $1, description = $2, duration_min = $3, rating = $4, poster_url = $5
      	 WHERE id = $6`,
		m.Title, m.Description, m.DurationMin, m.Rating, m.PosterURL, m.ID,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	if _, err := db.Exec(ctx, `DELETE FROM movie_genres WHERE movie_id = $1`, m.ID); err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if err := r.bindGenres(ctx, db, m.ID, m.Genres); err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

func (r *CatalogRepo) bindGenres(ctx context.Context, db DB, movieID int64, genres []string) error {
	if len(genres) == 0 {
		return nil
	}

	if _, err := db.Exec(ctx,
		`INSERT INTO genres (name)
       	 SELECT unnest($1::text[])
       	 ON CONFLICT (name) DO NOTHING`,
		genres,
	); err != nil {
		return err
	}

	_, err := db.Exec(ctx,
		`INSERT INTO movie_genres (movie_id, genre_id)
       	 SELECT $1, id FROM genres WHERE name = ANY($2)
       	 ON CONFLICT DO NOTHING`,
		movieID, genres,
	)

	return err
}

// DeleteMovie removes the movie; showtimes and genre bindings cascade.
func (r *CatalogRepo) DeleteMovie(ctx context.Context, id int64) error {
	const op = "postgres.CatalogRepo.DeleteMovie"

	db := r.handle()

	ct, err := db.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

// GetMovie retrieves one movie with its aggregated genre names.
func (r *CatalogRepo) GetMovie(ctx context.Context, id int64) (*domain.Movie, error) {
	const op = "postgres.CatalogRepo.GetMovie"

	db := r.handle()

	var m domain.Movie
	err := db.QueryRow(ctx,
		`SELECT m.id, m.title, m.description, m.duration_min, m.rating, m.poster_url,
	            m.created_at,
	            COALESCE(array_agg(g.name ORDER BY g.name) FILTER (WHERE g.name IS NOT NULL), '{}')
       	 FROM movies m
       	 LEFT JOIN movie_genres mg ON mg.movie_id = m.id
       	 LEFT JOIN genres g ON g.id = mg.genre_id
      	 WHERE m.id = $1
      	 GROUP BY m.id`,
		id,
	).Scan(&m.ID, &m.Title, &m.Description, &m.DurationMin, &m.Rating, &m.PosterURL,
		&m.CreatedAt, &m.Genres)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &m, nil
}

func (r *CatalogRepo) ListMovies(ctx context.Context, limit, offset int) ([]domain.Movie, error) {
	const op = "postgres.CatalogRepo.ListMovies"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT m.id, m.title, m.description, m.duration_min, m.rating, m.poster_url,
	            m.created_at,
	            COALESCE(array_agg(g.name ORDER BY g.name) FILTER (WHERE g.name IS NOT NULL), '{}')
       	 FROM movies m
       	 LEFT JOIN movie_genres mg ON mg.movie_id = m.id
       	 LEFT JOIN genres g ON g.id = mg.genre_id
      	 GROUP BY m.id
      	 ORDER BY m.title
      	 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.Movie
	for rows.Next() {
		var m domain.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.DurationMin, &m.Rating,
			&m.PosterURL, &m.CreatedAt, &m.Genres); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// --- theaters ---

func (r *CatalogRepo) ListTheaters(ctx context.Context) ([]domain.Theater, error) {
	const op = "postgres.CatalogRepo.ListTheaters"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, name, type, capacity FROM theaters ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.Theater
	for rows.Next() {
		var t domain.Theater
		if err := rows.Scan(&t.ID, &t.Name, &t.Type, &t.Capacity); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// ListTheaterSeats returns the immutable seat layout of a theater.
func (r *CatalogRepo) ListTheaterSeats(ctx context.Context, theaterID int64) ([]domain.Seat, error) {
	const op = "postgres.CatalogRepo.ListTheaterSeats"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, theater_id, row_label, seat_number
       	 FROM seats
      	 WHERE theater_id = $1
      	 ORDER BY row_label, seat_number`,
		theaterID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return scanSeats(rows, op)
}

// --- showtimes ---

// GetShowtime retrieves a showtime joined with movie and theater data.
// The movie duration feeds the overlap rule; the price is the snapshot
// source for bookings.
//
// Returns:
//   - error: repository.ErrNotFound if the showtime does not exist.
func (r *CatalogRepo) GetShowtime(ctx context.Context, id int64) (*domain.ShowtimeDetail, error) {
	const op = "postgres.CatalogRepo.GetShowtime"

	db := r.handle()

	var d domain.ShowtimeDetail
	err := db.QueryRow(ctx,
		`SELECT s.id, s.movie_id, s.theater_id, s.start_time, s.price_cents, s.created_at,
	            m.title, m.duration_min, m.poster_url,
	            t.name, t.type, t.capacity
       	 FROM showtimes s
       	 JOIN movies m ON m.id = s.movie_id
       	 JOIN theaters t ON t.id = s.theater_id
      	 WHERE s.id = $1`,
		id,
	).Scan(
		&d.ID, &d.MovieID, &d.TheaterID, &d.StartTime, &d.PriceCents, &d.CreatedAt,
		&d.MovieTitle, &d.MovieDurationMin, &d.MoviePosterURL,
		&d.TheaterName, &d.TheaterType, &d.TheaterCapacity,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &d, nil
}

// ListShowtimes returns upcoming showtimes, optionally filtered by movie.
func (r *CatalogRepo) ListShowtimes(ctx context.Context, movieID int64, limit, offset int) ([]domain.ShowtimeDetail, error) {
	const op = "postgres.CatalogRepo.ListShowtimes"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT s.id, s.movie_id, s.theater_id, s.start_time, s.price_cents, s.created_at,
	            m.title, m.duration_min, m.poster_url,
	            t.name, t.type, t.capacity
       	 FROM showtimes s
       	 JOIN movies m ON m.id = s.movie_id
       	 JOIN theaters t ON t.id = s.theater_id
      	 WHERE s.start_time >= now()
        	AND ($1 = 0 OR s.movie_id = $1)
      	 ORDER BY s.start_time
      	 LIMIT $2 OFFSET $3`,
		movieID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.ShowtimeDetail
	for rows.Next() {
		var d domain.ShowtimeDetail
		if err := rows.Scan(
			&d.ID, &d.MovieID, &d.TheaterID, &d.StartTime, &d.PriceCents, &d.CreatedAt,
			&d.MovieTitle, &d.MovieDurationMin, &d.MoviePosterURL,
			&d.TheaterName, &d.TheaterType, &d.TheaterCapacity,
		); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// HasOverlap reports whether any showtime in the theater overlaps the
// screening interval [start, end). excludeID skips the showtime being
// edited; pass 0 on create.
func (r *CatalogRepo) HasOverlap(
	ctx context.Context,
	theaterID int64,
	start, end time.Time,
	excludeID int64,
) (bool, error) {
	const op = "postgres.CatalogRepo.HasOverlap"

	db := r.handle()

	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (
	        SELECT 1
	        FROM showtimes s
	        JOIN movies m ON m.id = s.movie_id
	        WHERE s.theater_id = $1
	          AND s.id <> $2
	          AND s.start_time < $4
	          AND s.start_time + make_interval(mins => m.duration_min) > $3
     	 )`,
		theaterID, excludeID, start, end,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return exists, nil
}

// InsertShowtime persists a showtime. Overlap validation belongs to the
// caller so it can share a transaction with HasOverlap.
func (r *CatalogRepo) InsertShowtime(ctx context.Context, sh *domain.Showtime) (int64, error) {
	const op = "postgres.CatalogRepo.InsertShowtime"

	db := r.handle()

	var id int64
	err := db.QueryRow(ctx,
		`INSERT INTO showtimes (movie_id, theater_id, start_time, price_cents)
       	 VALUES ($1, $2, $3, $4)
       	 RETURNING id`,
		sh.MovieID, sh.TheaterID, sh.StartTime, sh.PriceCents,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return id, nil
}

// UpdateShowtime edits start time and price. Existing reservations keep
// their snapshot price regardless.
func (r *CatalogRepo) UpdateShowtime(ctx context.Context, id int64, start time.Time, priceCents int) error {
	const op = "postgres.CatalogRepo.UpdateShowtime"

	db := r.handle()

	ct, err := db.Exec(ctx,
		`UPDATE showtimes SET start_time = $1, price_cents = $2 WHERE id = $3`,
		start, priceCents, id,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

// DeleteShowtime removes a showtime unless active reservations still point
// at it.
//
// Returns:
//   - error: repository.ErrHasActive while active reservations exist.
//   - error: repository.ErrNotFound if the showtime does not exist.
func (r *CatalogRepo) DeleteShowtime(ctx context.Context, id int64) error {
	const op = "postgres.CatalogRepo.DeleteShowtime"

	db := r.handle()

	var active bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (
	        SELECT 1 FROM reservations WHERE showtime_id = $1 AND status = 'active'
     	 )`,
		id,
	).Scan(&active)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if active {
		return fmt.Errorf("%s:%w", op, repository.ErrHasActive)
	}

	ct, err := db.Exec(ctx, `DELETE FROM showtimes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

// AvailableSeats lists the showtime's theater seats that carry no active
// reservation. Unlocked read; booking re-checks under the transaction.
//
// Returns:
//   - error: repository.ErrNotFound if the showtime does not exist.
func (r *CatalogRepo) AvailableSeats(ctx context.Context, showtimeID int64) ([]domain.Seat, error) {
	const op = "postgres.CatalogRepo.AvailableSeats"

	db := r.handle()

	var exists bool
	if err := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM showtimes WHERE id = $1)`, showtimeID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if !exists {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	rows, err := db.Query(ctx,
		`SELECT se.id, se.theater_id, se.row_label, se.seat_number
       	 FROM seats se
       	 JOIN showtimes sh ON sh.theater_id = se.theater_id
      	 WHERE sh.id = $1
        	AND NOT EXISTS (
	            SELECT 1 FROM reservation_seats rs
	            WHERE rs.showtime_id = sh.id AND rs.seat_id = se.id AND rs.active
        	)
      	 ORDER BY se.row_label, se.seat_number`,
		showtimeID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return scanSeats(rows, op)
}

func scanSeats(rows pgx.Rows, op string) ([]domain.Seat, error) {
	defer rows.Close()

	var out []domain.Seat
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.TheaterID, &s.Row, &s.Number); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
