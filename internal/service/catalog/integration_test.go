package catalog_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetix/cinetix-go/internal/domain"
	postgresrepo "github.com/cinetix/cinetix-go/internal/repository/postgres"
	"github.com/cinetix/cinetix-go/internal/service/booking"
	"github.com/cinetix/cinetix-go/internal/service/catalog"
)

// Needs a real Postgres via CINETIX_TEST_DSN, same as the booking tests.

func setupCatalog(t *testing.T) (*pgxpool.Pool, *catalog.Service) {
	t.Helper()

	dsn := os.Getenv("CINETIX_TEST_DSN")
	if dsn == "" {
		t.Skip("CINETIX_TEST_DSN not set")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile("../../../migrations/0001_init.sql")
	require.NoError(t, err)

	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)

	svc := catalog.New(postgresrepo.NewStore(pool), nil, nil, catalog.Config{})

	return pool, svc
}

func seedTheater(t *testing.T, pool *pgxpool.Pool, seatCount int) (theaterID int64, seats []int64) {
	t.Helper()

	ctx := context.Background()
	tag := uuid.NewString()[:8]

	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO theaters (name, capacity) VALUES ($1, $2) RETURNING id`,
		"Hall "+tag, seatCount,
	).Scan(&theaterID))

	for i := 1; i <= seatCount; i++ {
		var id int64
		require.NoError(t, pool.QueryRow(ctx,
			`INSERT INTO seats (theater_id, row_label, seat_number) VALUES ($1, 'A', $2) RETURNING id`,
			theaterID, i,
		).Scan(&id))
		seats = append(seats, id)
	}

	return theaterID, seats
}

func TestMovieCRUD(t *testing.T) {
	_, svc := setupCatalog(t)
	ctx := context.Background()

	tag := uuid.NewString()[:8]

	id, err := svc.CreateMovie(ctx, &domain.Movie{
		Title:       "Movie " + tag,
		DurationMin: 120,
		Genres:      []string{"drama", "sci-fi"},
	})
	require.NoError(t, err)

	m, err := svc.GetMovie(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Movie "+tag, m.Title)
	assert.ElementsMatch(t, []string{"drama", "sci-fi"}, m.Genres)

	m.Title = "Movie " + tag + " (director's cut)"
	m.Genres = []string{"drama"}
	require.NoError(t, svc.UpdateMovie(ctx, m))

	m, err = svc.GetMovie(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"drama"}, m.Genres)

	require.NoError(t, svc.DeleteMovie(ctx, id))

	_, err = svc.GetMovie(ctx, id)
	assert.ErrorIs(t, err, catalog.ErrMovieNotFound)

	// invalid input never reaches the database
	_, err = svc.CreateMovie(ctx, &domain.Movie{Title: "", DurationMin: 120})
	assert.ErrorIs(t, err, catalog.ErrInvalidInput)
}

func TestShowtimeOverlap(t *testing.T) {
	pool, svc := setupCatalog(t)
	ctx := context.Background()

	theaterID, _ := seedTheater(t, pool, 4)
	tag := uuid.NewString()[:8]

	movieID, err := svc.CreateMovie(ctx, &domain.Movie{Title: "Movie " + tag, DurationMin: 120})
	require.NoError(t, err)

	base := time.Now().Add(24 * time.Hour).Truncate(time.Minute)

	first, err := svc.CreateShowtime(ctx, movieID, theaterID, base, 1500)
	require.NoError(t, err)

	// starts inside [base, base+120m)
	_, err = svc.CreateShowtime(ctx, movieID, theaterID, base.Add(time.Hour), 1500)
	assert.ErrorIs(t, err, catalog.ErrShowtimeOverlap)

	// ends inside it
	_, err = svc.CreateShowtime(ctx, movieID, theaterID, base.Add(-time.Hour), 1500)
	assert.ErrorIs(t, err, catalog.ErrShowtimeOverlap)

	// back to back is fine
	second, err := svc.CreateShowtime(ctx, movieID, theaterID, base.Add(2*time.Hour), 1500)
	require.NoError(t, err)

	// other theater is unaffected
	otherTheater, _ := seedTheater(t, pool, 4)
	_, err = svc.CreateShowtime(ctx, movieID, otherTheater, base, 1500)
	assert.NoError(t, err)

	// moving the second onto the first re-triggers the check
	err = svc.UpdateShowtime(ctx, second, base.Add(30*time.Minute), 1500)
	assert.ErrorIs(t, err, catalog.ErrShowtimeOverlap)

	// a showtime may be moved without colliding with itself
	assert.NoError(t, svc.UpdateShowtime(ctx, first, base.Add(-10*time.Minute), 1700))
}

func TestShowtimeInPastRejected(t *testing.T) {
	pool, svc := setupCatalog(t)
	ctx := context.Background()

	theaterID, _ := seedTheater(t, pool, 2)
	tag := uuid.NewString()[:8]

	movieID, err := svc.CreateMovie(ctx, &domain.Movie{Title: "Movie " + tag, DurationMin: 90})
	require.NoError(t, err)

	_, err = svc.CreateShowtime(ctx, movieID, theaterID, time.Now().Add(-time.Minute), 1000)
	assert.ErrorIs(t, err, catalog.ErrShowtimeInPast)
}

func TestDeleteShowtimeWithActiveReservations(t *testing.T) {
	pool, svc := setupCatalog(t)
	ctx := context.Background()

	theaterID, seats := seedTheater(t, pool, 4)
	tag := uuid.NewString()[:8]

	movieID, err := svc.CreateMovie(ctx, &domain.Movie{Title: "Movie " + tag, DurationMin: 90})
	require.NoError(t, err)

	showtimeID, err := svc.CreateShowtime(ctx, movieID, theaterID, time.Now().Add(24*time.Hour), 1500)
	require.NoError(t, err)

	var userID int64
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO users (username, email) VALUES ($1, $2) RETURNING id`,
		"carol_"+tag, "carol_"+tag+"@example.com",
	).Scan(&userID))

	store := postgresrepo.NewStore(pool)
	bookSvc := booking.New(store, nil, nil, nil, booking.Config{})

	detail, err := bookSvc.Create(ctx, userID, showtimeID, seats[:1], "")
	require.NoError(t, err)

	err = svc.DeleteShowtime(ctx, showtimeID)
	assert.ErrorIs(t, err, catalog.ErrActiveReservations)

	// cancelled bookings do not block deletion
	_, err = bookSvc.Cancel(ctx, detail.ID, userID)
	require.NoError(t, err)
	assert.NoError(t, svc.DeleteShowtime(ctx, showtimeID))
}

func TestAvailableSeatsShrink(t *testing.T) {
	pool, svc := setupCatalog(t)
	ctx := context.Background()

	theaterID, seats := seedTheater(t, pool, 5)
	tag := uuid.NewString()[:8]

	movieID, err := svc.CreateMovie(ctx, &domain.Movie{Title: "Movie " + tag, DurationMin: 90})
	require.NoError(t, err)

	showtimeID, err := svc.CreateShowtime(ctx, movieID, theaterID, time.Now().Add(24*time.Hour), 1500)
	require.NoError(t, err)

	free, err := svc.AvailableSeats(ctx, showtimeID)
	require.NoError(t, err)
	assert.Len(t, free, 5)

	var userID int64
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO users (username, email) VALUES ($1, $2) RETURNING id`,
		"dave_"+tag, "dave_"+tag+"@example.com",
	).Scan(&userID))

	bookSvc := booking.New(postgresrepo.NewStore(pool), nil, nil, nil, booking.Config{})
	_, err = bookSvc.Create(ctx, userID, showtimeID, seats[:2], "")
	require.NoError(t, err)

	free, err = svc.AvailableSeats(ctx, showtimeID)
	require.NoError(t, err)
	assert.Len(t, free, 3)
}

func TestAvailableSeatsUnknownShowtime(t *testing.T) {
	_, svc := setupCatalog(t)

	_, err := svc.AvailableSeats(context.Background(), 999999999)
	assert.ErrorIs(t, err, catalog.ErrShowtimeNotFound)
}
