package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cinetix/cinetix-go/internal/domain"
	redisx "github.com/cinetix/cinetix-go/internal/redis"
	"github.com/cinetix/cinetix-go/internal/repository"
	postgresrepo "github.com/cinetix/cinetix-go/internal/repository/postgres"
	redisrepo "github.com/cinetix/cinetix-go/internal/repository/redis"
	"github.com/cinetix/cinetix-go/internal/uow"
)

type Config struct {
	ShowtimeSummaryTTL time.Duration
	SeatListTTL        time.Duration
	DefaultPage        int
	MaxPage            int
}

// Service manages the reference catalog: movies with genres, theaters and
// showtimes. Mutations are admin actions; the transport layer guards that.
type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisx.ShowtimesPubSub
	uow    *uow.UoW
	cfg    Config
	now    func() time.Time
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.ShowtimesPubSub,
	cfg Config,
) *Service {
	if cfg.ShowtimeSummaryTTL <= 0 {
		cfg.ShowtimeSummaryTTL = 60 * time.Second
	}

	if cfg.SeatListTTL <= 0 {
		cfg.SeatListTTL = 15 * time.Second
	}

	if cfg.DefaultPage <= 0 {
		cfg.DefaultPage = 100
	}

	if cfg.MaxPage <= 0 {
		cfg.MaxPage = 500
	}

	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		uow:    uow.NewUoW(store),
		cfg:    cfg,
		now:    time.Now,
	}
}

// --- movies ---

func (s *Service) CreateMovie(ctx context.Context, m *domain.Movie) (int64, error) {
	const op = "service.catalog.CreateMovie"

	if m.Title == "" || m.DurationMin <= 0 {
		return 0, fmt.Errorf("%s:%w", op, ErrInvalidInput)
	}

	var id int64

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		mid, err := s.store.Catalog().With(tx).CreateMovie(ctx, m)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		id = mid

		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (s *Service) UpdateMovie(ctx context.Context, m *domain.Movie) error {
	const op = "service.catalog.UpdateMovie"

	if m.ID <= 0 || m.Title == "" || m.DurationMin <= 0 {
		return fmt.Errorf("%s:%w", op, ErrInvalidInput)
	}

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		if err := s.store.Catalog().With(tx).UpdateMovie(ctx, m); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrMovieNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		return nil
	})

	return err
}

func (s *Service) DeleteMovie(ctx context.Context, id int64) error {
	const op = "service.catalog.DeleteMovie"

	if err := s.store.Catalog().DeleteMovie(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s:%w", op, ErrMovieNotFound)
		}

		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

func (s *Service) GetMovie(ctx context.Context, id int64) (*domain.Movie, error) {
	const op = "service.catalog.GetMovie"

	m, err := s.store.Catalog().GetMovie(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrMovieNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return m, nil
}

func (s *Service) ListMovies(ctx context.Context, limit, offset int) ([]domain.Movie, error) {
	const op = "service.catalog.ListMovies"

	limit = s.clampPage(limit)

	movies, err := s.store.Catalog().ListMovies(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return movies, nil
}

// --- theaters ---

func (s *Service) ListTheaters(ctx context.Context) ([]domain.Theater, error) {
	const op = "service.catalog.ListTheaters"

	theaters, err := s.store.Catalog().ListTheaters(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return theaters, nil
}

func (s *Service) ListTheaterSeats(ctx context.Context, theaterID int64) ([]domain.Seat, error) {
	const op = "service.catalog.ListTheaterSeats"

	seats, err := s.store.Catalog().ListTheaterSeats(ctx, theaterID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return seats, nil
}

// --- showtimes ---

// CreateShowtime schedules a screening. The start must be in the future
// and the [start, start+duration) interval must not overlap another
// showtime in the same theater; both checks run in one transaction with
// the insert.
//
// Returns:
//   - int64: the new showtime id.
//   - error: ErrMovieNotFound, ErrShowtimeInPast or ErrShowtimeOverlap.
func (s *Service) CreateShowtime(
	ctx context.Context,
	movieID, theaterID int64,
	start time.Time,
	priceCents int,
) (int64, error) {
	const op = "service.catalog.CreateShowtime"

	if movieID <= 0 || theaterID <= 0 || priceCents < 0 {
		return 0, fmt.Errorf("%s:%w", op, ErrInvalidInput)
	}

	if !start.After(s.now()) {
		return 0, fmt.Errorf("%s:%w", op, ErrShowtimeInPast)
	}

	var id int64

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		catalog := s.store.Catalog().With(tx)

		m, err := catalog.GetMovie(ctx, movieID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrMovieNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		proposed := domain.ShowtimeDetail{
			Showtime:         domain.Showtime{StartTime: start},
			MovieDurationMin: m.DurationMin,
		}

		overlap, err := catalog.HasOverlap(ctx, theaterID, start, proposed.End(), 0)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		if overlap {
			return fmt.Errorf("%s:%w", op, ErrShowtimeOverlap)
		}

		sid, err := catalog.InsertShowtime(ctx, &domain.Showtime{
			MovieID:    movieID,
			TheaterID:  theaterID,
			StartTime:  start,
			PriceCents: priceCents,
		})
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrTheaterNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		id = sid

		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// UpdateShowtime edits start time and price, re-validating the overlap
// rule. Existing reservations keep their snapshot price.
func (s *Service) UpdateShowtime(
	ctx context.Context,
	id int64,
	start time.Time,
	priceCents int,
) error {
	const op = "service.catalog.UpdateShowtime"

	if id <= 0 || priceCents < 0 {
		return fmt.Errorf("%s:%w", op, ErrInvalidInput)
	}

	if !start.After(s.now()) {
		return fmt.Errorf("%s:%w", op, ErrShowtimeInPast)
	}

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		catalog := s.store.Catalog().With(tx)

		sh, err := catalog.GetShowtime(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrShowtimeNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		sh.StartTime = start

		overlap, err := catalog.HasOverlap(ctx, sh.TheaterID, start, sh.End(), id)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		if overlap {
			return fmt.Errorf("%s:%w", op, ErrShowtimeOverlap)
		}

		if err := catalog.UpdateShowtime(ctx, id, start, priceCents); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			s.invalidate(ctx, id)
		})

		return nil
	})

	return err
}

// DeleteShowtime removes a showtime; blocked while active reservations
// exist.
//
// Returns:
//   - error: ErrShowtimeNotFound or ErrActiveReservations.
func (s *Service) DeleteShowtime(ctx context.Context, id int64) error {
	const op = "service.catalog.DeleteShowtime"

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		if err := s.store.Catalog().With(tx).DeleteShowtime(ctx, id); err != nil {
			switch {
			case errors.Is(err, repository.ErrHasActive):
				return fmt.Errorf("%s:%w", op, ErrActiveReservations)
			case errors.Is(err, repository.ErrNotFound):
				return fmt.Errorf("%s:%w", op, ErrShowtimeNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			s.invalidate(ctx, id)
		})

		return nil
	})

	return err
}

// invalidate drops the cached showtime projections and notifies
// subscribers. Cache and pubsub are optional dependencies.
func (s *Service) invalidate(ctx context.Context, showtimeID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateShowtime(ctx, showtimeID)
	}

	if s.pubsub != nil {
		_ = s.pubsub.PublishShowtimeChanged(ctx, showtimeID)
	}
}

// GetShowtime retrieves a showtime with movie and theater data, cached
// briefly.
func (s *Service) GetShowtime(ctx context.Context, id int64) (*domain.ShowtimeDetail, error) {
	const op = "service.catalog.GetShowtime"

	key := redisx.KeyShowtimeSummary(id)

	detail, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.ShowtimeSummaryTTL,
		func(ctx context.Context) (domain.ShowtimeDetail, error) {
			d, err := s.store.Catalog().GetShowtime(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.ShowtimeDetail{}, ErrShowtimeNotFound
				}

				return domain.ShowtimeDetail{}, err
			}

			return *d, nil
		},
	)
	if err != nil {
		if errors.Is(err, ErrShowtimeNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrShowtimeNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &detail, nil
}

func (s *Service) ListShowtimes(ctx context.Context, movieID int64, limit, offset int) ([]domain.ShowtimeDetail, error) {
	const op = "service.catalog.ListShowtimes"

	limit = s.clampPage(limit)

	showtimes, err := s.store.Catalog().ListShowtimes(ctx, movieID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return showtimes, nil
}

// AvailableSeats lists the free seats of a showtime, cached briefly and
// invalidated on every booking mutation.
//
// Returns:
//   - error: ErrShowtimeNotFound if the showtime does not exist.
func (s *Service) AvailableSeats(ctx context.Context, showtimeID int64) ([]domain.Seat, error) {
	const op = "service.catalog.AvailableSeats"

	key := redisx.KeyShowtimeSeats(showtimeID)

	seats, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.SeatListTTL,
		func(ctx context.Context) ([]domain.Seat, error) {
			out, err := s.store.Catalog().AvailableSeats(ctx, showtimeID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, ErrShowtimeNotFound
				}

				return nil, err
			}

			return out, nil
		},
	)
	if err != nil {
		if errors.Is(err, ErrShowtimeNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrShowtimeNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return seats, nil
}

func (s *Service) clampPage(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultPage
	}

	if limit > s.cfg.MaxPage {
		return s.cfg.MaxPage
	}

	return limit
}
