package query

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
)

type Config struct {
	StatsTTL    time.Duration
	DefaultPage int
	MaxPage     int
}

// Service serves the read-side projections over committed state. No
// locking happens here.
type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.StatsTTL <= 0 {
		cfg.StatsTTL = 30 * time.Second
	}

	if cfg.DefaultPage <= 0 {
		cfg.DefaultPage = 50
	}

	if cfg.MaxPage <= 0 {
		cfg.MaxPage = 200
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

// GetReservation retrieves one fully joined reservation. Ownership checks
// belong to the transport layer, which knows the caller's role.
func (s *Service) GetReservation(ctx context.Context, id int64) (*domain.ReservationDetail, error) {
	const op = "service.query.GetReservation"

	d, err := s.store.Query().GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrReservationNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return d, nil
}

// ListByUser lists the user's reservations, newest showtime first.
func (s *Service) ListByUser(
	ctx context.Context,
	userID int64,
	f postgresrepo.ReservationFilter,
) ([]domain.ReservationDetail, error) {
	const op = "service.query.ListByUser"

	if f.Limit <= 0 {
		f.Limit = s.cfg.DefaultPage
	}

	if f.Limit > s.cfg.MaxPage {
		f.Limit = s.cfg.MaxPage
	}

	out, err := s.store.Query().ListByUser(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// ListByShowtime lists a showtime's reservations; admin projection.
func (s *Service) ListByShowtime(
	ctx context.Context,
	showtimeID int64,
	status domain.ReservationStatus,
) ([]domain.ReservationDetail, error) {
	const op = "service.query.ListByShowtime"

	out, err := s.store.Query().ListByShowtime(ctx, showtimeID, status)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// Stats aggregates the user's booking history, cached briefly and
// invalidated after every booking mutation.
func (s *Service) Stats(ctx context.Context, userID int64) (*domain.UserStats, error) {
	const op = "service.query.Stats"

	key := redisx.KeyUserStats(userID)

	stats, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.StatsTTL,
		func(ctx context.Context) (domain.UserStats, error) {
			st, err := s.store.Query().UserStats(ctx, userID)
			if err != nil {
				return domain.UserStats{}, err
			}

			return *st, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &stats, nil
}

// Revenue is the admin daily revenue report over active reservations.
func (s *Service) Revenue(ctx context.Context) ([]domain.RevenueRow, error) {
	const op = "service.query.Revenue"

	out, err := s.store.Query().Revenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
