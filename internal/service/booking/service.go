package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cinetix/cinetix-go/internal/domain"
	"github.com/cinetix/cinetix-go/internal/policy"
	redisx "github.com/cinetix/cinetix-go/internal/redis"
	"github.com/cinetix/cinetix-go/internal/repository"
	postgresrepo "github.com/cinetix/cinetix-go/internal/repository/postgres"
	redisrepo "github.com/cinetix/cinetix-go/internal/repository/redis"
	"github.com/cinetix/cinetix-go/internal/uow"
)

type Config struct {
	Rules policy.Rules
	// MaxRetries bounds re-runs of a booking transaction that lost a
	// serialization race.
	MaxRetries int
}

// Service is the reservation lifecycle manager. Every booking-affecting
// operation runs inside a single serializable transaction; correctness is
// delegated to row locks and the active-seat unique index, not to any
// in-process coordination.
type Service struct {
	store   *postgresrepo.Store
	cache   *redisrepo.Cache
	pubsub  *redisx.ShowtimesPubSub
	limiter *redisrepo.SlidingWindowLimiter
	uow     *uow.UoW
	cfg     Config
	now     func() time.Time
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.ShowtimesPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Service {
	if cfg.Rules.MaxSeatsPerRequest <= 0 {
		cfg.Rules = policy.DefaultRules()
	}

	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}

	return &Service{
		store:   store,
		cache:   cache,
		pubsub:  pubsub,
		limiter: limiter,
		uow:     uow.NewUoW(store),
		cfg:     cfg,
		now:     time.Now,
	}
}

// Create books the requested seats for the user on the showtime.
//
// Parameters:
//   - ctx: request-scoped context.
//   - userID: trusted identity of the booking user.
//   - showtimeID: showtime to book.
//   - seatIDs: seats to reserve; the batch is all-or-nothing.
//   - rlKey: rate-limit key for the caller; empty disables limiting.
//
// Returns:
//   - *domain.ReservationDetail: the fully joined reservation.
//   - error: *ValidationError, ErrRateLimited, ErrShowtimeNotFound,
//     ErrPastShowtime, *SeatsUnavailableError, ErrBookingLimit or
//     ErrConflict.
func (s *Service) Create(
	ctx context.Context,
	userID, showtimeID int64,
	seatIDs []int64,
	rlKey string,
) (*domain.ReservationDetail, error) {
	const op = "service.booking.Create"

	if v := s.cfg.Rules.ValidateBookingRequest(userID, showtimeID, seatIDs); v != nil {
		return nil, &ValidationError{Message: v.Message}
	}

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s:%w, retry in %s", op, ErrRateLimited, retry)
		}
	}

	var detail *domain.ReservationDetail

	var err error
	for attempt := 0; attempt < s.cfg.MaxRetries; attempt++ {
		detail, err = s.createOnce(ctx, userID, showtimeID, seatIDs)
		if err == nil || !postgresrepo.IsRetryable(err) {
			break
		}
	}
	if err != nil {
		if lostRace(err) {
			return nil, fmt.Errorf("%s:%w", op, ErrConflict)
		}
		return nil, err
	}

	return detail, nil
}

// lostRace reports whether the booking failed because a concurrent
// transaction won the same seats: the active-seat index rejected the
// insert, or the serialization retry budget ran out.
func lostRace(err error) bool {
	return errors.Is(err, repository.ErrConflict) || postgresrepo.IsRetryable(err)
}

func (s *Service) createOnce(
	ctx context.Context,
	userID, showtimeID int64,
	seatIDs []int64,
) (*domain.ReservationDetail, error) {
	const op = "service.booking.createOnce"

	var detail *domain.ReservationDetail

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		sh, err := s.store.Catalog().With(tx).GetShowtime(ctx, showtimeID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrShowtimeNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		if v := policy.ValidateShowtimeIsFuture(sh.StartTime, s.now()); v != nil {
			return fmt.Errorf("%s:%w", op, ErrPastShowtime)
		}

		reservations := s.store.Reservations().With(tx)

		avail, err := reservations.CheckAvailability(ctx, showtimeID, sh.TheaterID, seatIDs)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		if !avail.AllAvailable() {
			return &SeatsUnavailableError{
				Invalid:     avail.Invalid,
				Unavailable: avail.Unavailable,
			}
		}

		held, err := reservations.CountActiveForUser(ctx, userID, showtimeID)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		if v := s.cfg.Rules.ValidateActiveCap(held, len(seatIDs)); v != nil {
			return fmt.Errorf("%s:%w", op, ErrBookingLimit)
		}

		// Price snapshot: copied onto the reservation here, never
		// recomputed, so later price edits leave the booking untouched.
		total := domain.TotalCents(sh.PriceCents, len(seatIDs))

		res, err := reservations.Create(ctx, userID, showtimeID, sh.PriceCents, total, seatIDs)
		if err != nil {
			if errors.Is(err, repository.ErrSeatsUnavailable) {
				return &SeatsUnavailableError{Unavailable: seatIDs}
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		detail, err = s.store.Query().With(tx).GetReservation(ctx, res.ID)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			s.invalidate(ctx, showtimeID, userID)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// invalidate drops the cached projections touched by a booking mutation and
// notifies subscribers. Cache and pubsub are optional dependencies.
func (s *Service) invalidate(ctx context.Context, showtimeID, userID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateShowtime(ctx, showtimeID)
		_ = s.cache.InvalidateUserStats(ctx, userID)
	}

	if s.pubsub != nil {
		_ = s.pubsub.PublishShowtimeChanged(ctx, showtimeID)
	}
}

// Cancel transitions an active reservation to cancelled. Only the owning
// user may cancel, and only while the cancellation window is open. The
// freed seats are bookable as soon as the transaction commits.
//
// Returns:
//   - *domain.Reservation: the updated record.
//   - error: ErrReservationNotFound, ErrAlreadyCancelled or ErrLeadTime.
func (s *Service) Cancel(ctx context.Context, reservationID, userID int64) (*domain.Reservation, error) {
	const op = "service.booking.Cancel"

	if reservationID <= 0 || userID <= 0 {
		return nil, &ValidationError{Message: "ids must be positive"}
	}

	var cancelled *domain.Reservation

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		reservations := s.store.Reservations().With(tx)

		res, start, err := reservations.GetForCancel(ctx, reservationID, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrReservationNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		if res.Status == domain.ReservationCancelled {
			return fmt.Errorf("%s:%w", op, ErrAlreadyCancelled)
		}

		if v := s.cfg.Rules.ValidateCancellationWindow(start, s.now()); v != nil {
			return fmt.Errorf("%s:%w", op, ErrLeadTime)
		}

		cancelled, err = reservations.MarkCancelled(ctx, reservationID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrAlreadyCancelled)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			s.invalidate(ctx, res.ShowtimeID, userID)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return cancelled, nil
}

// Delete hard-deletes a reservation regardless of status. Admin cleanup
// path; the lead-time rule does not apply here and the route must stay
// admin-only for that reason.
//
// Returns:
//   - error: ErrReservationNotFound if the reservation does not exist.
func (s *Service) Delete(ctx context.Context, reservationID int64) error {
	const op = "service.booking.Delete"

	if reservationID <= 0 {
		return &ValidationError{Message: "reservation id must be positive"}
	}

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		detail, err := s.store.Query().With(tx).GetReservation(ctx, reservationID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrReservationNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		if err := s.store.Reservations().With(tx).Delete(ctx, reservationID); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			s.invalidate(ctx, detail.ShowtimeID, detail.UserID)
		})

		return nil
	})

	return err
}

// Availability reports which of the requested seats are free for the
// showtime. Read-only and unlocked; Create re-checks under its own
// transaction.
//
// Returns:
//   - *domain.SeatAvailability: partition of seatIDs.
//   - error: ErrShowtimeNotFound if the showtime does not exist.
func (s *Service) Availability(ctx context.Context, showtimeID int64, seatIDs []int64) (*domain.SeatAvailability, error) {
	const op = "service.booking.Availability"

	sh, err := s.store.Catalog().GetShowtime(ctx, showtimeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrShowtimeNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	// no specific seats asked for: report every free seat
	if len(seatIDs) == 0 {
		seats, err := s.store.Catalog().AvailableSeats(ctx, showtimeID)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}

		avail := &domain.SeatAvailability{}
		for _, se := range seats {
			avail.Available = append(avail.Available, se.ID)
		}

		return avail, nil
	}

	avail, err := s.store.Reservations().CheckAvailability(ctx, showtimeID, sh.TheaterID, seatIDs)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return avail, nil
}
