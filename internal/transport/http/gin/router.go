package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/cinetix/cinetix-go/internal/domain"
	redisx "github.com/cinetix/cinetix-go/internal/redis"
	postgresrepo "github.com/cinetix/cinetix-go/internal/repository/postgres"
	redisrepo "github.com/cinetix/cinetix-go/internal/repository/redis"
	"github.com/cinetix/cinetix-go/internal/service"
	"github.com/cinetix/cinetix-go/internal/service/booking"
	"github.com/cinetix/cinetix-go/internal/service/catalog"
	"github.com/cinetix/cinetix-go/internal/service/query"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS(), IdentityMiddleware())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.GET("/movies", handleListMovies(svcs))
	r.GET("/movies/:id", handleGetMovie(svcs))
	r.GET("/theaters", handleListTheaters(svcs))
	r.GET("/theaters/:id/seats", handleListTheaterSeats(svcs))
	r.GET("/showtimes", handleListShowtimes(svcs))
	r.GET("/showtimes/:id", handleGetShowtime(svcs))
	r.GET("/showtimes/:id/seats", handleAvailableSeats(svcs))
	r.GET("/showtimes/:id/availability", handleAvailability(svcs))

	// User API
	user := r.Group("/", RequireAuth())
	{
		user.POST("/reservations", handleCreateReservation(svcs, idem))
		user.GET("/reservations", handleListReservations(svcs))
		user.GET("/reservations/:id", handleGetReservation(svcs))
		user.DELETE("/reservations/:id", handleCancelReservation(svcs))
		user.GET("/me/stats", handleUserStats(svcs))
	}

	// Admin API
	admin := r.Group("/admin", RequireAdmin())
	{
		admin.POST("/movies", handleCreateMovie(svcs))
		admin.PUT("/movies/:id", handleUpdateMovie(svcs))
		admin.DELETE("/movies/:id", handleDeleteMovie(svcs))
		admin.POST("/showtimes", handleCreateShowtime(svcs))
		admin.PUT("/showtimes/:id", handleUpdateShowtime(svcs))
		admin.DELETE("/showtimes/:id", handleDeleteShowtime(svcs))
		admin.GET("/showtimes/:id/reservations", handleListShowtimeReservations(svcs))
		admin.DELETE("/reservations/:id", handleDeleteReservation(svcs))
		admin.GET("/reports/revenue", handleRevenue(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  List movies
// @Param    limit  query  int  false "page size"
// @Param    offset query  int  false "offset"
// @Success  200  {array}  domain.Movie
// @Router   /movies [get]
func handleListMovies(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := parseIntDefault(c.Query("limit"), 100)
		offset := parseIntDefault(c.Query("offset"), 0)

		movies, err := svcs.Catalog.ListMovies(c.Request.Context(), limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, movies, "public, max-age=60", true)
	}
}

// @Summary  Get movie
// @Param    id  path  int  true  "Movie ID"
// @Success  200  {object}  domain.Movie
// @Failure  404  {object}  ErrorResponse
// @Router   /movies/{id} [get]
func handleGetMovie(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		movieID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		m, err := svcs.Catalog.GetMovie(c.Request.Context(), movieID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, m, "public, max-age=60", true)
	}
}

// @Summary  List theaters
// @Success  200  {array}  domain.Theater
// @Router   /theaters [get]
func handleListTheaters(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		theaters, err := svcs.Catalog.ListTheaters(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, theaters, "public, max-age=300", true)
	}
}

// @Summary  List theater seats
// @Param    id  path  int  true  "Theater ID"
// @Success  200  {array}  domain.Seat
// @Router   /theaters/{id}/seats [get]
func handleListTheaterSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		theaterID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		seats, err := svcs.Catalog.ListTheaterSeats(c.Request.Context(), theaterID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, seats, "public, max-age=300", true)
	}
}

// @Summary  List upcoming showtimes
// @Param    movie_id query  int  false "filter by movie"
// @Param    limit    query  int  false "page size"
// @Param    offset   query  int  false "offset"
// @Success  200  {array}  domain.ShowtimeDetail
// @Router   /showtimes [get]
func handleListShowtimes(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		movieID := int64(parseIntDefault(c.Query("movie_id"), 0))
		limit := parseIntDefault(c.Query("limit"), 100)
		offset := parseIntDefault(c.Query("offset"), 0)

		showtimes, err := svcs.Catalog.ListShowtimes(c.Request.Context(), movieID, limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, showtimes, "public, max-age=30", true)
	}
}

// @Summary  Get showtime
// @Param    id  path  int  true  "Showtime ID"
// @Success  200  {object}  domain.ShowtimeDetail
// @Failure  404  {object}  ErrorResponse
// @Router   /showtimes/{id} [get]
func handleGetShowtime(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		showtimeID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		sh, err := svcs.Catalog.GetShowtime(c.Request.Context(), showtimeID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, sh, "public, max-age=60", true)
	}
}

// @Summary  List free seats of a showtime
// @Param    id  path  int  true  "Showtime ID"
// @Success  200  {array}  domain.Seat
// @Router   /showtimes/{id}/seats [get]
func handleAvailableSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		showtimeID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		seats, err := svcs.Catalog.AvailableSeats(c.Request.Context(), showtimeID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, seats, "public, max-age=15", true)
	}
}

// @Summary  Check availability of specific seats
// @Param    id    path   int     true  "Showtime ID"
// @Param    seats query  string  true  "comma-separated seat ids"
// @Success  200  {object}  domain.SeatAvailability
// @Failure  404  {object}  ErrorResponse
// @Router   /showtimes/{id}/availability [get]
func handleAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		showtimeID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		seatIDs, err := parseIDList(c.Query("seats"))
		if err != nil {
			badRequest(c, "invalid seats")
			return
		}
		avail, err := svcs.Booking.Availability(c.Request.Context(), showtimeID, seatIDs)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, avail)
	}
}

// @Summary  Create reservation (idempotent)
// @Param    req body  CreateReservationRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} domain.ReservationDetail
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "seats unavailable / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /reservations [post]
func handleCreateReservation(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := identityFrom(c)

		var req CreateReservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemReservation(req.ShowtimeID, idemKey)

			if payload, ok, _ := idem.GetResult(
				c.Request.Context(),
				idemStorageKey,
			); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(
					http.StatusCreated,
					"application/json; charset=utf-8",
					[]byte(payload),
				)
				return
			}

			locked, err := idem.AcquireLock(
				c.Request.Context(),
				idemStorageKey,
				60*time.Second,
			)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(
					c.Request.Context(),
					idemStorageKey,
				); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(
						http.StatusCreated,
						"application/json; charset=utf-8",
						[]byte(payload),
					)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(
					http.StatusConflict,
					ErrorResponse{Code: "idempotency_in_progress", Error: "idempotency key in progress"},
				)
				return
			}
		}

		rlKey := redisx.KeyRateLimit("user", strconv.FormatInt(id.UserID, 10))

		detail, err := svcs.Booking.Create(
			c.Request.Context(),
			id.UserID,
			req.ShowtimeID,
			req.SeatIDs,
			rlKey,
		)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			if errors.Is(err, booking.ErrRateLimited) {
				c.Header("Retry-After", "60")
			}
			respondErr(c, err)
			return
		}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(detail)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, detail)
	}
}

// @Summary  List own reservations
// @Param    status   query  string  false "active|cancelled"
// @Param    upcoming query  bool    false "only upcoming showtimes"
// @Param    limit    query  int     false "page size"
// @Param    offset   query  int     false "offset"
// @Success  200  {array}  domain.ReservationDetail
// @Router   /reservations [get]
func handleListReservations(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := identityFrom(c)

		f := postgresrepo.ReservationFilter{
			Status:   domain.ReservationStatus(c.Query("status")),
			Upcoming: c.Query("upcoming") == "true",
			Limit:    parseIntDefault(c.Query("limit"), 0),
			Offset:   parseIntDefault(c.Query("offset"), 0),
		}

		out, err := svcs.Query.ListByUser(c.Request.Context(), id.UserID, f)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Get own reservation
// @Param    id  path  int  true  "Reservation ID"
// @Success  200  {object}  domain.ReservationDetail
// @Failure  404  {object}  ErrorResponse
// @Router   /reservations/{id} [get]
func handleGetReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := identityFrom(c)

		reservationID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		d, err := svcs.Query.GetReservation(c.Request.Context(), reservationID)
		if err != nil {
			respondErr(c, err)
			return
		}

		// Owners see their own bookings; admins see everything.
		if d.UserID != id.UserID && !id.IsAdmin() {
			c.JSON(http.StatusNotFound, ErrorResponse{Code: "not_found", Error: "reservation not found"})
			return
		}

		c.JSON(http.StatusOK, d)
	}
}

// @Summary  Cancel own reservation
// @Param    id  path  int  true  "Reservation ID"
// @Success  200  {object}  domain.Reservation
// @Failure  404  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse "already cancelled"
// @Failure  422  {object}  ErrorResponse "cancellation window closed"
// @Router   /reservations/{id} [delete]
func handleCancelReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := identityFrom(c)

		reservationID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		res, err := svcs.Booking.Cancel(c.Request.Context(), reservationID, id.UserID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary  Own booking stats
// @Success  200  {object}  domain.UserStats
// @Router   /me/stats [get]
func handleUserStats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := identityFrom(c)

		stats, err := svcs.Query.Stats(c.Request.Context(), id.UserID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// @Summary  Create movie
// @Param    req body  CreateMovieRequest true "payload"
// @Success  201 {object} CreateMovieResponse
// @Router   /admin/movies [post]
func handleCreateMovie(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateMovieRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		id, err := svcs.Catalog.CreateMovie(c.Request.Context(), &domain.Movie{
			Title:       req.Title,
			Description: req.Description,
			DurationMin: req.DurationMin,
			Rating:      req.Rating,
			PosterURL:   req.PosterURL,
			Genres:      req.Genres,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateMovieResponse{MovieID: id})
	}
}

// @Summary  Update movie
// @Param    id  path  int  true  "Movie ID"
// @Param    req body  CreateMovieRequest true "payload"
// @Success  200 {object} domain.Movie
// @Router   /admin/movies/{id} [put]
func handleUpdateMovie(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		movieID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req CreateMovieRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		m := &domain.Movie{
			ID:          movieID,
			Title:       req.Title,
			Description: req.Description,
			DurationMin: req.DurationMin,
			Rating:      req.Rating,
			PosterURL:   req.PosterURL,
			Genres:      req.Genres,
		}
		if err := svcs.Catalog.UpdateMovie(c.Request.Context(), m); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

// @Summary  Delete movie
// @Param    id  path  int  true  "Movie ID"
// @Success  204
// @Router   /admin/movies/{id} [delete]
func handleDeleteMovie(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		movieID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Catalog.DeleteMovie(c.Request.Context(), movieID); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Create showtime
// @Param    req body  CreateShowtimeRequest true "payload"
// @Success  201 {object} CreateShowtimeResponse
// @Failure  409 {object} ErrorResponse "overlapping screening"
// @Router   /admin/showtimes [post]
func handleCreateShowtime(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateShowtimeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		starts, err := parseRFC3339(req.StartsAt)
		if err != nil {
			badRequest(c, "invalid starts_at (RFC3339)")
			return
		}
		id, err := svcs.Catalog.CreateShowtime(
			c.Request.Context(),
			req.MovieID,
			req.TheaterID,
			starts,
			req.PriceCents,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateShowtimeResponse{ShowtimeID: id})
	}
}

// @Summary  Update showtime start/price
// @Param    id  path  int  true  "Showtime ID"
// @Param    req body  UpdateShowtimeRequest true "payload"
// @Success  204
// @Failure  409 {object} ErrorResponse "overlapping screening"
// @Router   /admin/showtimes/{id} [put]
func handleUpdateShowtime(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		showtimeID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req UpdateShowtimeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		starts, err := parseRFC3339(req.StartsAt)
		if err != nil {
			badRequest(c, "invalid starts_at (RFC3339)")
			return
		}
		if err := svcs.Catalog.UpdateShowtime(c.Request.Context(), showtimeID, starts, req.PriceCents); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Delete showtime
// @Param    id  path  int  true  "Showtime ID"
// @Success  204
// @Failure  409 {object} ErrorResponse "active reservations exist"
// @Router   /admin/showtimes/{id} [delete]
func handleDeleteShowtime(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		showtimeID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Catalog.DeleteShowtime(c.Request.Context(), showtimeID); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  List reservations of a showtime
// @Param    id     path   int     true  "Showtime ID"
// @Param    status query  string  false "active|cancelled"
// @Success  200  {array}  domain.ReservationDetail
// @Router   /admin/showtimes/{id}/reservations [get]
func handleListShowtimeReservations(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		showtimeID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		out, err := svcs.Query.ListByShowtime(
			c.Request.Context(),
			showtimeID,
			domain.ReservationStatus(c.Query("status")),
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Hard-delete a reservation
// @Param    id  path  int  true  "Reservation ID"
// @Success  204
// @Router   /admin/reservations/{id} [delete]
func handleDeleteReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		reservationID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Booking.Delete(c.Request.Context(), reservationID); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Daily revenue report
// @Success  200  {array}  domain.RevenueRow
// @Router   /admin/reports/revenue [get]
func handleRevenue(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Query.Revenue(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func parseIDList(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, nil
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Code: "validation_error", Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var ve *booking.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "validation_error", Error: ve.Error()})
		return
	}

	var se *booking.SeatsUnavailableError
	if errors.As(err, &se) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Code:             "seat_unavailable",
			Error:            se.Error(),
			InvalidSeats:     se.Invalid,
			UnavailableSeats: se.Unavailable,
		})
		return
	}

	switch {
	// booking service
	case errors.Is(err, booking.ErrShowtimeNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Code: "not_found", Error: "showtime not found"})
		return
	case errors.Is(err, booking.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Code: "not_found", Error: "reservation not found"})
		return
	case errors.Is(err, booking.ErrPastShowtime):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Code: "past_showtime", Error: "showtime already started"})
		return
	case errors.Is(err, booking.ErrBookingLimit):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Code: "booking_limit", Error: "active reservation limit reached"})
		return
	case errors.Is(err, booking.ErrAlreadyCancelled):
		c.JSON(http.StatusConflict, ErrorResponse{Code: "already_cancelled", Error: "reservation already cancelled"})
		return
	case errors.Is(err, booking.ErrLeadTime):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Code: "lead_time", Error: "cancellation window closed"})
		return
	case errors.Is(err, booking.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Code: "conflict", Error: "conflict creating reservation"})
		return
	case errors.Is(err, booking.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Code: "rate_limited", Error: "rate limited, try again later"})
		return
	// catalog service
	case errors.Is(err, catalog.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "validation_error", Error: "invalid input"})
		return
	case errors.Is(err, catalog.ErrMovieNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Code: "not_found", Error: "movie not found"})
		return
	case errors.Is(err, catalog.ErrShowtimeNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Code: "not_found", Error: "showtime not found"})
		return
	case errors.Is(err, catalog.ErrTheaterNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Code: "not_found", Error: "theater not found"})
		return
	case errors.Is(err, catalog.ErrShowtimeInPast):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Code: "past_showtime", Error: "showtime must start in the future"})
		return
	case errors.Is(err, catalog.ErrShowtimeOverlap):
		c.JSON(http.StatusConflict, ErrorResponse{Code: "showtime_overlap", Error: "overlapping screening in the theater"})
		return
	case errors.Is(err, catalog.ErrActiveReservations):
		c.JSON(http.StatusConflict, ErrorResponse{Code: "active_reservations", Error: "showtime has active reservations"})
		return
	// query service
	case errors.Is(err, query.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Code: "not_found", Error: "reservation not found"})
		return
	}

	// Unexpected storage or connectivity failure: generic response, no
	// internals leaked.
	c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "internal", Error: "internal error"})
}
