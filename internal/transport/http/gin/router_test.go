package httpgin

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetix/cinetix-go/internal/service/booking"
	"github.com/cinetix/cinetix-go/internal/service/catalog"
	"github.com/cinetix/cinetix-go/internal/service/query"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRespondErr(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "validation error",
			err:        &booking.ValidationError{Message: "no seats selected"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation_error",
		},
		{
			name:       "showtime not found",
			err:        fmt.Errorf("service.booking.Create:%w", booking.ErrShowtimeNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "reservation not found",
			err:        booking.ErrReservationNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "past showtime",
			err:        booking.ErrPastShowtime,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "past_showtime",
		},
		{
			name:       "booking limit",
			err:        booking.ErrBookingLimit,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "booking_limit",
		},
		{
			name:       "already cancelled",
			err:        booking.ErrAlreadyCancelled,
			wantStatus: http.StatusConflict,
			wantCode:   "already_cancelled",
		},
		{
			name:       "lead time",
			err:        booking.ErrLeadTime,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "lead_time",
		},
		{
			name:       "booking conflict",
			err:        booking.ErrConflict,
			wantStatus: http.StatusConflict,
			wantCode:   "conflict",
		},
		{
			name:       "catalog invalid input",
			err:        catalog.ErrInvalidInput,
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation_error",
		},
		{
			name:       "movie not found",
			err:        catalog.ErrMovieNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "showtime overlap",
			err:        catalog.ErrShowtimeOverlap,
			wantStatus: http.StatusConflict,
			wantCode:   "showtime_overlap",
		},
		{
			name:       "showtime in past",
			err:        catalog.ErrShowtimeInPast,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "past_showtime",
		},
		{
			name:       "active reservations",
			err:        catalog.ErrActiveReservations,
			wantStatus: http.StatusConflict,
			wantCode:   "active_reservations",
		},
		{
			name:       "query reservation not found",
			err:        query.ErrReservationNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "rate limited",
			err:        fmt.Errorf("service.booking.Create:%w, retry in 30s", booking.ErrRateLimited),
			wantStatus: http.StatusTooManyRequests,
			wantCode:   "rate_limited",
		},
		{
			name:       "unexpected error stays generic",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext(t)
			respondErr(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.wantCode, resp.Code)
			if tt.wantStatus == http.StatusInternalServerError {
				// storage details must not leak to clients
				assert.Equal(t, "internal error", resp.Error)
			}
		})
	}
}

func TestRespondErrSeatsUnavailable(t *testing.T) {
	c, w := testContext(t)

	respondErr(c, &booking.SeatsUnavailableError{
		Invalid:     []int64{99},
		Unavailable: []int64{3, 4},
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "seat_unavailable", resp.Code)
	assert.Equal(t, []int64{99}, resp.InvalidSeats)
	assert.Equal(t, []int64{3, 4}, resp.UnavailableSeats)
}

func TestParseIDList(t *testing.T) {
	got, err := parseIDList("1,2,3")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, got)

	got, err = parseIDList(" 7 , 8 ")
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8}, got)

	got, err = parseIDList("")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseIDList("1,x")
	assert.Error(t, err)
}
