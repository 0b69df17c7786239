package update_reservation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	updateReservation "github.com/m04kA/SMC-TableBooking/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-TableBooking/pkg/logger"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// MockUseCase мок use case изменения бронирования
type MockUseCase struct {
	got *updateReservation.Request
	err error
}

func (m *MockUseCase) Execute(ctx context.Context, req *updateReservation.Request) (*updateReservation.Response, error) {
	m.got = req
	if m.err != nil {
		return nil, m.err
	}
	return &updateReservation.Response{
		ID:              req.ReservationID,
		Date:            time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:       "20:00",
		DurationMinutes: 150,
		PartySize:       4,
		TableIDs:        []int64{3},
		TotalCapacity:   6,
		Reseated:        true,
	}, nil
}

func serve(uc *MockUseCase, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/reservations/{reservationId}", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodPatch)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/reservations/8", strings.NewReader(body)))
	return w
}

func TestHandler_PartialUpdate(t *testing.T) {
	uc := &MockUseCase{}

	w := serve(uc, `{"startTime":"20:00","durationHours":2.5}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(8), uc.got.ReservationID)
	assert.Equal(t, types.TimeString("20:00"), *uc.got.StartTime)
	assert.Equal(t, 150, *uc.got.DurationMinutes)
	assert.Nil(t, uc.got.PartySize)
	assert.Contains(t, w.Body.String(), `"reseated":true`)
}

func TestHandler_UpdateErrors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&MockUseCase{}, `{"startTime":"8pm"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(&MockUseCase{}, `{"durationMinutes":60,"durationHours":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(&MockUseCase{}, `{"date":"2025-10-16"}`).Code)

	tests := []struct {
		err  error
		code int
	}{
		{err: updateReservation.ErrInvalidInput, code: http.StatusBadRequest},
		{err: updateReservation.ErrReservationNotFound, code: http.StatusNotFound},
		{err: updateReservation.ErrNotActive, code: http.StatusConflict},
		{err: updateReservation.ErrNoAvailability, code: http.StatusConflict},
		{err: updateReservation.ErrBusy, code: http.StatusServiceUnavailable},
		{err: updateReservation.ErrConflict, code: http.StatusConflict},
		{err: updateReservation.ErrInternal, code: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.code, serve(&MockUseCase{err: tt.err}, `{"partySize":5}`).Code)
		})
	}
}
