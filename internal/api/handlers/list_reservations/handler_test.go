package list_reservations

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBooking/internal/service/reservations"
	"github.com/m04kA/SMC-TableBooking/internal/service/reservations/models"
	"github.com/m04kA/SMC-TableBooking/pkg/logger"
)

// MockReservationService мок сервиса бронирований
type MockReservationService struct {
	got *models.ListReservationsRequest
	err error
}

func (m *MockReservationService) ListByDate(ctx context.Context, req *models.ListReservationsRequest) (*models.ReservationListResponse, error) {
	m.got = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.ReservationListResponse{Date: "2025-10-15", Reservations: []models.ReservationResponse{}}, nil
}

func doRequest(svc *MockReservationService, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func TestHandler_ListFilters(t *testing.T) {
	svc := &MockReservationService{}

	w := doRequest(svc, "/api/v1/reservations?date=2025-10-15&roomId=2&status=pending&includeInactive=true")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), *svc.got.RoomID)
	assert.Equal(t, "pending", *svc.got.Status)
	assert.True(t, svc.got.IncludeInactive)
	assert.JSONEq(t, `{"date":"2025-10-15","reservations":[]}`, w.Body.String())
}

func TestHandler_ListErrors(t *testing.T) {
	svc := &MockReservationService{}
	assert.Equal(t, http.StatusBadRequest, doRequest(svc, "/api/v1/reservations").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(svc, "/api/v1/reservations?date=2025-13-01").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(svc, "/api/v1/reservations?date=2025-10-15&roomId=a").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(svc, "/api/v1/reservations?date=2025-10-15&includeInactive=maybe").Code)

	assert.Equal(t, http.StatusBadRequest,
		doRequest(&MockReservationService{err: reservations.ErrInvalidInput}, "/api/v1/reservations?date=2025-10-15&status=seated").Code)
	assert.Equal(t, http.StatusInternalServerError,
		doRequest(&MockReservationService{err: reservations.ErrInternal}, "/api/v1/reservations?date=2025-10-15").Code)
}
