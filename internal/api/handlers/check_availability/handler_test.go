package check_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkAvailability "github.com/m04kA/SMC-TableBooking/internal/usecase/check_availability"
	"github.com/m04kA/SMC-TableBooking/pkg/logger"
)

// MockUseCase мок use case проверки доступности
type MockUseCase struct {
	got  *checkAvailability.Request
	resp *checkAvailability.Response
	err  error
}

func (m *MockUseCase) Execute(ctx context.Context, req *checkAvailability.Request) (*checkAvailability.Response, error) {
	m.got = req
	return m.resp, m.err
}

func doRequest(h *Handler, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func TestHandler_Slots(t *testing.T) {
	uc := &MockUseCase{resp: &checkAvailability.Response{
		Date:            time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		PartySize:       4,
		DurationMinutes: 120,
		Slots: []checkAvailability.Slot{
			{StartTime: "19:00", RoomID: 1, TableIDs: []int64{3}, TotalCapacity: 4},
		},
	}}
	h := NewHandler(uc, logger.NewNop())

	w := doRequest(h, "/api/v1/availability?date=2025-10-15&partySize=4&durationMinutes=120")

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, uc.got.RoomFilter.IsAny())
	assert.Equal(t, 120, uc.got.DurationMinutes)

	var body AvailabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Slots, 1)
	assert.Equal(t, "19:00", body.Slots[0].StartTime)
	assert.False(t, body.Closed)
}

func TestHandler_ClosedDayReturnsEmptySlots(t *testing.T) {
	uc := &MockUseCase{resp: &checkAvailability.Response{
		Date:      time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		PartySize: 2,
		Closed:    true,
	}}
	h := NewHandler(uc, logger.NewNop())

	w := doRequest(h, "/api/v1/availability?date=2025-12-31&partySize=2")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"date":"2025-12-31","partySize":2,"durationMinutes":0,"closed":true,"slots":[]}`, w.Body.String())
}

func TestHandler_BadQuery(t *testing.T) {
	urls := []string{
		"/api/v1/availability?partySize=2",
		"/api/v1/availability?date=tomorrow&partySize=2",
		"/api/v1/availability?date=2025-10-15",
		"/api/v1/availability?date=2025-10-15&partySize=two",
		"/api/v1/availability?date=2025-10-15&partySize=2&durationMinutes=60&durationHours=1",
		"/api/v1/availability?date=2025-10-15&partySize=2&roomId=-1",
	}

	for _, url := range urls {
		t.Run(url, func(t *testing.T) {
			uc := &MockUseCase{}
			w := doRequest(NewHandler(uc, logger.NewNop()), url)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandler_UseCaseErrors(t *testing.T) {
	w := doRequest(NewHandler(&MockUseCase{err: checkAvailability.ErrInvalidInput}, logger.NewNop()),
		"/api/v1/availability?date=2025-10-15&partySize=50")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(NewHandler(&MockUseCase{err: checkAvailability.ErrInternal}, logger.NewNop()),
		"/api/v1/availability?date=2025-10-15&partySize=2")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
