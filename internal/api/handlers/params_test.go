package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathID(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest("GET", "/reservations/42", nil), map[string]string{"reservationId": "42"})
	id, err := PathID(r, "reservationId")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "0", "-3", "abc"} {
		r := mux.SetURLVars(httptest.NewRequest("GET", "/", nil), map[string]string{"reservationId": raw})
		_, err := PathID(r, "reservationId")
		assert.ErrorIs(t, err, ErrInvalidParam, raw)
	}
}

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2025-10-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), date)

	_, err = ParseDate("15.10.2025")
	assert.ErrorIs(t, err, ErrInvalidParam)

	_, err = ParseDate("")
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestQueryParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/?partySize=4&roomId=2&includeInactive=true&durationHours=1.5&bad=x", nil)

	party, err := QueryInt(r, "partySize")
	require.NoError(t, err)
	assert.Equal(t, 4, *party)

	missing, err := QueryInt(r, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = QueryInt(r, "bad")
	assert.ErrorIs(t, err, ErrInvalidParam)

	roomID, err := QueryInt64(r, "roomId")
	require.NoError(t, err)
	assert.Equal(t, int64(2), *roomID)

	include, err := QueryBool(r, "includeInactive")
	require.NoError(t, err)
	assert.True(t, include)

	hours, err := QueryFloat(r, "durationHours")
	require.NoError(t, err)
	assert.Equal(t, 1.5, *hours)

	zero := httptest.NewRequest("GET", "/?roomId=0", nil)
	_, err = QueryInt64(zero, "roomId")
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestDurationMinutes(t *testing.T) {
	minutes := 90
	hours := 1.5
	oddHours := 1.01

	got, err := DurationMinutes(&minutes, nil)
	require.NoError(t, err)
	assert.Equal(t, 90, got)

	got, err = DurationMinutes(nil, &hours)
	require.NoError(t, err)
	assert.Equal(t, 90, got)

	got, err = DurationMinutes(nil, nil)
	require.NoError(t, err)
	assert.Zero(t, got)

	_, err = DurationMinutes(&minutes, &hours)
	assert.ErrorIs(t, err, ErrInvalidParam)

	_, err = DurationMinutes(nil, &oddHours)
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	var ok payload
	require.NoError(t, DecodeJSON(httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Anna"}`)), &ok))
	assert.Equal(t, "Anna", ok.Name)

	var unknown payload
	assert.Error(t, DecodeJSON(httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Anna","age":3}`)), &unknown))

	var twice payload
	assert.Error(t, DecodeJSON(httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"a"}{"name":"b"}`)), &twice))
}

func TestRespondBusy(t *testing.T) {
	w := httptest.NewRecorder()

	RespondBusy(w, "busy")

	assert.Equal(t, 503, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"code":503,"message":"busy"}`, w.Body.String())
}
