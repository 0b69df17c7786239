package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// ErrInvalidParam возвращается при некорректном параметре пути или запроса
var ErrInvalidParam = errors.New("handlers: invalid parameter")

// PathID извлекает положительный int64 из переменной пути
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidParam
	}
	return id, nil
}

// ParseDate разбирает дату "YYYY-MM-DD"
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrInvalidParam
	}
	date, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		return time.Time{}, ErrInvalidParam
	}
	return date, nil
}

// QueryInt разбирает необязательный целочисленный параметр запроса
func QueryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, ErrInvalidParam
	}
	return &v, nil
}

// QueryInt64 разбирает необязательный параметр-идентификатор
func QueryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, ErrInvalidParam
	}
	return &v, nil
}

// QueryBool разбирает необязательный логический параметр (по умолчанию false)
func QueryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, ErrInvalidParam
	}
	return v, nil
}

// DurationMinutes объединяет длительность в минутах и в часах (например, 1.5).
// Указать можно только одно из значений, 0 = длительность по умолчанию.
func DurationMinutes(minutes *int, hours *float64) (int, error) {
	switch {
	case minutes != nil && hours != nil:
		return 0, ErrInvalidParam
	case minutes != nil:
		return *minutes, nil
	case hours != nil:
		total := *hours * 60
		if total != float64(int(total)) {
			return 0, ErrInvalidParam
		}
		return int(total), nil
	default:
		return 0, nil
	}
}

// QueryFloat разбирает необязательный дробный параметр запроса
func QueryFloat(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, ErrInvalidParam
	}
	return &v, nil
}
