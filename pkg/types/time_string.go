package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	minutesPerDay = 24 * 60
	layout        = "15:04"
)

var (
	// ErrInvalidFormat возвращается, если строка не соответствует формату HH:MM
	ErrInvalidFormat = errors.New("invalid time string format")

	// ErrOutOfRange возвращается, если время выходит за пределы суток
	ErrOutOfRange = errors.New("time string out of range")
)

// TimeString время суток в формате "HH:MM".
// Значение "24:00" допустимо только как граница интервала (закрытие в полночь).
type TimeString string

// NewTimeString создает TimeString из time.Time (секунды отбрасываются)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(layout))
}

// NewTimeStringFromString парсит строку "HH:MM" или "HH:MM:SS"
func NewTimeStringFromString(s string) (TimeString, error) {
	minutes, err := parseMinutes(s)
	if err != nil {
		return "", err
	}
	return FromMinutes(minutes)
}

// FromMinutes создает TimeString из количества минут от начала суток
func FromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes > minutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrOutOfRange, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// MustFromMinutes как FromMinutes, но паникует при ошибке. Только для констант и тестов.
func MustFromMinutes(minutes int) TimeString {
	ts, err := FromMinutes(minutes)
	if err != nil {
		panic(err)
	}
	return ts
}

// String возвращает строковое представление
func (t TimeString) String() string {
	return string(t)
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет, что значение является корректным временем начала (00:00-23:59)
func (t TimeString) Validate() error {
	minutes, err := parseMinutes(string(t))
	if err != nil {
		return err
	}
	if minutes >= minutesPerDay {
		return fmt.Errorf("%w: %s is not a valid start time", ErrOutOfRange, t)
	}
	return nil
}

// Minutes возвращает количество минут от начала суток
func (t TimeString) Minutes() (int, error) {
	return parseMinutes(string(t))
}

// AddMinutes прибавляет минуты. Результат не может выйти за пределы суток.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	current, err := parseMinutes(string(t))
	if err != nil {
		return "", err
	}
	return FromMinutes(current + minutes)
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := parseMinutes(string(t))
	b, errB := parseMinutes(string(other))
	return errA == nil && errB == nil && a < b
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return other.IsBefore(t)
}

// On возвращает момент времени t в указанную дату и часовом поясе
func (t TimeString) On(date time.Time, loc *time.Location) (time.Time, error) {
	minutes, err := parseMinutes(string(t))
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).Add(time.Duration(minutes) * time.Minute), nil
}

// Scan реализует sql.Scanner для колонок типа TIME
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("%w: cannot scan %T into TimeString", ErrInvalidFormat, src)
	}
}

func (t *TimeString) scanString(s string) error {
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

func parseMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	if len(parts) == 3 {
		// Секунды из TIME-колонок Postgres игнорируем
		if _, err := strconv.Atoi(strings.SplitN(parts[2], ".", 2)[0]); err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
	}

	total := hours*60 + minutes
	if hours < 0 || total > minutesPerDay {
		return 0, fmt.Errorf("%w: %q", ErrOutOfRange, s)
	}
	return total, nil
}
