package domain

import (
	"time"

	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// DaySchedule opening hours of one day. Close may be "24:00".
type DaySchedule struct {
	IsOpen    bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
}

// Closed returns a non-operating day
func Closed() DaySchedule {
	return DaySchedule{IsOpen: false}
}

// Fits returns true if the window lies within opening hours
func (d DaySchedule) Fits(w Window) bool {
	if !d.IsOpen {
		return false
	}
	open, err := d.OpenTime.Minutes()
	if err != nil {
		return false
	}
	closeAt, err := d.CloseTime.Minutes()
	if err != nil {
		return false
	}
	return w.Start >= open && w.End <= closeAt
}

// WeeklyHours regular opening hours per weekday
type WeeklyHours map[time.Weekday]DaySchedule

// SpecialDay overrides the weekly schedule on one date (holiday closure, private event, short day)
type SpecialDay struct {
	Date     time.Time
	Schedule DaySchedule
	Reason   *string
}
