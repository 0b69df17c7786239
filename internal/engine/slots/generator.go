// Package slots enumerates candidate start times of a booking day.
package slots

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

var (
	// ErrClosed returned when the restaurant does not operate on the date
	ErrClosed = errors.New("slots: closed on this date")

	// ErrInvalidRequest returned for non-positive step or duration
	ErrInvalidRequest = errors.New("slots: invalid request")
)

// Request input of the generator
type Request struct {
	Date            time.Time // only the calendar date is used
	DurationMinutes int
	Now             time.Time
	Hours           domain.DaySchedule
	Settings        domain.BookingSettings
	Location        *time.Location
}

// Plan is a finite, restartable sequence of start times for one day
type Plan struct {
	date     time.Time
	loc      *time.Location
	first    int // minutes from midnight
	last     int // last start that still fits before close
	step     int
	earliest time.Time
	latest   time.Time // zero = unlimited
}

// Generate builds the plan of a day. Returns ErrClosed on a non-operating day.
func Generate(req Request) (Plan, error) {
	if req.Settings.SlotStepMinutes <= 0 {
		return Plan{}, fmt.Errorf("%w: step must be positive", ErrInvalidRequest)
	}
	if req.DurationMinutes <= 0 {
		return Plan{}, fmt.Errorf("%w: duration must be positive", ErrInvalidRequest)
	}
	if !req.Hours.IsOpen {
		return Plan{}, ErrClosed
	}

	open, err := req.Hours.OpenTime.Minutes()
	if err != nil {
		return Plan{}, fmt.Errorf("%w: open time: %v", ErrInvalidRequest, err)
	}
	closeAt, err := req.Hours.CloseTime.Minutes()
	if err != nil {
		return Plan{}, fmt.Errorf("%w: close time: %v", ErrInvalidRequest, err)
	}

	loc := req.Location
	if loc == nil {
		loc = time.UTC
	}

	earliest, latest := req.Settings.LeadBounds(req.Now)

	return Plan{
		date:     req.Date,
		loc:      loc,
		first:    open,
		last:     closeAt - req.DurationMinutes,
		step:     req.Settings.SlotStepMinutes,
		earliest: earliest,
		latest:   latest,
	}, nil
}

// All yields start times in ascending order. Each call restarts the sequence.
func (p Plan) All() iter.Seq[types.TimeString] {
	return func(yield func(types.TimeString) bool) {
		if p.step <= 0 {
			return
		}
		y, m, d := p.date.Date()
		midnight := time.Date(y, m, d, 0, 0, 0, 0, p.loc)

		for minute := p.first; minute <= p.last; minute += p.step {
			start := midnight.Add(time.Duration(minute) * time.Minute)
			if start.Before(p.earliest) {
				continue
			}
			if !p.latest.IsZero() && start.After(p.latest) {
				// Старты только растут, дальше все будут за границей
				return
			}
			ts, err := types.FromMinutes(minute)
			if err != nil {
				return
			}
			if !yield(ts) {
				return
			}
		}
	}
}

// Slots collects the plan into a slice
func (p Plan) Slots() []types.TimeString {
	return slices.Collect(p.All())
}

// Contains reports whether start is one of the plan's start times
func (p Plan) Contains(start types.TimeString) bool {
	for ts := range p.All() {
		if ts == start {
			return true
		}
	}
	return false
}
