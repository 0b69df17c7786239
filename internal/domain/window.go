package domain

import (
	"fmt"

	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// Window is a half-open time interval [Start, End) within one day, in minutes
type Window struct {
	Start int
	End   int
}

// NewWindow builds a window from a start time and a duration
func NewWindow(start types.TimeString, durationMinutes int) (Window, error) {
	from, err := start.Minutes()
	if err != nil {
		return Window{}, err
	}
	if durationMinutes <= 0 {
		return Window{}, fmt.Errorf("window: duration must be positive, got %d", durationMinutes)
	}
	return Window{Start: from, End: from + durationMinutes}, nil
}

// Overlaps uses half-open interval overlap: touching windows do not overlap
func (w Window) Overlaps(other Window) bool {
	return w.Start < other.End && other.Start < w.End
}

func (w Window) String() string {
	return fmt.Sprintf("[%02d:%02d-%02d:%02d)", w.Start/60, w.Start%60, w.End/60, w.End%60)
}
