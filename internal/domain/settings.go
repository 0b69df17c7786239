package domain

import "time"

// RoomPolicy decides how "any room" requests pick between feasible rooms
type RoomPolicy string

const (
	// RoomPolicyBestFit compares excess seats and table count across rooms, then room order
	RoomPolicyBestFit RoomPolicy = "best_fit"
	// RoomPolicyFirstFit takes the first feasible room in priority order
	RoomPolicyFirstFit RoomPolicy = "first_fit"
)

// IsValid returns true for known policies
func (p RoomPolicy) IsValid() bool {
	return p == RoomPolicyBestFit || p == RoomPolicyFirstFit
}

// BookingSettings is a snapshot of restaurant booking settings.
// It is read once per request and passed explicitly to the engine.
type BookingSettings struct {
	SlotStepMinutes        int
	DefaultDurationMinutes int
	MinLeadMinutes         int
	MaxLeadDays            int // 0 = unlimited
	MaxPartySize           int
	RoomPolicy             RoomPolicy
	UpdatedAt              time.Time
}

// DefaultBookingSettings returns built-in defaults
func DefaultBookingSettings() BookingSettings {
	return BookingSettings{
		SlotStepMinutes:        DefaultSlotStepMinutes,
		DefaultDurationMinutes: DefaultDurationMinutes,
		MinLeadMinutes:         DefaultMinLeadMinutes,
		MaxLeadDays:            DefaultMaxLeadDays,
		MaxPartySize:           DefaultMaxPartySize,
		RoomPolicy:             DefaultRoomPolicy,
	}
}

// HasMaxLead returns true if there's a limit on how far in advance bookings can be made
func (s BookingSettings) HasMaxLead() bool {
	return s.MaxLeadDays > 0
}

// MinLead returns the minimum lead time
func (s BookingSettings) MinLead() time.Duration {
	return time.Duration(s.MinLeadMinutes) * time.Minute
}

// MaxLead returns the maximum lead time (zero when unlimited)
func (s BookingSettings) MaxLead() time.Duration {
	return time.Duration(s.MaxLeadDays) * 24 * time.Hour
}

// LeadBounds returns the earliest and latest allowed start for a booking made at now.
// latest is zero when there is no upper bound.
func (s BookingSettings) LeadBounds(now time.Time) (earliest, latest time.Time) {
	earliest = now.Add(s.MinLead())
	if s.HasMaxLead() {
		latest = now.Add(s.MaxLead())
	}
	return earliest, latest
}

// WithinLead returns true if start lies in [now+minLead, now+maxLead]
func (s BookingSettings) WithinLead(start, now time.Time) bool {
	earliest, latest := s.LeadBounds(now)
	if start.Before(earliest) {
		return false
	}
	return latest.IsZero() || !start.After(latest)
}
