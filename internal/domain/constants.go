package domain

// Default booking settings values
const (
	DefaultSlotStepMinutes     = 30
	DefaultDurationMinutes     = 120
	DefaultMinLeadMinutes      = 60 // 1 hour
	DefaultMaxLeadDays         = 60 // 0 = unlimited
	DefaultMaxPartySize        = 20
	DefaultRoomPolicy          = RoomPolicyBestFit
	DefaultReservationCategory = "standard"
)

// Business validation constants
const (
	MinPartySize                = 1
	MaxPartySizeLimit           = 20
	MinSlotStepMinutes          = 5
	MaxSlotStepMinutes          = 240
	MinDurationMinutes          = 15
	MaxDurationMinutes          = 720 // 12 hours
	MaxLeadDaysLimit            = 365
	MaxMinLeadMinutes           = 10080 // 1 week
	MaxCustomerNameLength       = 200
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxTablesPerReservation     = 20
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses statuses that hold table claims
// Used by the ledger to compute busy tables
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}

// TerminalStatuses statuses that never hold table claims again
var TerminalStatuses = []ReservationStatus{
	StatusCompleted,
	StatusCancelled,
}
