package domain

import (
	"slices"
	"time"

	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// ReservationStatus represents the lifecycle status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
)

// ParseReservationStatus converts a raw string into a known status
func ParseReservationStatus(s string) (ReservationStatus, bool) {
	status := ReservationStatus(s)
	switch status {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return status, true
	default:
		return "", false
	}
}

// IsActive returns true if reservations with this status hold their tables
func (s ReservationStatus) IsActive() bool {
	return slices.Contains(ActiveStatuses, s)
}

// IsTerminal returns true for completed and cancelled
func (s ReservationStatus) IsTerminal() bool {
	return slices.Contains(TerminalStatuses, s)
}

// CanTransitionTo reports whether a staff status edit is allowed.
// Terminal statuses never reopen, so a status edit can not create an overlap.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCompleted || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// Customer holds contact details. Opaque to the engine.
type Customer struct {
	Name  string
	Phone *string
	Email *string
	Notes *string
}

// Reservation is a booking of one or more tables for a time window
type Reservation struct {
	ID              int64
	PartySize       int
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	RoomFilter      RoomFilter // room requested by the guest, not necessarily the room of the tables
	Status          ReservationStatus
	Category        string
	Customer        Customer

	TableIDs         []int64
	CapacityShortage bool // staff override assigned fewer seats than the party size

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the reservation holds its tables
func (r *Reservation) IsActive() bool {
	return r.Status.IsActive()
}

// CanBeCancelled returns true if the reservation can be cancelled
func (r *Reservation) CanBeCancelled() bool {
	return r.Status.IsActive()
}

// Window returns the reservation time window
func (r *Reservation) Window() (Window, error) {
	return NewWindow(r.StartTime, r.DurationMinutes)
}

// TableClaim binds a table to a reservation. Claims of cancelled reservations
// are kept for history and filtered out by status.
type TableClaim struct {
	ReservationID int64
	TableID       int64
}

// ClaimWindow is an active claim with its owning reservation window
type ClaimWindow struct {
	ReservationID   int64
	TableID         int64
	RoomID          int64
	StartTime       types.TimeString
	DurationMinutes int
}

// Window returns the claim time window
func (c ClaimWindow) Window() (Window, error) {
	return NewWindow(c.StartTime, c.DurationMinutes)
}

// ReservationsFilter filter for staff listings
type ReservationsFilter struct {
	Date            time.Time
	RoomID          *int64 // filter by claimed table room
	Status          *ReservationStatus
	IncludeInactive bool // include completed and cancelled reservations
}

// LockKey returns the critical-section key of a reservation date.
// Every booking decision of one date is serialized on this key.
func LockKey(date time.Time) string {
	return "reservation:" + date.Format(DateFormat)
}
