package domain

import "github.com/m04kA/SMC-TableBooking/pkg/types"

// Combination is a set of tables chosen for a party
type Combination struct {
	RoomID        int64
	TableIDs      []int64 // sorted ascending
	TotalCapacity int
	Excess        int
}

// Size returns the number of tables
func (c Combination) Size() int {
	return len(c.TableIDs)
}

// AvailableSlot is a start time with the combination that would be used
type AvailableSlot struct {
	StartTime     types.TimeString
	RoomID        int64
	TableIDs      []int64
	TotalCapacity int
}
