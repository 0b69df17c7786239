package update_reservation

import (
	"time"

	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// Request модель изменения бронирования. nil = поле не меняется.
type Request struct {
	ReservationID   int64
	StartTime       *types.TimeString
	DurationMinutes *int
	PartySize       *int
}

// Response модель изменённого бронирования
type Response struct {
	ID               int64
	Date             time.Time
	StartTime        types.TimeString
	DurationMinutes  int
	PartySize        int
	TableIDs         []int64
	TotalCapacity    int
	CapacityShortage bool
	Reseated         bool // столы подобраны заново
}
