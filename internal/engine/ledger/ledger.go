// Package ledger computes busy and free tables from active claims.
package ledger

import (
	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// BusyTables returns ids of tables whose active claims overlap the window.
// Claims of excludeReservationID are ignored (0 = none), so a reservation
// does not conflict with itself when it is edited or reassigned.
func BusyTables(claims []domain.ClaimWindow, window domain.Window, excludeReservationID int64) map[int64]struct{} {
	busy := make(map[int64]struct{})
	for _, claim := range claims {
		if excludeReservationID != 0 && claim.ReservationID == excludeReservationID {
			continue
		}
		claimWindow, err := claim.Window()
		if err != nil {
			// Битая запись не должна освобождать стол
			busy[claim.TableID] = struct{}{}
			continue
		}
		if claimWindow.Overlaps(window) {
			busy[claim.TableID] = struct{}{}
		}
	}
	return busy
}

// FreeTables returns active tables that are not busy, preserving input order
func FreeTables(tables []*domain.Table, busy map[int64]struct{}) []*domain.Table {
	free := make([]*domain.Table, 0, len(tables))
	for _, t := range tables {
		if !t.Active {
			continue
		}
		if _, taken := busy[t.ID]; taken {
			continue
		}
		free = append(free, t)
	}
	return free
}

// AllFree reports whether none of tableIDs is busy
func AllFree(tableIDs []int64, busy map[int64]struct{}) bool {
	for _, id := range tableIDs {
		if _, taken := busy[id]; taken {
			return false
		}
	}
	return true
}

// GroupByRoom splits tables by room id
func GroupByRoom(tables []*domain.Table) map[int64][]*domain.Table {
	byRoom := make(map[int64][]*domain.Table)
	for _, t := range tables {
		byRoom[t.RoomID] = append(byRoom[t.RoomID], t)
	}
	return byRoom
}
