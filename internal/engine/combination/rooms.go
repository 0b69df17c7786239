package combination

import (
	"errors"
	"slices"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// ErrNoAvailability returned when no permitted room has a feasible combination
var ErrNoAvailability = errors.New("combination: no available table combination")

// RoomTables free tables of one room
type RoomTables struct {
	Room *domain.Room
	Free []*domain.Table
}

// SearchRooms picks a room and a combination for partySize.
//
// Regular rooms are tried in (priority, display order, id) order. Fallback
// rooms are tried only when no regular room fits, and only those backing
// an area type whose regular rooms had no fit. With RoomPolicyFirstFit the
// first feasible room wins; with RoomPolicyBestFit feasible rooms are ranked
// by excess seats and table count, then by room order.
func SearchRooms(partySize int, rooms []RoomTables, policy domain.RoomPolicy) (domain.Combination, error) {
	primary, fallback := splitRooms(rooms)

	if comb, ok := searchGroup(partySize, primary, policy); ok {
		return comb, nil
	}

	eligible := fallback
	if len(primary) > 0 {
		failedAreas := make([]domain.AreaType, 0, len(primary))
		for _, rt := range primary {
			if !slices.Contains(failedAreas, rt.Room.AreaType) {
				failedAreas = append(failedAreas, rt.Room.AreaType)
			}
		}
		eligible = slices.DeleteFunc(slices.Clone(fallback), func(rt RoomTables) bool {
			return !slices.ContainsFunc(failedAreas, rt.Room.BacksUp)
		})
	}

	if comb, ok := searchGroup(partySize, eligible, policy); ok {
		return comb, nil
	}
	return domain.Combination{}, ErrNoAvailability
}

func searchGroup(partySize int, rooms []RoomTables, policy domain.RoomPolicy) (domain.Combination, bool) {
	var (
		best  domain.Combination
		found bool
	)
	for _, rt := range rooms {
		comb, ok := Search(partySize, rt.Free)
		if !ok {
			continue
		}
		comb.RoomID = rt.Room.ID
		if policy == domain.RoomPolicyFirstFit {
			return comb, true
		}
		// Комнаты уже отсортированы, при равенстве остаётся более приоритетная
		if !found || compareAcrossRooms(comb, best) < 0 {
			best = comb
			found = true
		}
	}
	return best, found
}

// compareAcrossRooms ranks by excess and table count only; room order breaks ties
func compareAcrossRooms(a, b domain.Combination) int {
	if a.Excess != b.Excess {
		return a.Excess - b.Excess
	}
	return a.Size() - b.Size()
}

func splitRooms(rooms []RoomTables) (primary, fallback []RoomTables) {
	for _, rt := range rooms {
		if rt.Room == nil || !rt.Room.Active {
			continue
		}
		if rt.Room.IsFallbackArea {
			fallback = append(fallback, rt)
		} else {
			primary = append(primary, rt)
		}
	}
	byOrder := func(a, b RoomTables) int {
		return domain.CompareRooms(a.Room, b.Room)
	}
	slices.SortStableFunc(primary, byOrder)
	slices.SortStableFunc(fallback, byOrder)
	return primary, fallback
}
