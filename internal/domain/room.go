package domain

import "cmp"

// AreaType classifies a room (indoor hall, terrace, shared space)
type AreaType string

const (
	AreaIndoor  AreaType = "indoor"
	AreaOutdoor AreaType = "outdoor"
	AreaShared  AreaType = "shared"
)

// IsValid returns true for known area types
func (a AreaType) IsValid() bool {
	switch a {
	case AreaIndoor, AreaOutdoor, AreaShared:
		return true
	default:
		return false
	}
}

// Room is a group of tables. Rooms are maintained by staff, the engine only reads active rooms.
type Room struct {
	ID             int64
	Name           string
	Active         bool
	AreaType       AreaType
	Priority       int
	IsFallbackArea bool
	FallbackFor    *AreaType // area type this room absorbs overflow for; nil = any area
	DisplayOrder   int
}

// BacksUp returns true if the room is a fallback area for the given area type
func (r *Room) BacksUp(area AreaType) bool {
	if !r.IsFallbackArea {
		return false
	}
	return r.FallbackFor == nil || *r.FallbackFor == area
}

// CompareRooms orders rooms by priority, then display order, then id
func CompareRooms(a, b *Room) int {
	if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
		return c
	}
	if c := cmp.Compare(a.DisplayOrder, b.DisplayOrder); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Table is a physical table inside a room
type Table struct {
	ID         int64
	RoomID     int64
	Name       string
	Capacity   int
	Combinable bool
	Active     bool
}

// TotalCapacity returns the sum of capacities
func TotalCapacity(tables []*Table) int {
	total := 0
	for _, t := range tables {
		total += t.Capacity
	}
	return total
}
