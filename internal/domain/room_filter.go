package domain

import "fmt"

type roomFilterKind uint8

const (
	roomFilterAny roomFilterKind = iota
	roomFilterSpecific
)

// RoomFilter is an explicit choice between a specific room and "any room".
// The zero value means any room.
type RoomFilter struct {
	kind   roomFilterKind
	roomID int64
}

// AnyRoom searches every eligible room
func AnyRoom() RoomFilter {
	return RoomFilter{kind: roomFilterAny}
}

// SpecificRoom restricts the search to one room
func SpecificRoom(roomID int64) RoomFilter {
	return RoomFilter{kind: roomFilterSpecific, roomID: roomID}
}

// RoomFilterFromPtr converts a nullable room id (storage, API) into a filter
func RoomFilterFromPtr(roomID *int64) RoomFilter {
	if roomID == nil {
		return AnyRoom()
	}
	return SpecificRoom(*roomID)
}

// IsAny returns true for the "any room" choice
func (f RoomFilter) IsAny() bool {
	return f.kind == roomFilterAny
}

// RoomID returns the room id of a specific filter
func (f RoomFilter) RoomID() (int64, bool) {
	if f.kind != roomFilterSpecific {
		return 0, false
	}
	return f.roomID, true
}

// Ptr returns the nullable representation used by storage
func (f RoomFilter) Ptr() *int64 {
	id, ok := f.RoomID()
	if !ok {
		return nil
	}
	return &id
}

func (f RoomFilter) String() string {
	if id, ok := f.RoomID(); ok {
		return fmt.Sprintf("room=%d", id)
	}
	return "any"
}
