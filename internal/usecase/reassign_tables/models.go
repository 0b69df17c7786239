package reassign_tables

// Request модель ручного переназначения столов
type Request struct {
	ReservationID int64
	TableIDs      []int64
}

// Response результат переназначения.
// CapacityShortage не ошибка: персонал сознательно посадил гостей за меньшее число мест.
type Response struct {
	ReservationID    int64
	TableIDs         []int64
	TotalCapacity    int
	PartySize        int
	CapacityShortage bool
}
