package reassign_tables

import (
	reassignTables "github.com/m04kA/SMC-TableBooking/internal/usecase/reassign_tables"
)

// ReassignTablesRequest HTTP request model
type ReassignTablesRequest struct {
	TableIDs []int64 `json:"tableIds"`
}

// ReassignTablesResponse HTTP response model.
// capacityShortage=true означает, что мест меньше, чем гостей: это не ошибка, а отметка о ручном решении.
type ReassignTablesResponse struct {
	ReservationID    int64   `json:"reservationId"`
	TableIDs         []int64 `json:"tableIds"`
	TotalCapacity    int     `json:"totalCapacity"`
	PartySize        int     `json:"partySize"`
	CapacityShortage bool    `json:"capacityShortage"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reassignTables.Response) *ReassignTablesResponse {
	return &ReassignTablesResponse{
		ReservationID:    resp.ReservationID,
		TableIDs:         resp.TableIDs,
		TotalCapacity:    resp.TotalCapacity,
		PartySize:        resp.PartySize,
		CapacityShortage: resp.CapacityShortage,
	}
}
