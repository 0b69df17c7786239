package models

import (
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/pkg/ptr"
)

// Request модели

// ListReservationsRequest запрос на список бронирований за дату (для персонала)
type ListReservationsRequest struct {
	Date            time.Time `json:"date"`
	RoomID          *int64    `json:"roomId,omitempty"`          // Фильтр по залу занятых столов
	Status          *string   `json:"status,omitempty"`          // Фильтр по статусу
	IncludeInactive bool      `json:"includeInactive,omitempty"` // Включить завершённые и отменённые
}

// CancelRequest запрос на отмену бронирования
type CancelRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// UpdateStatusRequest запрос на смену статуса
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID               int64   `json:"id"`
	Date             string  `json:"date"`      // "2025-10-15"
	StartTime        string  `json:"startTime"` // "19:00"
	EndTime          string  `json:"endTime"`   // "21:00"
	DurationMinutes  int     `json:"durationMinutes"`
	PartySize        int     `json:"partySize"`
	RequestedRoomID  *int64  `json:"requestedRoomId,omitempty"`
	TableIDs         []int64 `json:"tableIds"`
	Status           string  `json:"status"`
	Category         string  `json:"category"`
	CapacityShortage bool    `json:"capacityShortage"`

	CustomerName  string  `json:"customerName"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	Notes         *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Date         string                `json:"date"`
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:                 r.ID,
		Date:               r.Date.Format(domain.DateFormat),
		StartTime:          r.StartTime.String(),
		DurationMinutes:    r.DurationMinutes,
		PartySize:          r.PartySize,
		RequestedRoomID:    r.RoomFilter.Ptr(),
		TableIDs:           r.TableIDs,
		Status:             string(r.Status),
		Category:           r.Category,
		CapacityShortage:   r.CapacityShortage,
		CustomerName:       r.Customer.Name,
		CustomerPhone:      r.Customer.Phone,
		CustomerEmail:      r.Customer.Email,
		Notes:              r.Customer.Notes,
		CancellationReason: r.CancellationReason,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	if resp.TableIDs == nil {
		resp.TableIDs = []int64{}
	}

	// Конец окна может быть "24:00", поэтому считается через минуты
	if end, err := r.StartTime.AddMinutes(r.DurationMinutes); err == nil {
		resp.EndTime = end.String()
	}

	if r.CancelledAt != nil {
		resp.CancelledAt = ptr.Ptr(r.CancelledAt.Format(time.RFC3339))
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(date time.Time, list []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Date:         date.Format(domain.DateFormat),
		Reservations: make([]ReservationResponse, 0, len(list)),
	}
	for _, r := range list {
		resp.Reservations = append(resp.Reservations, *FromDomainReservation(r))
	}
	return resp
}
