package create_reservation

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TableBooking/internal/domain"
	createReservation "github.com/m04kA/SMC-TableBooking/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

var (
	errInvalidDate     = errors.New("invalid date")
	errInvalidTime     = errors.New("invalid start time")
	errInvalidDuration = errors.New("invalid duration")
	errInvalidStatus   = errors.New("invalid status")
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	Date            string   `json:"date"`      // "2025-10-15"
	StartTime       string   `json:"startTime"` // "19:00"
	PartySize       int      `json:"partySize"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	DurationHours   *float64 `json:"durationHours,omitempty"`
	RoomID          *int64   `json:"roomId,omitempty"` // null = любой зал
	Status          *string  `json:"status,omitempty"` // pending | confirmed
	Category        string   `json:"category,omitempty"`
	CustomerName    string   `json:"customerName"`
	CustomerPhone   *string  `json:"customerPhone,omitempty"`
	CustomerEmail   *string  `json:"customerEmail,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID              int64   `json:"id"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	PartySize       int     `json:"partySize"`
	RoomID          int64   `json:"roomId"`
	TableIDs        []int64 `json:"tableIds"`
	TotalCapacity   int     `json:"totalCapacity"`
	Status          string  `json:"status"`
	Category        string  `json:"category"`
	CustomerName    string  `json:"customerName"`
	CustomerPhone   *string `json:"customerPhone,omitempty"`
	CustomerEmail   *string `json:"customerEmail,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest() (*createReservation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, errInvalidDate
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, errInvalidTime
	}

	duration, err := handlers.DurationMinutes(r.DurationMinutes, r.DurationHours)
	if err != nil {
		return nil, errInvalidDuration
	}

	var status domain.ReservationStatus
	if r.Status != nil {
		parsed, ok := domain.ParseReservationStatus(*r.Status)
		if !ok {
			return nil, errInvalidStatus
		}
		status = parsed
	}

	return &createReservation.Request{
		Date:            date,
		StartTime:       startTime,
		PartySize:       r.PartySize,
		DurationMinutes: duration,
		RoomFilter:      domain.RoomFilterFromPtr(r.RoomID),
		Status:          status,
		Category:        r.Category,
		Customer: domain.Customer{
			Name:  r.CustomerName,
			Phone: r.CustomerPhone,
			Email: r.CustomerEmail,
			Notes: r.Notes,
		},
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:              resp.ID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		PartySize:       resp.PartySize,
		RoomID:          resp.RoomID,
		TableIDs:        resp.TableIDs,
		TotalCapacity:   resp.TotalCapacity,
		Status:          string(resp.Status),
		Category:        resp.Category,
		CustomerName:    resp.Customer.Name,
		CustomerPhone:   resp.Customer.Phone,
		CustomerEmail:   resp.Customer.Email,
		Notes:           resp.Customer.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
