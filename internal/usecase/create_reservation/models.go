package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// Request модель запроса на бронирование
type Request struct {
	Date            time.Time                // Дата (без времени)
	StartTime       types.TimeString         // Время начала, "HH:MM"
	PartySize       int                      // Количество гостей
	DurationMinutes int                      // Длительность, 0 = значение из настроек
	RoomFilter      domain.RoomFilter        // Конкретный зал или любой
	Status          domain.ReservationStatus // pending или confirmed, пусто = confirmed
	Category        string                   // Категория, пусто = standard
	Customer        domain.Customer          // Контакты гостя
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	PartySize       int
	RoomID          int64
	TableIDs        []int64
	TotalCapacity   int
	Status          domain.ReservationStatus
	Category        string
	Customer        domain.Customer
	Retried         bool // столы выбраны повторно после конфликта
	CreatedAt       time.Time
}
