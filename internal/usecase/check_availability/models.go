package check_availability

import (
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// Request модель запроса доступности
type Request struct {
	Date            time.Time         // Дата (без времени)
	PartySize       int               // Количество гостей
	DurationMinutes int               // Длительность, 0 = значение из настроек
	RoomFilter      domain.RoomFilter // Конкретный зал или любой
}

// Response модель ответа со свободными слотами
type Response struct {
	Date            time.Time
	PartySize       int
	DurationMinutes int
	Closed          bool // ресторан не работает в эту дату
	Slots           []Slot
}

// Slot время начала и комбинация столов, которая будет занята
type Slot struct {
	StartTime     types.TimeString
	RoomID        int64
	TableIDs      []int64
	TotalCapacity int
}
