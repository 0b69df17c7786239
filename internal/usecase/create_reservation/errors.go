package create_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных (без побочных эффектов)
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrNoAvailability возвращается, когда ни в одном допустимом зале нет подходящей комбинации столов
	ErrNoAvailability = errors.New("create_reservation: no available tables")

	// ErrConflict возвращается, когда столы заняли параллельно и повторный поиск не помог
	ErrConflict = errors.New("create_reservation: tables were taken concurrently")

	// ErrBusy возвращается, когда критическая секция занята дольше допустимого. Запрос можно повторить.
	ErrBusy = errors.New("create_reservation: booking is busy, retry later")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)

// errTablesTaken внутренний сигнал: выбранные столы заняты к моменту фиксации
var errTablesTaken = errors.New("create_reservation: chosen tables are taken")
