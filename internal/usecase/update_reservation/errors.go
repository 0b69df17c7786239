package update_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_reservation: invalid input data")

	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("update_reservation: reservation not found")

	// ErrNotActive возвращается для завершённых и отменённых бронирований
	ErrNotActive = errors.New("update_reservation: reservation is not active")

	// ErrNoAvailability возвращается, если под новые параметры нет свободных столов
	ErrNoAvailability = errors.New("update_reservation: no available tables")

	// ErrBusy возвращается, когда критическая секция занята дольше допустимого
	ErrBusy = errors.New("update_reservation: booking is busy, retry later")

	// ErrConflict возвращается при конфликте сериализации транзакции
	ErrConflict = errors.New("update_reservation: concurrent modification")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_reservation: internal error")
)
