package reservations

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservations: reservation not found")

	// ErrAlreadyTerminal возвращается при попытке изменить завершённое или отменённое бронирование
	ErrAlreadyTerminal = errors.New("reservations: reservation is already completed or cancelled")

	// ErrInvalidTransition возвращается при недопустимой смене статуса
	ErrInvalidTransition = errors.New("reservations: status transition is not allowed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reservations: invalid input data")

	// ErrBusy возвращается, когда критическая секция занята дольше допустимого
	ErrBusy = errors.New("reservations: booking is busy, retry later")

	// ErrConflict возвращается при конфликте сериализации транзакции
	ErrConflict = errors.New("reservations: concurrent modification")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reservations: internal error")
)
