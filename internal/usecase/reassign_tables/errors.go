package reassign_tables

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reassign_tables: invalid input data")

	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reassign_tables: reservation not found")

	// ErrNotActive возвращается для завершённых и отменённых бронирований
	ErrNotActive = errors.New("reassign_tables: reservation is not active")

	// ErrTableUnavailable возвращается, если стол не существует или неактивен
	ErrTableUnavailable = errors.New("reassign_tables: table not found or inactive")

	// ErrNotCombinable возвращается, если среди нескольких столов есть несовмещаемый
	ErrNotCombinable = errors.New("reassign_tables: multi-table assignment requires combinable tables")

	// ErrConflictWithOtherClaims возвращается, если столы заняты другими бронированиями в это время
	ErrConflictWithOtherClaims = errors.New("reassign_tables: tables are claimed by other reservations")

	// ErrBusy возвращается, когда критическая секция занята дольше допустимого
	ErrBusy = errors.New("reassign_tables: booking is busy, retry later")

	// ErrConflict возвращается при конфликте сериализации транзакции
	ErrConflict = errors.New("reassign_tables: concurrent modification")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reassign_tables: internal error")
)
