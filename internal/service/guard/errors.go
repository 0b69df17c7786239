package guard

import "errors"

var (
	// ErrBusy возвращается, если критическую секцию не удалось занять вовремя. Запрос можно повторить.
	ErrBusy = errors.New("guard: booking is busy, retry later")

	// ErrConflict возвращается, если транзакция проиграла гонку параллельной транзакции
	ErrConflict = errors.New("guard: concurrent modification")
)
