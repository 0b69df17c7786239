package floorplan

import "errors"

var (
	// ErrRoomNotFound возвращается, когда запрошенный зал не существует или неактивен
	ErrRoomNotFound = errors.New("floorplan: room not found or inactive")

	// ErrInternal возвращается при ошибках чтения каталога
	ErrInternal = errors.New("floorplan: internal error")
)
