package floorplan

import (
	"context"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// CatalogRepository интерфейс каталога залов и столов
type CatalogRepository interface {
	ListActiveRooms(ctx context.Context) ([]*domain.Room, error)
	GetRoom(ctx context.Context, id int64) (*domain.Room, error)
	ListActiveTables(ctx context.Context, roomIDs []int64) ([]*domain.Table, error)
}
