// Package floorplan resolves which rooms and tables a request may use.
package floorplan

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/internal/engine/combination"
	"github.com/m04kA/SMC-TableBooking/internal/engine/ledger"
	catalogRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/catalog"
)

// Floor active rooms and tables eligible for one request
type Floor struct {
	Rooms  []*domain.Room
	Tables []*domain.Table
}

// RoomIDs returns ids of the floor rooms
func (f *Floor) RoomIDs() []int64 {
	ids := make([]int64, len(f.Rooms))
	for i, r := range f.Rooms {
		ids[i] = r.ID
	}
	return ids
}

// Candidates returns free tables per room, skipping busy tables
func (f *Floor) Candidates(busy map[int64]struct{}) []combination.RoomTables {
	byRoom := ledger.GroupByRoom(ledger.FreeTables(f.Tables, busy))

	candidates := make([]combination.RoomTables, 0, len(f.Rooms))
	for _, room := range f.Rooms {
		free := byRoom[room.ID]
		if len(free) == 0 {
			continue
		}
		candidates = append(candidates, combination.RoomTables{Room: room, Free: free})
	}
	return candidates
}

// Service загружает план зала
type Service struct {
	catalog CatalogRepository
}

// NewService создает сервис плана зала
func NewService(catalog CatalogRepository) *Service {
	return &Service{catalog: catalog}
}

// Floor возвращает залы и столы для фильтра.
// Конкретный зал должен существовать и быть активным, иначе ErrRoomNotFound.
func (s *Service) Floor(ctx context.Context, filter domain.RoomFilter) (*Floor, error) {
	var rooms []*domain.Room

	if roomID, ok := filter.RoomID(); ok {
		room, err := s.catalog.GetRoom(ctx, roomID)
		if errors.Is(err, catalogRepo.ErrRoomNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrRoomNotFound, roomID)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: Floor - get room: %v", ErrInternal, err)
		}
		if !room.Active {
			return nil, fmt.Errorf("%w: id=%d", ErrRoomNotFound, roomID)
		}
		rooms = []*domain.Room{room}
	} else {
		active, err := s.catalog.ListActiveRooms(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: Floor - list rooms: %v", ErrInternal, err)
		}
		rooms = active
	}

	floor := &Floor{Rooms: rooms}
	if len(rooms) == 0 {
		return floor, nil
	}

	tables, err := s.catalog.ListActiveTables(ctx, floor.RoomIDs())
	if err != nil {
		return nil, fmt.Errorf("%w: Floor - list tables: %v", ErrInternal, err)
	}
	floor.Tables = tables

	return floor, nil
}
