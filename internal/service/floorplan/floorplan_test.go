package floorplan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/internal/infra/storage/memory"
)

func newFloorStore() *memory.Store {
	s := memory.NewStore()
	s.PutRoom(domain.Room{ID: 1, Name: "Main", Active: true, AreaType: domain.AreaIndoor, Priority: 1})
	s.PutRoom(domain.Room{ID: 2, Name: "Terrace", Active: true, AreaType: domain.AreaOutdoor, Priority: 2})
	s.PutRoom(domain.Room{ID: 3, Name: "Renovation", Active: false, AreaType: domain.AreaIndoor, Priority: 3})
	s.PutTable(domain.Table{ID: 1, RoomID: 1, Capacity: 4, Combinable: true, Active: true})
	s.PutTable(domain.Table{ID: 2, RoomID: 1, Capacity: 2, Combinable: true, Active: true})
	s.PutTable(domain.Table{ID: 3, RoomID: 2, Capacity: 6, Active: true})
	s.PutTable(domain.Table{ID: 4, RoomID: 3, Capacity: 6, Active: true})
	return s
}

func TestService_FloorAnyRoom(t *testing.T) {
	svc := NewService(newFloorStore())

	floor, err := svc.Floor(context.Background(), domain.AnyRoom())

	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, floor.RoomIDs())
	assert.Len(t, floor.Tables, 3)
}

func TestService_FloorSpecificRoom(t *testing.T) {
	svc := NewService(newFloorStore())

	floor, err := svc.Floor(context.Background(), domain.SpecificRoom(2))

	require.NoError(t, err)
	assert.Equal(t, []int64{2}, floor.RoomIDs())
	require.Len(t, floor.Tables, 1)
	assert.Equal(t, int64(3), floor.Tables[0].ID)
}

func TestService_FloorUnknownOrInactiveRoom(t *testing.T) {
	svc := NewService(newFloorStore())

	_, err := svc.Floor(context.Background(), domain.SpecificRoom(42))
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = svc.Floor(context.Background(), domain.SpecificRoom(3))
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

// MockCatalogRepository мок каталога с ошибкой
type MockCatalogRepository struct {
	err error
}

func (m *MockCatalogRepository) ListActiveRooms(ctx context.Context) ([]*domain.Room, error) {
	return nil, m.err
}

func (m *MockCatalogRepository) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	return nil, m.err
}

func (m *MockCatalogRepository) ListActiveTables(ctx context.Context, roomIDs []int64) ([]*domain.Table, error) {
	return nil, m.err
}

func TestService_FloorRepositoryError(t *testing.T) {
	svc := NewService(&MockCatalogRepository{err: errors.New("timeout")})

	_, err := svc.Floor(context.Background(), domain.AnyRoom())
	assert.ErrorIs(t, err, ErrInternal)

	_, err = svc.Floor(context.Background(), domain.SpecificRoom(1))
	assert.ErrorIs(t, err, ErrInternal)
}

func TestFloor_Candidates(t *testing.T) {
	svc := NewService(newFloorStore())
	floor, err := svc.Floor(context.Background(), domain.AnyRoom())
	require.NoError(t, err)

	candidates := floor.Candidates(map[int64]struct{}{3: {}})

	require.Len(t, candidates, 1)
	assert.Equal(t, int64(1), candidates[0].Room.ID)
	assert.Len(t, candidates[0].Free, 2)
}
