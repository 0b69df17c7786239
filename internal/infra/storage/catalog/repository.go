package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TableBooking/pkg/psqlbuilder"
)

var roomColumns = []string{
	"id",
	"name",
	"is_active",
	"area_type",
	"priority",
	"is_fallback_area",
	"fallback_for",
	"display_order",
}

var tableColumns = []string{
	"id",
	"room_id",
	"name",
	"capacity",
	"is_combinable",
	"is_active",
}

// Repository репозиторий каталога залов и столов (только чтение)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListActiveRooms получает активные залы в порядке приоритета
func (r *Repository) ListActiveRooms(ctx context.Context) ([]*domain.Room, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(roomColumns...).
		From("rooms").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("priority ASC", "display_order ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveRooms - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveRooms - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	rooms := make([]*domain.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveRooms - scan row: %v", ErrScanRow, err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveRooms - rows error: %v", ErrScanRow, err)
	}

	return rooms, nil
}

// GetRoom получает зал по ID (в том числе неактивный)
func (r *Repository) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(roomColumns...).
		From("rooms").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetRoom - build select query: %v", ErrBuildQuery, err)
	}

	room, err := scanRoom(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetRoom - scan room: %v", ErrScanRow, err)
	}

	return room, nil
}

// ListActiveTables получает активные столы указанных залов.
// roomIDs == nil означает все залы.
func (r *Repository) ListActiveTables(ctx context.Context, roomIDs []int64) ([]*domain.Table, error) {
	selectBuilder := psqlbuilder.Select(tableColumns...).
		From("restaurant_tables").
		Where(squirrel.Eq{"is_active": true})

	if roomIDs != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"room_id": roomIDs})
	}

	return r.queryTables(ctx, "ListActiveTables", selectBuilder.OrderBy("id ASC"))
}

// GetTablesByIDs получает столы по ID, включая неактивные.
// Отсутствующие ID просто не попадают в результат.
func (r *Repository) GetTablesByIDs(ctx context.Context, ids []int64) ([]*domain.Table, error) {
	selectBuilder := psqlbuilder.Select(tableColumns...).
		From("restaurant_tables").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC")

	return r.queryTables(ctx, "GetTablesByIDs", selectBuilder)
}

func (r *Repository) queryTables(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.Table, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	tables := make([]*domain.Table, 0)
	for rows.Next() {
		var table domain.Table
		if err := rows.Scan(
			&table.ID,
			&table.RoomID,
			&table.Name,
			&table.Capacity,
			&table.Combinable,
			&table.Active,
		); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		tables = append(tables, &table)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return tables, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRoom(row rowScanner) (*domain.Room, error) {
	var (
		room        domain.Room
		fallbackFor sql.NullString
	)

	err := row.Scan(
		&room.ID,
		&room.Name,
		&room.Active,
		&room.AreaType,
		&room.Priority,
		&room.IsFallbackArea,
		&fallbackFor,
		&room.DisplayOrder,
	)
	if err != nil {
		return nil, err
	}

	if fallbackFor.Valid {
		area := domain.AreaType(fallbackFor.String)
		room.FallbackFor = &area
	}

	return &room, nil
}
