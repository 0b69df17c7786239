package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TableBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

var reservationColumns = []string{
	"id",
	"party_size",
	"reservation_date",
	"start_time",
	"duration_minutes",
	"requested_room_id",
	"status",
	"category",
	"customer_name",
	"customer_phone",
	"customer_email",
	"notes",
	"capacity_shortage",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями и занятыми столами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateReservation создает бронирование и занимает его столы.
// Должен вызываться внутри транзакции, иначе бронирование может остаться без столов.
func (r *Repository) CreateReservation(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"party_size",
			"reservation_date",
			"start_time",
			"duration_minutes",
			"requested_room_id",
			"status",
			"category",
			"customer_name",
			"customer_phone",
			"customer_email",
			"notes",
			"capacity_shortage",
		).
		Values(
			res.PartySize,
			dateParam(res.Date),
			res.StartTime,
			res.DurationMinutes,
			res.RoomFilter.Ptr(),
			res.Status,
			res.Category,
			res.Customer.Name,
			res.Customer.Phone,
			res.Customer.Email,
			res.Customer.Notes,
			res.CapacityShortage,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateReservation - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateReservation - execute insert: %w", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	if err := r.insertClaims(ctx, executor, res.ID, res.TableIDs); err != nil {
		return nil, err
	}
	res.TableIDs = sortedIDs(res.TableIDs)

	return res, nil
}

// GetReservation получает бронирование по ID вместе со столами.
// Внутри транзакции строка бронирования блокируется (FOR UPDATE).
func (r *Repository) GetReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetReservation - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetReservation - scan reservation: %w", ErrScanRow, err)
	}

	claims, err := r.loadTableIDs(ctx, executor, []int64{res.ID})
	if err != nil {
		return nil, err
	}
	res.TableIDs = claims[res.ID]

	return res, nil
}

// ListReservations получает бронирования на дату с фильтрацией
// Поддерживает фильтрацию по:
// - Залу, в котором заняты столы (RoomID) - опционально
// - Статусу (Status) - опционально
// - Включению завершённых и отменённых бронирований (IncludeInactive)
func (r *Repository) ListReservations(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"reservation_date": dateParam(filter.Date)})

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": activeStatusStrings()})
	}

	// Фильтрация по залу занятых столов
	if filter.RoomID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr(
			"EXISTS (SELECT 1 FROM reservation_tables rt JOIN restaurant_tables t ON t.id = rt.table_id "+
				"WHERE rt.reservation_id = reservations.id AND t.room_id = ?)",
			*filter.RoomID,
		))
	}

	query, args, err := selectBuilder.OrderBy("start_time ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListReservations - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListReservations - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListReservations - rows error: %v", ErrScanRow, err)
	}

	if len(reservations) == 0 {
		return reservations, nil
	}

	ids := make([]int64, len(reservations))
	for i, res := range reservations {
		ids[i] = res.ID
	}
	claims, err := r.loadTableIDs(ctx, executor, ids)
	if err != nil {
		return nil, err
	}
	for _, res := range reservations {
		res.TableIDs = claims[res.ID]
	}

	return reservations, nil
}

// ListActiveClaims получает занятые столы активных бронирований на дату.
// roomIDs == nil означает все залы.
func (r *Repository) ListActiveClaims(ctx context.Context, date time.Time, roomIDs []int64) ([]domain.ClaimWindow, error) {
	builder := claimsQuery(date)
	if roomIDs != nil {
		builder = builder.Where(squirrel.Eq{"t.room_id": roomIDs})
	}
	return r.queryClaims(ctx, "ListActiveClaims", builder)
}

// ListActiveClaimsForTables получает занятия конкретных столов на дату
func (r *Repository) ListActiveClaimsForTables(ctx context.Context, date time.Time, tableIDs []int64) ([]domain.ClaimWindow, error) {
	builder := claimsQuery(date).Where(squirrel.Eq{"rt.table_id": tableIDs})
	return r.queryClaims(ctx, "ListActiveClaimsForTables", builder)
}

// LockTables блокирует строки столов до конца транзакции (SELECT ... FOR UPDATE).
// Столы блокируются в порядке возрастания id, чтобы параллельные транзакции не взаимоблокировались.
func (r *Repository) LockTables(ctx context.Context, tableIDs []int64) error {
	if !dbmetrics.IsInTransaction(ctx) {
		// Без транзакции блокировка бессмысленна
		return nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	ids := sortedIDs(tableIDs)
	ids = slices.Compact(ids)

	query, args, err := psqlbuilder.Select("id").
		From("restaurant_tables").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: LockTables - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: LockTables - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	locked := 0
	for rows.Next() {
		locked++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: LockTables - rows error: %w", ErrExecQuery, err)
	}
	if locked != len(ids) {
		return ErrTableNotFound
	}
	return nil
}

// UpdateReservationStatus обновляет статус бронирования
func (r *Repository) UpdateReservationStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	query, args, err := psqlbuilder.Update("reservations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateReservationStatus - build update query: %v", ErrBuildQuery, err)
	}
	return r.execAffectingOne(ctx, "UpdateReservationStatus", query, args)
}

// CancelReservation отменяет бронирование с указанием причины.
// Записи reservation_tables сохраняются для истории, статус исключает их из расчёта занятости.
func (r *Repository) CancelReservation(ctx context.Context, id int64, reason *string, at time.Time) error {
	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: CancelReservation - build update query: %v", ErrBuildQuery, err)
	}
	return r.execAffectingOne(ctx, "CancelReservation", query, args)
}

// ReplaceClaims заменяет столы бронирования
func (r *Repository) ReplaceClaims(ctx context.Context, id int64, tableIDs []int64, capacityShortage bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("capacity_shortage", capacityShortage).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceClaims - build update query: %v", ErrBuildQuery, err)
	}
	if err := r.execAffectingOne(ctx, "ReplaceClaims", query, args); err != nil {
		return err
	}

	query, args, err = psqlbuilder.Delete("reservation_tables").
		Where(squirrel.Eq{"reservation_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceClaims - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceClaims - execute delete: %w", ErrExecQuery, err)
	}

	return r.insertClaims(ctx, executor, id, tableIDs)
}

// UpdateSchedule меняет время начала, длительность и размер компании
func (r *Repository) UpdateSchedule(ctx context.Context, id int64, start types.TimeString, durationMinutes, partySize int) error {
	query, args, err := psqlbuilder.Update("reservations").
		Set("start_time", start).
		Set("duration_minutes", durationMinutes).
		Set("party_size", partySize).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}
	return r.execAffectingOne(ctx, "UpdateSchedule", query, args)
}

func (r *Repository) insertClaims(ctx context.Context, executor DBExecutor, reservationID int64, tableIDs []int64) error {
	if len(tableIDs) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("reservation_tables").
		Columns("reservation_id", "table_id")
	for _, tableID := range sortedIDs(tableIDs) {
		insertBuilder = insertBuilder.Values(reservationID, tableID)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertClaims - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertClaims - execute insert: %w", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) loadTableIDs(ctx context.Context, executor DBExecutor, reservationIDs []int64) (map[int64][]int64, error) {
	query, args, err := psqlbuilder.Select("reservation_id", "table_id").
		From("reservation_tables").
		Where(squirrel.Eq{"reservation_id": reservationIDs}).
		OrderBy("reservation_id ASC", "table_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: loadTableIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadTableIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[int64][]int64, len(reservationIDs))
	for rows.Next() {
		var reservationID, tableID int64
		if err := rows.Scan(&reservationID, &tableID); err != nil {
			return nil, fmt.Errorf("%w: loadTableIDs - scan row: %v", ErrScanRow, err)
		}
		result[reservationID] = append(result[reservationID], tableID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadTableIDs - rows error: %v", ErrScanRow, err)
	}
	return result, nil
}

func (r *Repository) queryClaims(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]domain.ClaimWindow, error) {
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

	claims := make([]domain.ClaimWindow, 0)
	for rows.Next() {
		var claim domain.ClaimWindow
		if err := rows.Scan(
			&claim.ReservationID,
			&claim.TableID,
			&claim.RoomID,
			&claim.StartTime,
			&claim.DurationMinutes,
		); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		claims = append(claims, claim)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}
	return claims, nil
}

func (r *Repository) execAffectingOne(ctx context.Context, op, query string, args []interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func claimsQuery(date time.Time) squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"r.id",
		"rt.table_id",
		"t.room_id",
		"r.start_time",
		"r.duration_minutes",
	).
		From("reservation_tables rt").
		Join("reservations r ON r.id = rt.reservation_id").
		Join("restaurant_tables t ON t.id = rt.table_id").
		Where(squirrel.Eq{
			"r.reservation_date": dateParam(date),
			"r.status":           activeStatusStrings(),
		}).
		OrderBy("rt.table_id ASC", "r.start_time ASC")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		res                  domain.Reservation
		requestedRoomID      sql.NullInt64
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&res.ID,
		&res.PartySize,
		&res.Date,
		&res.StartTime,
		&res.DurationMinutes,
		&requestedRoomID,
		&res.Status,
		&res.Category,
		&res.Customer.Name,
		&res.Customer.Phone,
		&res.Customer.Email,
		&res.Customer.Notes,
		&res.CapacityShortage,
		&res.CancellationReason,
		&res.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if requestedRoomID.Valid {
		res.RoomFilter = domain.SpecificRoom(requestedRoomID.Int64)
	}
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

func activeStatusStrings() []string {
	statuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

// dateParam передаёт дату строкой, чтобы часовой пояс сессии не сдвигал её
func dateParam(date time.Time) string {
	return date.Format(domain.DateFormat)
}

func sortedIDs(ids []int64) []int64 {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return sorted
}
