package hours

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TableBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// TIME читаем текстом: драйвер превращает 24:00:00 в полночь следующих суток
var scheduleColumns = []string{"is_open", "open_time::text", "close_time::text"}

// Repository репозиторий рабочих часов ресторана
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория рабочих часов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// HoursFor возвращает расписание на дату
// Приоритет:
// 1. Особый день (special_days) на эту дату
// 2. Обычное расписание дня недели (working_hours)
// 3. Если ничего не задано - ресторан закрыт
func (r *Repository) HoursFor(ctx context.Context, date time.Time) (domain.DaySchedule, error) {
	// 1. Особый день
	schedule, found, err := r.querySchedule(ctx, "HoursFor - special day",
		psqlbuilder.Select(scheduleColumns...).
			From("special_days").
			Where(squirrel.Eq{"date": date.Format(domain.DateFormat)}),
	)
	if err != nil {
		return domain.DaySchedule{}, err
	}
	if found {
		return schedule, nil
	}

	// 2. День недели
	schedule, found, err = r.querySchedule(ctx, "HoursFor - weekday",
		psqlbuilder.Select(scheduleColumns...).
			From("working_hours").
			Where(squirrel.Eq{"weekday": int(date.Weekday())}),
	)
	if err != nil {
		return domain.DaySchedule{}, err
	}
	if found {
		return schedule, nil
	}

	// 3. Расписание не задано
	return domain.Closed(), nil
}

func (r *Repository) querySchedule(ctx context.Context, op string, builder squirrel.SelectBuilder) (domain.DaySchedule, bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return domain.DaySchedule{}, false, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var (
		schedule  domain.DaySchedule
		openTime  sql.NullString
		closeTime sql.NullString
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&schedule.IsOpen, &openTime, &closeTime)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DaySchedule{}, false, nil
	}
	if err != nil {
		return domain.DaySchedule{}, false, fmt.Errorf("%w: %s - scan schedule: %w", ErrScanRow, op, err)
	}

	if openTime.Valid {
		openAt, err := types.NewTimeStringFromString(openTime.String)
		if err != nil {
			return domain.DaySchedule{}, false, fmt.Errorf("%w: %s - parse open time: %v", ErrScanRow, op, err)
		}
		schedule.OpenTime = openAt
	}
	if closeTime.Valid {
		closeAt, err := types.NewTimeStringFromString(closeTime.String)
		if err != nil {
			return domain.DaySchedule{}, false, fmt.Errorf("%w: %s - parse close time: %v", ErrScanRow, op, err)
		}
		schedule.CloseTime = closeAt
	}

	return schedule, true, nil
}
