package settings

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

// settingsRowID настройки ресторана хранятся одной строкой
const settingsRowID = 1

// Repository репозиторий для работы с настройками бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetSettings получает настройки бронирования.
// Если строка настроек отсутствует, возвращает ErrSettingsNotFound.
func (r *Repository) GetSettings(ctx context.Context) (*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"slot_step_minutes",
		"default_duration_minutes",
		"min_lead_minutes",
		"max_lead_days",
		"max_party_size",
		"room_policy",
		"updated_at",
	).
		From("booking_settings").
		Where(squirrel.Eq{"id": settingsRowID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - build select query: %v", ErrBuildQuery, err)
	}

	var settings domain.BookingSettings
	var updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.SlotStepMinutes,
		&settings.DefaultDurationMinutes,
		&settings.MinLeadMinutes,
		&settings.MaxLeadDays,
		&settings.MaxPartySize,
		&settings.RoomPolicy,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - scan settings: %v", ErrScanRow, err)
	}

	settings.UpdatedAt = updatedAt.Time

	return &settings, nil
}

// UpsertSettings создает или обновляет настройки бронирования
func (r *Repository) UpsertSettings(ctx context.Context, settings domain.BookingSettings) (*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_settings").
		Columns(
			"id",
			"slot_step_minutes",
			"default_duration_minutes",
			"min_lead_minutes",
			"max_lead_days",
			"max_party_size",
			"room_policy",
		).
		Values(
			settingsRowID,
			settings.SlotStepMinutes,
			settings.DefaultDurationMinutes,
			settings.MinLeadMinutes,
			settings.MaxLeadDays,
			settings.MaxPartySize,
			settings.RoomPolicy,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			slot_step_minutes = EXCLUDED.slot_step_minutes,
			default_duration_minutes = EXCLUDED.default_duration_minutes,
			min_lead_minutes = EXCLUDED.min_lead_minutes,
			max_lead_days = EXCLUDED.max_lead_days,
			max_party_size = EXCLUDED.max_party_size,
			room_policy = EXCLUDED.room_policy,
			updated_at = NOW()
		RETURNING updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertSettings - build insert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertSettings - execute upsert: %w", ErrExecQuery, err)
	}

	settings.UpdatedAt = updatedAt.Time

	return &settings, nil
}
