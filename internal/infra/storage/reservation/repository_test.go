package reservation

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TableBooking/pkg/ptr"
	"github.com/m04kA/SMC-TableBooking/pkg/txmanager"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

var testDate = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

// skipIfNoIntegration пропускает тест, если не задан INTEGRATION_TEST=true
func skipIfNoIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}
}

// setupDB поднимает схему и наполняет каталог: зал 1 со столами 1 (4 места) и 2 (2 места), зал 2 со столом 3
func setupDB(t *testing.T) *dbmetrics.DB {
	t.Helper()
	skipIfNoIntegration(t)

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=postgres password=postgres dbname=table_booking_test sslmode=disable"
	}

	raw, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	require.NoError(t, raw.Ping())

	schema, err := os.ReadFile("../../../../migrations/001_init.sql")
	require.NoError(t, err)
	_, err = raw.Exec(string(schema))
	require.NoError(t, err)

	_, err = raw.Exec(`TRUNCATE reservation_tables, reservations, restaurant_tables, rooms RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	_, err = raw.Exec(`
		INSERT INTO rooms (name, priority, display_order) VALUES ('Main', 0, 1), ('Terrace', 1, 2);
		INSERT INTO restaurant_tables (room_id, name, capacity, is_combinable) VALUES
			(1, 'T1', 4, TRUE), (1, 'T2', 2, TRUE), (2, 'T3', 6, FALSE);
	`)
	require.NoError(t, err)

	return dbmetrics.Wrap(raw, nil)
}

func newReservation(start string, tableIDs ...int64) *domain.Reservation {
	return &domain.Reservation{
		PartySize:       2,
		Date:            testDate,
		StartTime:       types.TimeString(start),
		DurationMinutes: 120,
		Status:          domain.StatusConfirmed,
		Category:        domain.DefaultReservationCategory,
		Customer:        domain.Customer{Name: "Anna", Phone: ptr.Ptr("+79990000000")},
		TableIDs:        tableIDs,
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.CreateReservation(ctx, newReservation("19:00", 2, 1))
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Equal(t, []int64{1, 2}, created.TableIDs)

	got, err := repo.GetReservation(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("19:00"), got.StartTime)
	assert.Equal(t, []int64{1, 2}, got.TableIDs)
	assert.Equal(t, "+79990000000", ptr.Value(got.Customer.Phone))
	assert.True(t, got.RoomFilter.IsAny())

	_, err = repo.GetReservation(ctx, 999)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestRepository_ClaimsIgnoreCancelled(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first, err := repo.CreateReservation(ctx, newReservation("18:00", 1))
	require.NoError(t, err)
	_, err = repo.CreateReservation(ctx, newReservation("20:00", 3))
	require.NoError(t, err)

	claims, err := repo.ListActiveClaims(ctx, testDate, nil)
	require.NoError(t, err)
	assert.Len(t, claims, 2)

	claims, err = repo.ListActiveClaims(ctx, testDate, []int64{2})
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, int64(3), claims[0].TableID)

	require.NoError(t, repo.CancelReservation(ctx, first.ID, ptr.Ptr("guest called"), time.Now()))

	claims, err = repo.ListActiveClaimsForTables(ctx, testDate, []int64{1})
	require.NoError(t, err)
	assert.Empty(t, claims)

	all, err := repo.ListReservations(ctx, domain.ReservationsFilter{Date: testDate, IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, domain.StatusCancelled, all[0].Status)
	assert.Equal(t, []int64{1}, all[0].TableIDs)
}

func TestRepository_ReplaceClaimsAndSchedule(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	res, err := repo.CreateReservation(ctx, newReservation("19:00", 1))
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceClaims(ctx, res.ID, []int64{3}, true))
	require.NoError(t, repo.UpdateSchedule(ctx, res.ID, "20:30", 90, 7))

	got, err := repo.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, got.TableIDs)
	assert.True(t, got.CapacityShortage)
	assert.Equal(t, types.TimeString("20:30"), got.StartTime)
	assert.Equal(t, 90, got.DurationMinutes)
	assert.Equal(t, 7, got.PartySize)

	assert.ErrorIs(t, repo.UpdateReservationStatus(ctx, 999, domain.StatusCompleted), ErrReservationNotFound)
}

func TestRepository_LockTablesInsideTransaction(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	tx := txmanager.NewTransactionManager(db, txmanager.WithLockTimeout(200*time.Millisecond))
	ctx := context.Background()

	err := tx.DoSerializable(ctx, func(ctx context.Context) error {
		return repo.LockTables(ctx, []int64{2, 1, 2})
	})
	require.NoError(t, err)

	err = tx.DoSerializable(ctx, func(ctx context.Context) error {
		return repo.LockTables(ctx, []int64{1, 42})
	})
	assert.ErrorIs(t, err, ErrTableNotFound)

	// Вторая транзакция не дожидается строки, занятой первой
	err = tx.Do(ctx, func(outer context.Context) error {
		require.NoError(t, repo.LockTables(outer, []int64{1}))
		return tx.Do(context.Background(), func(inner context.Context) error {
			return repo.LockTables(inner, []int64{1})
		})
	})
	assert.True(t, txmanager.IsLockTimeout(err))
}

func TestRepository_RollbackDropsReservation(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	tx := txmanager.NewTransactionManager(db)
	ctx := context.Background()

	err := tx.DoSerializable(ctx, func(ctx context.Context) error {
		if _, err := repo.CreateReservation(ctx, newReservation("19:00", 1)); err != nil {
			return err
		}
		// несуществующий стол нарушает внешний ключ
		_, err := repo.CreateReservation(ctx, newReservation("19:00", 99))
		return err
	})
	require.Error(t, err)

	list, err := repo.ListReservations(ctx, domain.ReservationsFilter{Date: testDate, IncludeInactive: true})
	require.NoError(t, err)
	assert.Empty(t, list)
}
