package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	settingsRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/settings"
	"github.com/m04kA/SMC-TableBooking/internal/service/settings/models"
	"github.com/m04kA/SMC-TableBooking/pkg/logger"
	"github.com/m04kA/SMC-TableBooking/pkg/ptr"
)

// MockSettingsRepository мок репозитория настроек
type MockSettingsRepository struct {
	stored  *domain.BookingSettings
	getErr  error
	saveErr error
	saves   int
}

func (m *MockSettingsRepository) GetSettings(ctx context.Context) (*domain.BookingSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.stored == nil {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	copied := *m.stored
	return &copied, nil
}

func (m *MockSettingsRepository) UpsertSettings(ctx context.Context, s domain.BookingSettings) (*domain.BookingSettings, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	m.saves++
	s.UpdatedAt = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	m.stored = &s
	copied := s
	return &copied, nil
}

func TestService_SnapshotFallsBackToDefaults(t *testing.T) {
	repo := &MockSettingsRepository{}
	defaults := domain.DefaultBookingSettings()
	svc := NewService(repo, defaults, logger.NewNop())

	got, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaults, got)

	resp, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.IsDefault)
	assert.Nil(t, resp.UpdatedAt)
}

func TestService_SnapshotRepositoryError(t *testing.T) {
	repo := &MockSettingsRepository{getErr: errors.New("connection refused")}
	svc := NewService(repo, domain.DefaultBookingSettings(), logger.NewNop())

	_, err := svc.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_UpdatePartial(t *testing.T) {
	repo := &MockSettingsRepository{}
	svc := NewService(repo, domain.DefaultBookingSettings(), logger.NewNop())

	resp, err := svc.Update(context.Background(), &models.UpdateSettingsRequest{
		SlotStepMinutes: ptr.Ptr(15),
		RoomPolicy:      ptr.Ptr("first_fit"),
	})
	require.NoError(t, err)
	assert.Equal(t, 15, resp.SlotStepMinutes)
	assert.Equal(t, "first_fit", resp.RoomPolicy)
	assert.Equal(t, domain.DefaultDurationMinutes, resp.DefaultDurationMinutes)
	assert.False(t, resp.IsDefault)
	assert.NotNil(t, resp.UpdatedAt)

	snapshot, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RoomPolicyFirstFit, snapshot.RoomPolicy)
}

func TestService_UpdateValidation(t *testing.T) {
	tests := []struct {
		name string
		req  models.UpdateSettingsRequest
	}{
		{name: "step too small", req: models.UpdateSettingsRequest{SlotStepMinutes: ptr.Ptr(1)}},
		{name: "duration too long", req: models.UpdateSettingsRequest{DefaultDurationMinutes: ptr.Ptr(1000)}},
		{name: "negative min lead", req: models.UpdateSettingsRequest{MinLeadMinutes: ptr.Ptr(-5)}},
		{name: "max lead shorter than min lead", req: models.UpdateSettingsRequest{MinLeadMinutes: ptr.Ptr(3 * 24 * 60), MaxLeadDays: ptr.Ptr(1)}},
		{name: "party size over limit", req: models.UpdateSettingsRequest{MaxPartySize: ptr.Ptr(21)}},
		{name: "unknown policy", req: models.UpdateSettingsRequest{RoomPolicy: ptr.Ptr("random")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockSettingsRepository{}
			svc := NewService(repo, domain.DefaultBookingSettings(), logger.NewNop())

			_, err := svc.Update(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, repo.saves)
		})
	}
}

func TestService_UpdateUnlimitedMaxLead(t *testing.T) {
	repo := &MockSettingsRepository{}
	svc := NewService(repo, domain.DefaultBookingSettings(), logger.NewNop())

	resp, err := svc.Update(context.Background(), &models.UpdateSettingsRequest{MaxLeadDays: ptr.Ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.MaxLeadDays)
}

func TestService_UpdateRepositoryError(t *testing.T) {
	repo := &MockSettingsRepository{saveErr: errors.New("disk full")}
	svc := NewService(repo, domain.DefaultBookingSettings(), logger.NewNop())

	_, err := svc.Update(context.Background(), &models.UpdateSettingsRequest{MaxPartySize: ptr.Ptr(10)})
	assert.ErrorIs(t, err, ErrInternal)
}
