package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

var day = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

func baseRequest() Request {
	return Request{
		Date:            day,
		DurationMinutes: 120,
		Now:             day.Add(-48 * time.Hour),
		Hours:           domain.DaySchedule{IsOpen: true, OpenTime: "10:00", CloseTime: "22:00"},
		Settings: domain.BookingSettings{
			SlotStepMinutes: 30,
			MinLeadMinutes:  60,
			MaxLeadDays:     30,
		},
		Location: time.UTC,
	}
}

func TestGenerate_FullDay(t *testing.T) {
	plan, err := Generate(baseRequest())
	require.NoError(t, err)

	got := plan.Slots()
	require.Len(t, got, 21)
	assert.Equal(t, types.TimeString("10:00"), got[0])
	assert.Equal(t, types.TimeString("20:00"), got[len(got)-1])
	assert.False(t, plan.Contains("20:30"))
}

func TestGenerate_MinLeadCutsEarlyStarts(t *testing.T) {
	req := baseRequest()
	req.Now = day.Add(11 * time.Hour)

	plan, err := Generate(req)
	require.NoError(t, err)

	assert.True(t, plan.Contains("12:00"))
	assert.False(t, plan.Contains("11:30"))
	assert.Equal(t, types.TimeString("12:00"), plan.Slots()[0])
}

func TestGenerate_MaxLeadStopsIteration(t *testing.T) {
	req := baseRequest()
	req.Settings.MaxLeadDays = 1
	// now+1 день = 15 октября 14:00
	req.Now = day.Add(-10 * time.Hour)

	plan, err := Generate(req)
	require.NoError(t, err)

	got := plan.Slots()
	require.NotEmpty(t, got)
	assert.Equal(t, types.TimeString("14:00"), got[len(got)-1])
}

func TestGenerate_Closed(t *testing.T) {
	req := baseRequest()
	req.Hours = domain.Closed()

	_, err := Generate(req)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestGenerate_InvalidRequest(t *testing.T) {
	req := baseRequest()
	req.Settings.SlotStepMinutes = 0
	_, err := Generate(req)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	req = baseRequest()
	req.DurationMinutes = 0
	_, err = Generate(req)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestGenerate_DurationLongerThanDay(t *testing.T) {
	req := baseRequest()
	req.DurationMinutes = 13 * 60

	plan, err := Generate(req)
	require.NoError(t, err)
	assert.Empty(t, plan.Slots())
}

func TestGenerate_MidnightClose(t *testing.T) {
	req := baseRequest()
	req.Hours = domain.DaySchedule{IsOpen: true, OpenTime: "18:00", CloseTime: "24:00"}

	plan, err := Generate(req)
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"18:00", "18:30", "19:00", "19:30", "20:00", "20:30", "21:00", "21:30", "22:00"}, plan.Slots())
}

func TestPlan_AllIsRestartable(t *testing.T) {
	plan, err := Generate(baseRequest())
	require.NoError(t, err)

	first := plan.Slots()
	second := plan.Slots()
	assert.Equal(t, first, second)

	var taken []types.TimeString
	for ts := range plan.All() {
		taken = append(taken, ts)
		if len(taken) == 3 {
			break
		}
	}
	assert.Equal(t, first[:3], taken)
}

func TestGenerate_RespectsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	req := baseRequest()
	req.Location = loc
	// 09:00 UTC = 12:00 по местному времени, minLead 60 => первый старт 13:00
	req.Now = time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)

	plan, err := Generate(req)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("13:00"), plan.Slots()[0])
}
