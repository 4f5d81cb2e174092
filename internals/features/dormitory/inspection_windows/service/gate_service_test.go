package service

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asramaku_backend/internals/features/dormitory/inspection_windows/model"
	"asramaku_backend/internals/helpers/dbtime"
)

type fakeWindowStore struct {
	configs []model.InspectionWindowModel
	err     error
}

func (f *fakeWindowStore) ListEnabled(ctx context.Context) ([]model.InspectionWindowModel, error) {
	return f.configs, f.err
}

func mustTod(t *testing.T, s string) dbtime.Tod {
	t.Helper()
	tod, err := dbtime.Parse(s)
	require.NoError(t, err)
	return tod
}

func newGate(t *testing.T, configs ...model.InspectionWindowModel) *GateService {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return NewGateService(&fakeWindowStore{configs: configs}, loc)
}

// jendela malam default 21:00–23:59
func defaultNightWindow(t *testing.T) model.InspectionWindowModel {
	t.Helper()
	return model.InspectionWindowModel{
		InspectionWindowName:      "Periksa kamar malam",
		InspectionWindowStartTime: mustTod(t, "21:00"),
		InspectionWindowEndTime:   mustTod(t, "23:59"),
		InspectionWindowIsEnabled: true,
		InspectionWindowIsDefault: true,
	}
}

func jakarta(t *testing.T, value string) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	ts, err := time.ParseInLocation("2006-01-02 15:04:05", value, loc)
	require.NoError(t, err)
	return ts
}

func TestGate_NoConfigs(t *testing.T) {
	gate := newGate(t)

	res, err := gate.EvaluateAt(context.Background(), jakarta(t, "2026-03-02 21:30:00"))
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, "Belum ada jadwal periksa kamar yang dikonfigurasi", res.Reason)
	assert.Nil(t, res.NextDate)
}

func TestGate_BeforeOpen(t *testing.T) {
	gate := newGate(t, defaultNightWindow(t))

	res, err := gate.EvaluateAt(context.Background(), jakarta(t, "2026-03-02 20:59:59"))
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Contains(t, res.Reason, "belum dibuka")
	assert.Contains(t, res.Reason, "21:00")
	// belum buka hari ini → tidak ada hint jadwal berikutnya
	assert.Nil(t, res.NextDate)
}

func TestGate_InsideWindow(t *testing.T) {
	gate := newGate(t, defaultNightWindow(t))

	for _, at := range []string{
		"2026-03-02 21:00:00", // tepat buka (inklusif)
		"2026-03-02 22:00:00",
		"2026-03-02 23:59:00", // tepat tutup (inklusif)
	} {
		res, err := gate.EvaluateAt(context.Background(), jakarta(t, at))
		require.NoError(t, err)
		assert.True(t, res.Allowed, "harus diterima pada %s", at)
		require.NotNil(t, res.ActiveConfig)
		assert.Equal(t, "Periksa kamar malam", res.ActiveConfig.InspectionWindowName)
	}
}

func TestGate_AfterClose(t *testing.T) {
	gate := newGate(t, defaultNightWindow(t))

	res, err := gate.EvaluateAt(context.Background(), jakarta(t, "2026-03-02 23:59:01"))
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Contains(t, res.Reason, "sudah ditutup")
	assert.Contains(t, res.Reason, "23:59")
}

func TestGate_AfterClose_WithNextSpecificDate(t *testing.T) {
	future := jakarta(t, "2026-03-05 00:00:00")
	special := model.InspectionWindowModel{
		InspectionWindowName:         "Inspeksi gabungan",
		InspectionWindowStartTime:    mustTod(t, "08:00"),
		InspectionWindowEndTime:      mustTod(t, "10:00"),
		InspectionWindowIsEnabled:    true,
		InspectionWindowSpecificDate: &future,
	}
	gate := newGate(t, defaultNightWindow(t), special)

	res, err := gate.EvaluateAt(context.Background(), jakarta(t, "2026-03-02 23:59:30"))
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Contains(t, res.Reason, "Jadwal berikutnya: 2026-03-05 pukul 08:00")
	require.NotNil(t, res.NextDate)
	assert.Equal(t, "2026-03-05", res.NextDate.Format("2006-01-02"))
}

func TestGate_SpecificDateBeatsRecurring(t *testing.T) {
	today := jakarta(t, "2026-03-02 00:00:00")
	special := model.InspectionWindowModel{
		InspectionWindowName:         "Inspeksi pagi khusus",
		InspectionWindowStartTime:    mustTod(t, "06:00"),
		InspectionWindowEndTime:      mustTod(t, "08:00"),
		InspectionWindowIsEnabled:    true,
		InspectionWindowSpecificDate: &today,
	}
	gate := newGate(t, defaultNightWindow(t), special)

	res, err := gate.EvaluateAt(context.Background(), jakarta(t, "2026-03-02 07:00:00"))
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	require.NotNil(t, res.ActiveConfig)
	assert.Equal(t, "Inspeksi pagi khusus", res.ActiveConfig.InspectionWindowName)
}

func TestGate_RecurringWeekdayBeatsDefault(t *testing.T) {
	// 2026-03-02 = Senin
	monday := model.InspectionWindowModel{
		InspectionWindowName:              "Inspeksi Senin",
		InspectionWindowStartTime:         mustTod(t, "19:00"),
		InspectionWindowEndTime:           mustTod(t, "20:00"),
		InspectionWindowIsEnabled:         true,
		InspectionWindowRecurringWeekdays: pq.StringArray{"MON"},
	}
	gate := newGate(t, defaultNightWindow(t), monday)

	res, err := gate.EvaluateAt(context.Background(), jakarta(t, "2026-03-02 19:30:00"))
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	require.NotNil(t, res.ActiveConfig)
	assert.Equal(t, "Inspeksi Senin", res.ActiveConfig.InspectionWindowName)
}

func TestGate_RecurringAllAppliesEveryDay(t *testing.T) {
	daily := model.InspectionWindowModel{
		InspectionWindowName:              "Inspeksi harian",
		InspectionWindowStartTime:         mustTod(t, "05:00"),
		InspectionWindowEndTime:           mustTod(t, "06:00"),
		InspectionWindowIsEnabled:         true,
		InspectionWindowRecurringWeekdays: pq.StringArray{"ALL"},
	}
	gate := newGate(t, daily)

	// 2026-03-08 = Minggu
	res, err := gate.EvaluateAt(context.Background(), jakarta(t, "2026-03-08 05:30:00"))
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestGate_NoRuleForToday(t *testing.T) {
	// hanya aturan Jumat, tanpa default — Senin harus ditolak
	friday := model.InspectionWindowModel{
		InspectionWindowName:              "Inspeksi Jumat",
		InspectionWindowStartTime:         mustTod(t, "21:00"),
		InspectionWindowEndTime:           mustTod(t, "22:00"),
		InspectionWindowIsEnabled:         true,
		InspectionWindowRecurringWeekdays: pq.StringArray{"FRI"},
	}
	gate := newGate(t, friday)

	res, err := gate.EvaluateAt(context.Background(), jakarta(t, "2026-03-02 21:30:00"))
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Contains(t, res.Reason, "Tidak ada jadwal periksa kamar untuk hari ini")
}
