package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndSecondsOfDay(t *testing.T) {
	tod, err := Parse("21:00")
	require.NoError(t, err)
	assert.Equal(t, 21*3600, tod.SecondsOfDay())

	tod, err = Parse("23:59:59")
	require.NoError(t, err)
	assert.Equal(t, 23*3600+59*60+59, tod.SecondsOfDay())

	_, err = Parse("25:00")
	assert.Error(t, err)
}

func TestScanVariants(t *testing.T) {
	var tod Tod
	require.NoError(t, tod.Scan("08:30"))
	assert.Equal(t, 8*3600+30*60, tod.SecondsOfDay())

	require.NoError(t, tod.Scan([]byte("09:15:30")))
	assert.Equal(t, 9*3600+15*60+30, tod.SecondsOfDay())

	require.NoError(t, tod.Scan(nil))
	assert.True(t, tod.Time.IsZero())
}

func TestWeekdayCode(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 2026-03-02 = Senin
	assert.Equal(t, "MON", WeekdayCode(time.Date(2026, 3, 2, 12, 0, 0, 0, loc), loc))
	assert.Equal(t, "SUN", WeekdayCode(time.Date(2026, 3, 8, 12, 0, 0, 0, loc), loc))
}

func TestSameDayAcrossZones(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 2026-03-02 18:00 UTC = 2026-03-03 01:00 WIB → beda hari di Jakarta
	utcEvening := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	wibMorning := time.Date(2026, 3, 2, 8, 0, 0, 0, jakarta)

	assert.False(t, SameDay(utcEvening, wibMorning, jakarta))
	assert.True(t, SameDay(utcEvening, time.Date(2026, 3, 3, 6, 0, 0, 0, jakarta), jakarta))
}
