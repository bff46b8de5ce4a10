package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

func TestParseInvalid(t *testing.T) {
	_, err := Parse("2026/02/01")
	require.Error(t, err)
	var invalid *InvalidDate
	require.ErrorAs(t, err, &invalid)
}

func TestAddDays(t *testing.T) {
	got, err := AddDays("2026-02-28", 1)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", got)

	got, err = AddDays("2026-03-01", -1)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-28", got)
}

func TestMonthPrefixAndYearLabel(t *testing.T) {
	mp, err := MonthPrefix("2026-07-29")
	require.NoError(t, err)
	assert.Equal(t, "2026-07", mp)

	yl, err := YearLabel("2026-07-29")
	require.NoError(t, err)
	assert.Equal(t, "2026", yl)
}

func TestISOWeekLabel(t *testing.T) {
	// 2026-01-01 is a Thursday, so it falls in ISO week 1 of 2026.
	label, err := ISOWeekLabel("2026-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-W01", label)
}

func TestISOWeekBoundsRoundTrip(t *testing.T) {
	start, end, err := ISOWeekBounds("2026-W01")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-29", start) // Monday of week 1
	assert.Equal(t, "2026-01-04", end)   // Sunday of week 1

	label, err := ISOWeekLabel(start)
	require.NoError(t, err)
	assert.Equal(t, "2026-W01", label)
}

func TestNDaysAgo(t *testing.T) {
	clock := fixedClock{t: time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)}
	start, end := NDaysAgo(clock, 7)
	assert.Equal(t, "2026-01-30", start)
	assert.Equal(t, "2026-02-05", end)
}

func TestCompare(t *testing.T) {
	c, err := Compare("2026-01-01", "2026-01-02")
	require.NoError(t, err)
	assert.Equal(t, -1, c)
}
