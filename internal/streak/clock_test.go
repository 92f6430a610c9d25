package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestActivityDay(t *testing.T) {
	assert.Equal(t, date(2026, 1, 5), ActivityDay(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, date(2026, 1, 5), ActivityDay(time.Date(2026, 1, 5, 23, 59, 59, 0, time.UTC)))

	// An instant just before UTC midnight and one just after land on
	// different activity days.
	assert.Equal(t, date(2026, 1, 5), ActivityDay(time.Date(2026, 1, 5, 23, 59, 59, 999999999, time.UTC)))
	assert.Equal(t, date(2026, 1, 6), ActivityDay(time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)))
}

func TestActivityDayNormalizesZones(t *testing.T) {
	// 2026-01-05 20:00 in UTC-8 is 2026-01-06 04:00 UTC.
	la := time.FixedZone("UTC-8", -8*60*60)
	assert.Equal(t, date(2026, 1, 6), ActivityDay(time.Date(2026, 1, 5, 20, 0, 0, 0, la)))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(date(2026, 1, 5), date(2026, 1, 5)))
	assert.Equal(t, 1, DaysBetween(date(2026, 1, 5), date(2026, 1, 6)))
	assert.Equal(t, -1, DaysBetween(date(2026, 1, 6), date(2026, 1, 5)))

	// Month and year boundaries.
	assert.Equal(t, 1, DaysBetween(date(2025, 12, 31), date(2026, 1, 1)))
	assert.Equal(t, 1, DaysBetween(date(2026, 1, 31), date(2026, 2, 1)))

	// Time of day within the same UTC date never changes the answer.
	lateA := time.Date(2026, 1, 5, 23, 30, 0, 0, time.UTC)
	earlyB := time.Date(2026, 1, 6, 0, 15, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysBetween(lateA, earlyB))
}

func TestGraceDeadline(t *testing.T) {
	// Last counted day 2026-01-01: the Jan 2 update is due before Jan 3
	// starts, so the streak survives until Jan 3 12:00 UTC.
	deadline := GraceDeadline(date(2026, 1, 1))
	assert.Equal(t, time.Date(2026, 1, 3, 12, 0, 0, 0, time.UTC), deadline)

	// The input's time of day is irrelevant.
	deadline = GraceDeadline(time.Date(2026, 1, 1, 18, 45, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 1, 3, 12, 0, 0, 0, time.UTC), deadline)
}
