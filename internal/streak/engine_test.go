package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordWithLastDay(current, longest int, lastDay time.Time) Record {
	d := ActivityDay(lastDay)
	return Record{Current: current, Longest: longest, LastDay: &d}
}

func TestAdvanceNormalGrowth(t *testing.T) {
	rec := recordWithLastDay(5, 8, date(2026, 1, 10))

	got := Advance(rec, date(2026, 1, 11))

	assert.Equal(t, 6, got.Current)
	assert.Equal(t, 8, got.Longest)
	require.NotNil(t, got.LastDay)
	assert.Equal(t, date(2026, 1, 11), *got.LastDay)
}

func TestAdvanceFirstCountedDay(t *testing.T) {
	got := Advance(Record{}, date(2026, 1, 11))

	assert.Equal(t, 1, got.Current)
	assert.Equal(t, 1, got.Longest)
	require.NotNil(t, got.LastDay)
	assert.Equal(t, date(2026, 1, 11), *got.LastDay)
}

func TestAdvanceRaisesLongest(t *testing.T) {
	rec := recordWithLastDay(8, 8, date(2026, 1, 10))

	got := Advance(rec, date(2026, 1, 11))

	assert.Equal(t, 9, got.Current)
	assert.Equal(t, 9, got.Longest)
}

// Approvals count one step even when the approved day is not consecutive
// with the last counted day. A moderator approving a backfilled update
// continues the streak instead of restarting it.
func TestAdvanceGappedApprovalStillIncrements(t *testing.T) {
	rec := recordWithLastDay(5, 8, date(2026, 1, 10))

	got := Advance(rec, date(2026, 1, 14))

	assert.Equal(t, 6, got.Current, "gapped approval must increment, not reset")
	require.NotNil(t, got.LastDay)
	assert.Equal(t, date(2026, 1, 14), *got.LastDay)
}

// LastDay never moves backwards, even if an older day is approved late.
func TestAdvanceLastDayNonDecreasing(t *testing.T) {
	rec := recordWithLastDay(5, 8, date(2026, 1, 10))

	got := Advance(rec, date(2026, 1, 8))

	assert.Equal(t, 6, got.Current)
	require.NotNil(t, got.LastDay)
	assert.Equal(t, date(2026, 1, 10), *got.LastDay)
}

func TestExpiredSafeZone(t *testing.T) {
	rec := recordWithLastDay(3, 3, date(2026, 1, 5))

	// Counted today.
	assert.False(t, Expired(rec, time.Date(2026, 1, 5, 22, 0, 0, 0, time.UTC)))

	// Counted yesterday: safe all day regardless of the hour.
	assert.False(t, Expired(rec, time.Date(2026, 1, 6, 8, 0, 0, 0, time.UTC)))
	assert.False(t, Expired(rec, time.Date(2026, 1, 6, 23, 59, 59, 0, time.UTC)))
}

func TestExpiredGraceBoundary(t *testing.T) {
	rec := recordWithLastDay(7, 7, date(2026, 1, 1))

	// Two days since the last counted day, but still inside the 12h grace.
	assert.False(t, Expired(rec, time.Date(2026, 1, 3, 11, 59, 59, 0, time.UTC)))

	// Exactly at the deadline the streak still stands; one second past it
	// is dead.
	assert.False(t, Expired(rec, time.Date(2026, 1, 3, 12, 0, 0, 0, time.UTC)))
	assert.True(t, Expired(rec, time.Date(2026, 1, 3, 12, 0, 1, 0, time.UTC)))
}

func TestExpiredLongGap(t *testing.T) {
	rec := recordWithLastDay(7, 7, date(2026, 1, 1))
	assert.True(t, Expired(rec, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)))
}

func TestExpiredZeroStreakIsNoop(t *testing.T) {
	assert.False(t, Expired(Record{}, time.Date(2026, 1, 3, 13, 0, 0, 0, time.UTC)))

	rec := recordWithLastDay(0, 9, date(2026, 1, 1))
	assert.False(t, Expired(rec, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
}

func TestExpireIdempotent(t *testing.T) {
	rec := recordWithLastDay(7, 9, date(2026, 1, 1))

	once := Expire(rec)
	assert.Equal(t, 0, once.Current)
	assert.Equal(t, 9, once.Longest)
	require.NotNil(t, once.LastDay)
	assert.Equal(t, date(2026, 1, 1), *once.LastDay)

	twice := Expire(once)
	assert.Equal(t, once, twice)
}

func TestOverrideClampsAtZero(t *testing.T) {
	today := date(2026, 3, 1)

	got := OverrideDelta(Record{Current: 0, Longest: 4}, -1, today)
	assert.Equal(t, 0, got.Current)
	assert.Equal(t, 4, got.Longest)

	got = Override(Record{Current: 2, Longest: 4}, -10, today)
	assert.Equal(t, 0, got.Current)
}

func TestOverrideStampsTodayAndRaisesLongest(t *testing.T) {
	today := time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)

	got := Override(Record{Current: 2, Longest: 4}, 12, today)

	assert.Equal(t, 12, got.Current)
	assert.Equal(t, 12, got.Longest)
	require.NotNil(t, got.LastDay)
	assert.Equal(t, date(2026, 3, 1), *got.LastDay)
}

func TestOverrideDeltaIncrement(t *testing.T) {
	rec := recordWithLastDay(5, 8, date(2026, 2, 20))

	got := OverrideDelta(rec, 1, date(2026, 3, 1))

	assert.Equal(t, 6, got.Current)
	assert.Equal(t, 8, got.Longest)
	assert.Equal(t, date(2026, 3, 1), *got.LastDay)
}

// longest >= current >= 0 holds across every transition.
func TestInvariantsAcrossTransitions(t *testing.T) {
	rec := Record{}
	now := date(2026, 1, 1)

	for i := 0; i < 30; i++ {
		switch i % 5 {
		case 0, 1:
			rec = Advance(rec, now.AddDate(0, 0, i))
		case 2:
			rec = OverrideDelta(rec, -1, now.AddDate(0, 0, i))
		case 3:
			rec = OverrideDelta(rec, 3, now.AddDate(0, 0, i))
		case 4:
			rec = Expire(rec)
		}

		assert.GreaterOrEqual(t, rec.Current, 0)
		assert.GreaterOrEqual(t, rec.Longest, rec.Current)
		if rec.Current > 0 {
			assert.NotNil(t, rec.LastDay)
		}
	}
}
