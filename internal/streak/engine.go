package streak

import "time"

// Record is the streak state carried by one user. LastDay is nil until the
// first day is counted; once set it never moves backwards.
type Record struct {
	Current int
	Longest int
	LastDay *time.Time
}

// Advance applies an approved update covering day to the record.
//
// Every approval counts for exactly one step, whether or not day is
// consecutive with LastDay. A gapped approval therefore continues the
// streak rather than restarting it: moderators decide what gets approved,
// and a late-approved backfill is the escape hatch for streaks the sweep
// already killed. Expiry stays strict (see Expired); leniency lives only
// behind the moderation gate.
func Advance(rec Record, day time.Time) Record {
	d := ActivityDay(day)

	rec.Current++
	if rec.Current > rec.Longest {
		rec.Longest = rec.Current
	}
	if rec.LastDay == nil || d.After(*rec.LastDay) {
		rec.LastDay = &d
	}
	return rec
}

// Expired reports whether the record's streak has outlived its grace window
// at the given instant.
//
// daysSince == 0 means an update was counted today, daysSince == 1 means
// yesterday was counted and today's update is not due until tonight; both
// are safe regardless of the time of day. From two days on, the streak is
// dead once now passes the grace deadline.
func Expired(rec Record, now time.Time) bool {
	if rec.Current == 0 || rec.LastDay == nil {
		return false
	}
	daysSince := DaysBetween(*rec.LastDay, now)
	if daysSince < 2 {
		return false
	}
	return now.After(GraceDeadline(*rec.LastDay))
}

// Expire zeroes the current streak. Longest and LastDay survive as
// historical markers. Applying it to an already-zero record is a no-op.
func Expire(rec Record) Record {
	rec.Current = 0
	return rec
}

// Override force-sets the current streak, bypassing the one-step-per-day
// rule. Negative values clamp to zero, Longest only ever grows, and LastDay
// is stamped to today's activity day so the sweep starts counting from the
// moment of the correction. Used for manual fixes and for seeding an
// initial streak when a user is approved.
func Override(rec Record, value int, today time.Time) Record {
	if value < 0 {
		value = 0
	}
	rec.Current = value
	if rec.Current > rec.Longest {
		rec.Longest = rec.Current
	}
	d := ActivityDay(today)
	rec.LastDay = &d
	return rec
}

// OverrideDelta is Override relative to the current value.
func OverrideDelta(rec Record, delta int, today time.Time) Record {
	return Override(rec, rec.Current+delta, today)
}
