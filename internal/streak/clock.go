// Package streak holds the day arithmetic and the transition rules for
// build-in-public streaks. Everything here is pure: no I/O, no database,
// no clock reads. Services feed it times and records and persist what
// comes back.
package streak

import "time"

// GraceHours is how far past the hard deadline a missed day is forgiven.
// If the last counted day is D, the update for D+1 is due before D+2
// starts; the streak survives until D+2 00:00 UTC plus this many hours.
const GraceHours = 12

const secondsPerDay = 24 * 60 * 60

// ActivityDay maps an instant to the UTC calendar day it belongs to,
// returned as midnight UTC of that day. Two instants count as the same
// activity day iff they share a UTC calendar date.
func ActivityDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of whole calendar days from a to b,
// computed on UTC-midnight-aligned boundaries. Subtracting raw instants
// would be off by one around midnight, so both sides are floored to their
// activity day first.
func DaysBetween(a, b time.Time) int {
	da := ActivityDay(a).Unix() / secondsPerDay
	db := ActivityDay(b).Unix() / secondsPerDay
	return int(db - da)
}

// GraceDeadline returns the instant after which a streak whose last counted
// day is lastDay is considered broken: the start of lastDay+2 (the hard
// deadline for the lastDay+1 update) extended by the grace period.
func GraceDeadline(lastDay time.Time) time.Time {
	return ActivityDay(lastDay).AddDate(0, 0, 2).Add(GraceHours * time.Hour)
}
