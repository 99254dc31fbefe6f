// Package sla implements the business-calendar arithmetic behind ticket
// deadlines: pure date computations that skip weekends (Saturday and Sunday
// in the runtime's local calendar) and carry no holiday table.
package sla

import "time"

// DefaultDeadlineBusinessHours is the observed SLA policy: deadlines are set
// 72 business hours after creation or escalation.
const DefaultDeadlineBusinessHours = 72

const hoursPerDay = 24

// isoMillis matches the interchange format used in store-side range filters:
// UTC-normalized, millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// AddBusinessDays advances t one calendar day at a time until days
// non-weekend days have been crossed. days == 0 returns t unchanged.
// Precondition: days >= 0.
func AddBusinessDays(t time.Time, days int) time.Time {
	result := t
	added := 0
	for added < days {
		result = result.AddDate(0, 0, 1)
		if wd := result.Weekday(); wd != time.Saturday && wd != time.Sunday {
			added++
		}
	}
	return result
}

// AddBusinessHours splits hours into whole business days plus a remainder,
// advances by business days, then adds the remaining hours linearly. The
// remainder step does not re-check weekend boundaries, so a late-week start
// can spill the final hours into a weekend.
func AddBusinessHours(t time.Time, hours int) time.Time {
	days := hours / hoursPerDay
	remaining := hours % hoursPerDay
	return AddBusinessDays(t, days).Add(time.Duration(remaining) * time.Hour)
}

// Deadline returns the SLA deadline for a ticket created or escalated at t.
func Deadline(t time.Time, businessHours int) time.Time {
	if businessHours <= 0 {
		businessHours = DefaultDeadlineBusinessHours
	}
	return AddBusinessHours(t, businessHours)
}

// IsExpired reports whether deadline is strictly in the past. A nil deadline
// never expires.
func IsExpired(deadline *time.Time) bool {
	if deadline == nil {
		return false
	}
	return deadline.Before(time.Now())
}

// StartOfDay normalizes t to 00:00:00.000 in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay normalizes t to 23:59:59.999 in its own location.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location())
}

// StartOfDayISO returns the start of t's local day serialized as a
// UTC-normalized timestamp string.
func StartOfDayISO(t time.Time) string {
	return StartOfDay(t).UTC().Format(isoMillis)
}

// EndOfDayISO returns the end of t's local day serialized as a
// UTC-normalized timestamp string.
func EndOfDayISO(t time.Time) string {
	return EndOfDay(t).UTC().Format(isoMillis)
}
