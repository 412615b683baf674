package timetricks

import (
	"time"
)

const (
	dayFormat      = "2006-01-02"
	weekPlusMinute = 7*24*time.Hour + time.Minute
)

func SameDay(t time.Time, t2 time.Time) bool {
	return t.Format(dayFormat) == t2.Format(dayFormat)
}

func Today(t time.Time) bool {
	return SameDay(t, time.Now())
}

func Tomorrow(t time.Time) bool {
	return Today(t.Add(-24 * time.Hour))
}

func TrimClock(t time.Time) time.Time {
	h, m, s := t.Clock()
	return t.Add(-1 *
		(time.Duration(h)*time.Hour +
			time.Duration(m)*time.Minute +
			time.Duration(s)*time.Second))
}

// WithinForecast reports whether t falls inside the window the tide service
// answers for: from the start of today through seven days out.
func WithinForecast(t time.Time) bool {
	// Trim the current time so it has no wall clock component, just the
	// calendar date, and use it to compute the first minute past the window.
	// Then check that t occurs before then, as well as after the start of
	// today (minus a minute in case t falls at midnight).
	now := TrimClock(time.Now())
	firstMinutePastWindow := now.Add(weekPlusMinute)
	return t.After(now.Add(-1*time.Minute)) && t.Before(firstMinutePastWindow)
}

func SetClock(t time.Time, hour, minute time.Duration) time.Time {
	return TrimClock(t).Add(hour*time.Hour + minute*time.Minute)
}

// Day returns the ISO calendar date of t. Two separate times on the same
// calendar day return identical strings, so it doubles as a per-day map key.
func Day(t time.Time) string {
	return t.Format(dayFormat)
}

// MinuteOfDay returns t's wall clock position as minutes after midnight.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
