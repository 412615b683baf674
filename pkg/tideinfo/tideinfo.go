// Package tideinfo answers questions across days of tide data: the tide
// events surrounding an instant, and when the next spring or neap tide falls.
package tideinfo

import (
	"fmt"
	"sort"
	"time"

	"github.com/marees/tidegraph/pkg/shom"
)

// Coefficient thresholds. Above the spring threshold currents get strong
// enough to warrant a warning; below the neap threshold the tidal range is at
// its flattest.
const (
	SpringCoefficient = 100
	NeapCoefficient   = 40
)

// Moment is one tide event anchored to an absolute instant.
type Moment struct {
	Time  time.Time
	Event shom.Event
}

func (m Moment) String() string {
	kind := "high"
	if m.Event.Type == shom.LowTide {
		kind = "low"
	}
	return fmt.Sprintf("%s tide at %s (%.2fm)",
		kind, m.Time.Format("2006-01-02 15:04"), m.Event.Height)
}

// Flatten orders a tide table into absolute moments in loc. Days that do not
// parse are skipped.
func Flatten(table shom.TideTable, loc *time.Location) []Moment {
	if loc == nil {
		loc = time.Local
	}
	out := make([]Moment, 0, 4*len(table))
	for day, events := range table {
		start, err := day.Time(loc)
		if err != nil {
			continue
		}
		for _, e := range events {
			out = append(out, Moment{
				Time:  start.Add(time.Duration(e.Time.Minutes()) * time.Minute),
				Event: e,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

// Next returns the first tide event strictly after now.
func Next(moments []Moment, now time.Time) (Moment, bool) {
	i := sort.Search(len(moments), func(i int) bool {
		return moments[i].Time.After(now)
	})
	if i == len(moments) {
		return Moment{}, false
	}
	return moments[i], true
}

// Previous returns the last tide event at or before now.
func Previous(moments []Moment, now time.Time) (Moment, bool) {
	i := sort.Search(len(moments), func(i int) bool {
		return moments[i].Time.After(now)
	})
	if i == 0 {
		return Moment{}, false
	}
	return moments[i-1], true
}

// NextSpring returns the first day at or after from whose peak coefficient
// reaches the spring threshold, with that coefficient.
func NextSpring(table shom.CoefficientTable, from shom.DayKey) (shom.DayKey, int, bool) {
	for _, day := range sortedDays(table) {
		if day < from {
			continue
		}
		if p := peak(table[day]); p >= SpringCoefficient {
			return day, p, true
		}
	}
	return "", 0, false
}

// NextNeap returns the first day at or after from whose peak coefficient
// stays at or below the neap threshold.
func NextNeap(table shom.CoefficientTable, from shom.DayKey) (shom.DayKey, int, bool) {
	for _, day := range sortedDays(table) {
		if day < from {
			continue
		}
		if p := peak(table[day]); p > 0 && p <= NeapCoefficient {
			return day, p, true
		}
	}
	return "", 0, false
}

// sortedDays returns the table's days in calendar order. ISO date strings
// sort chronologically.
func sortedDays(table shom.CoefficientTable) []shom.DayKey {
	days := make([]shom.DayKey, 0, len(table))
	for day := range table {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

func peak(coeffs []int) int {
	max := 0
	for _, c := range coeffs {
		if c > max {
			max = c
		}
	}
	return max
}
