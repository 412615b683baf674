package sunset

import (
	"fmt"
	"time"
)

// Place is a lat/long coordinate on the Earth matched with its time zone.
type Place struct {
	Lat, Long float64
	Location  *time.Location
}

// Harbors along the French coast with tide coverage.
var (
	Pornichet = Place{
		47.2594, -2.3431,
		locationOrPanic("Europe/Paris"),
	}
	SaintMalo = Place{
		48.6493, -2.0257,
		locationOrPanic("Europe/Paris"),
	}
	Brest = Place{
		48.3904, -4.4861,
		locationOrPanic("Europe/Paris"),
	}
)

// PlaceFor builds a Place from harbor coordinates.
func PlaceFor(lat, long float64, loc *time.Location) Place {
	if loc == nil {
		loc = time.UTC
	}
	return Place{lat, long, loc}
}

// SunEvents is a time series of SunEvent.
type SunEvents []SunEvent

// SunEvent is a sunrise or sunset event.
type SunEvent struct {
	Time  time.Time
	Event Event
}

func (s *SunEvent) String() string {
	return fmt.Sprintf("%s %s",
		s.Time.Format(time.RFC822),
		func() string {
			if s.Event == Sunrise {
				return "Sunrise"
			} else {
				return "Sunset"
			}
		}())
}

// Event encodes a sunrise or sunset event.
type Event bool

const (
	Sunrise Event = true
	Sunset        = false
)

// DaylightWindow returns the sunrise and the following sunset that fall on
// the calendar day starting at dayStart. ok is false when the series does
// not cover that day.
func (s SunEvents) DaylightWindow(dayStart time.Time) (rise, set time.Time, ok bool) {
	if dayStart.IsZero() {
		return time.Time{}, time.Time{}, false
	}
	dayEnd := dayStart.Add(24 * time.Hour)
	for i := 0; i+1 < len(s); i++ {
		if s[i].Event != Sunrise || s[i+1].Event != Sunset {
			continue
		}
		if s[i].Time.Before(dayStart) || !s[i].Time.Before(dayEnd) {
			continue
		}
		return s[i].Time, s[i+1].Time, true
	}
	return time.Time{}, time.Time{}, false
}

func locationOrPanic(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}
