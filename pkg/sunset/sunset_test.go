package sunset

import (
	"testing"
	"time"
)

func TestDaylightWindow(t *testing.T) {
	paris := locationOrPanic("Europe/Paris")
	day := time.Date(2026, time.August, 25, 0, 0, 0, 0, paris)
	events := SunEvents{
		{time.Date(2026, time.August, 24, 7, 2, 0, 0, paris), Sunrise},
		{time.Date(2026, time.August, 24, 20, 52, 0, 0, paris), Sunset},
		{time.Date(2026, time.August, 25, 7, 4, 0, 0, paris), Sunrise},
		{time.Date(2026, time.August, 25, 20, 50, 0, 0, paris), Sunset},
	}

	rise, set, ok := events.DaylightWindow(day)
	if !ok {
		t.Fatalf("expected a daylight window for %s", day)
	}
	if rise.Day() != 25 || rise.Hour() != 7 {
		t.Errorf("wrong sunrise: %s", rise)
	}
	if set.Day() != 25 || set.Hour() != 20 {
		t.Errorf("wrong sunset: %s", set)
	}

	if _, _, ok := events.DaylightWindow(day.AddDate(0, 0, 5)); ok {
		t.Errorf("expected no window outside the covered range")
	}

	if _, _, ok := events.DaylightWindow(time.Time{}); ok {
		t.Errorf("expected no window for the zero day")
	}
}

func TestGetSunEventsOrdering(t *testing.T) {
	start := time.Date(2026, time.August, 25, 0, 0, 0, 0, Pornichet.Location)
	events := GetSunEvents(start, 3*24*time.Hour, Pornichet)
	if len(events) != 6 {
		t.Fatalf("got %d events, want 6", len(events))
	}
	for i, e := range events {
		wantRise := i%2 == 0
		if (e.Event == Sunrise) != wantRise {
			t.Errorf("event %d: got %v", i, e.Event)
		}
		if i > 0 && !events[i-1].Time.Before(e.Time) {
			t.Errorf("events out of order at %d: %s then %s", i, events[i-1].Time, e.Time)
		}
	}
}
