package tideinfo

import (
	"testing"
	"time"

	"github.com/marees/tidegraph/pkg/shom"
)

func coeff(n int) *int { return &n }

func testTable() shom.TideTable {
	return shom.TideTable{
		"2026-08-25": {
			{Type: shom.HighTide, Time: 4 * 60, Height: 5.8, Coefficient: coeff(78)},
			{Type: shom.LowTide, Time: 10*60 + 15, Height: 1.2},
			{Type: shom.HighTide, Time: 16*60 + 30, Height: 6.0, Coefficient: coeff(82)},
		},
		"2026-08-26": {
			{Type: shom.LowTide, Time: 4*60 + 45, Height: 1.0},
		},
	}
}

func TestFlattenOrdersAcrossDays(t *testing.T) {
	moments := Flatten(testTable(), time.UTC)
	if len(moments) != 4 {
		t.Fatalf("got %d moments, want 4", len(moments))
	}
	for i := 1; i < len(moments); i++ {
		if !moments[i-1].Time.Before(moments[i].Time) {
			t.Errorf("moments out of order at %d: %s then %s", i, moments[i-1], moments[i])
		}
	}
	last := moments[3]
	if last.Time.Day() != 26 || last.Event.Type != shom.LowTide {
		t.Errorf("last moment = %s, want the next day's low tide", last)
	}
}

func TestNextAndPrevious(t *testing.T) {
	moments := Flatten(testTable(), time.UTC)
	now := time.Date(2026, time.August, 25, 11, 0, 0, 0, time.UTC)

	next, ok := Next(moments, now)
	if !ok || next.Event.Time != 16*60+30 {
		t.Errorf("next = %s, want the 16:30 high tide", next)
	}
	prev, ok := Previous(moments, now)
	if !ok || prev.Event.Time != 10*60+15 {
		t.Errorf("previous = %s, want the 10:15 low tide", prev)
	}

	// An instant exactly on an event counts as that event's past.
	onEvent := time.Date(2026, time.August, 25, 10, 15, 0, 0, time.UTC)
	prev, ok = Previous(moments, onEvent)
	if !ok || prev.Event.Time != 10*60+15 {
		t.Errorf("previous at the event = %s, want that same event", prev)
	}

	if _, ok := Previous(moments, time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)); ok {
		t.Errorf("no previous tide before the table starts")
	}
	if _, ok := Next(moments, time.Date(2026, time.August, 27, 0, 0, 0, 0, time.UTC)); ok {
		t.Errorf("no next tide after the table ends")
	}
}

func TestNextSpringAndNeap(t *testing.T) {
	coeffs := shom.CoefficientTable{
		"2026-08-25": {78, 82},
		"2026-08-26": {90, 95},
		"2026-08-27": {102, 105},
		"2026-08-30": {38, 40},
	}

	day, peak, ok := NextSpring(coeffs, "2026-08-25")
	if !ok || day != "2026-08-27" || peak != 105 {
		t.Errorf("next spring = %s/%d, want 2026-08-27/105", day, peak)
	}
	day, peak, ok = NextNeap(coeffs, "2026-08-25")
	if !ok || day != "2026-08-30" || peak != 40 {
		t.Errorf("next neap = %s/%d, want 2026-08-30/40", day, peak)
	}
	if _, _, ok := NextSpring(coeffs, "2026-08-28"); ok {
		t.Errorf("no spring tide after the table's last spring day")
	}
}
