package graph

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/marees/tidegraph/pkg/locale"
	"github.com/marees/tidegraph/pkg/shom"
)

func coeff(n int) *int { return &n }

var testDay = shom.DayKey("2026-08-25")

func testEvents(c int) shom.Events {
	return shom.Events{
		{Type: shom.HighTide, Time: 12 * 60, Height: 6.0, Coefficient: coeff(c)},
		{Type: shom.LowTide, Time: 18 * 60, Height: 2.0},
	}
}

func testSamples() shom.Samples {
	return shom.Samples{{
		{Time: 6 * 60, Height: 2.0},
		{Time: 12 * 60, Height: 6.0},
		{Time: 18 * 60, Height: 2.0},
	}}
}

func encode(t *testing.T, g *Graph) string {
	t.Helper()
	var buf bytes.Buffer
	if _, err := g.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<svg") || !strings.HasSuffix(out, "</svg>") {
		t.Fatalf("not a complete svg document: %.60s...", out)
	}
	return out
}

func TestDrawDayWithCoefficientBadge(t *testing.T) {
	g := New(testDay, testEvents(95), testSamples(), Options{
		Now: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	out := encode(t, g)

	if !strings.Contains(out, `class="curve"`) {
		t.Errorf("missing curve")
	}
	if !strings.Contains(out, `class="area"`) {
		t.Errorf("missing filled area")
	}
	if !strings.Contains(out, ">95</text>") {
		t.Errorf("missing coefficient badge text")
	}
	// 95 < 100: normal color, no warning accent anywhere.
	if strings.Contains(out, colorWarn) {
		t.Errorf("coefficient 95 should not use the warning accent")
	}
	// Two tide markers: one up arrow, one down.
	if got := strings.Count(out, `class="tide-arrow"`); got != 2 {
		t.Errorf("got %d tide arrows, want 2", got)
	}
	// Axis ticks at 00:00, 08:00, 16:00 and the closing 00:00.
	if got := strings.Count(out, `class="tick-label`); got != 4 {
		t.Errorf("got %d tick labels, want 4", got)
	}
}

func TestDrawWarningCoefficient(t *testing.T) {
	g := New(testDay, testEvents(105), testSamples(), Options{
		Now: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	out := encode(t, g)

	if !strings.Contains(out, ">105</text>") {
		t.Errorf("missing coefficient badge text")
	}
	if !strings.Contains(out, colorWarn) {
		t.Errorf("coefficient 105 should switch to the warning accent")
	}
}

func TestDrawEmptyDayMessage(t *testing.T) {
	g := New(testDay, testEvents(95), shom.Samples{{}}, Options{
		Localize: locale.Localizer("en"),
	})
	out := encode(t, g)

	if !strings.Contains(out, "no data for this day") {
		t.Errorf("missing empty-day message in %q", out)
	}
	if strings.Contains(out, "tide-arrow") || strings.Contains(out, `class="curve"`) {
		t.Errorf("placeholder scene should draw zero markers")
	}
}

func TestDrawErrorPrecedence(t *testing.T) {
	// Both inputs error-shaped: the tide-event error wins, alone.
	g := New(testDay, nil, nil, Options{
		EventsErr:  "upstream 503",
		SamplesErr: "upstream 503",
		Localize:   locale.Localizer("en"),
	})
	out := encode(t, g)

	if !strings.Contains(out, "tide data unavailable") {
		t.Errorf("missing tide error message")
	}
	if strings.Contains(out, "water level unavailable") {
		t.Errorf("only one message may be shown")
	}
}

func TestDrawWaterLevelErrorMessage(t *testing.T) {
	g := New(testDay, testEvents(95), nil, Options{
		SamplesErr: "upstream 503",
		Localize:   locale.Localizer("en"),
	})
	out := encode(t, g)

	if !strings.Contains(out, "water level unavailable") {
		t.Errorf("missing water level error message in %q", out)
	}
}

func TestCurrentTimeMarkerLifecycle(t *testing.T) {
	noon := time.Date(2026, time.August, 25, 12, 0, 0, 0, time.UTC)

	g := New(testDay, testEvents(95), testSamples(), Options{Now: noon, Location: time.UTC})
	if g.Marker() == nil {
		t.Fatalf("noon on the rendered day should produce a marker")
	}
	m := g.Marker()
	if m.TotalMinutes != 720 || m.Height != 6.0 {
		t.Errorf("marker = %+v, want noon at 6.0m", m)
	}
	if m.TimeLabel != "12:00" || m.HeightLabel != "6.00m" {
		t.Errorf("marker labels = %q %q", m.TimeLabel, m.HeightLabel)
	}
	if out := encode(t, g); !strings.Contains(out, `class="current-dot`) {
		t.Errorf("marker should draw the current-time dot")
	}

	// Different day: no marker, no dot.
	g = New(testDay, testEvents(95), testSamples(), Options{
		Now:      noon.AddDate(0, 0, 3),
		Location: time.UTC,
	})
	if g.Marker() != nil {
		t.Errorf("marker must not survive onto other days")
	}
	if out := encode(t, g); strings.Contains(out, `class="current-dot`) {
		t.Errorf("no dot without a marker")
	}

	// Outside the sampled curve (early morning before the first sample).
	g = New(testDay, testEvents(95), testSamples(), Options{
		Now:      time.Date(2026, time.August, 25, 2, 0, 0, 0, time.UTC),
		Location: time.UTC,
	})
	if g.Marker() != nil {
		t.Errorf("no marker outside the sampled time range")
	}
}

func TestDrawDepthRelativeModes(t *testing.T) {
	minDepth := 3.5
	g := New(testDay, testEvents(95), testSamples(), Options{
		Mode:     ModeRelativeToMinDepth,
		MinDepth: &minDepth,
		Now:      time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	out := encode(t, g)

	if !strings.Contains(out, `class="area navigable"`) || !strings.Contains(out, `class="area shallow"`) {
		t.Errorf("depth mode should split the fill into zones")
	}
	if !strings.Contains(out, `class="ref-depth"`) {
		t.Errorf("depth mode should draw the reference line")
	}

	// Without a depth the mode falls back to the plain fill.
	g = New(testDay, testEvents(95), testSamples(), Options{
		Mode: ModeRelativeToMinDepth,
		Now:  time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	out = encode(t, g)
	if strings.Contains(out, "shallow") {
		t.Errorf("no reference depth, no zones")
	}

	// RelativeToNow needs the current-time marker.
	g = New(testDay, testEvents(95), testSamples(), Options{
		Mode:     ModeRelativeToNow,
		Now:      time.Date(2026, time.August, 25, 12, 0, 0, 0, time.UTC),
		Location: time.UTC,
	})
	out = encode(t, g)
	if !strings.Contains(out, `class="area shallow"`) {
		t.Errorf("now-relative mode should split the fill when the marker exists")
	}
}

func TestDrawUnorderedEventsAreSorted(t *testing.T) {
	events := shom.Events{
		{Type: shom.LowTide, Time: 18 * 60, Height: 2.0},
		{Type: shom.HighTide, Time: 12 * 60, Height: 6.0, Coefficient: coeff(80)},
	}
	g := New(testDay, events, testSamples(), Options{
		Now: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	if g.events[0].Time != 12*60 {
		t.Errorf("events should be sorted by time before use")
	}
	encode(t, g)
}
