package graph

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/marees/tidegraph/pkg/shom"
)

func TestInterpolateMidpointIsExact(t *testing.T) {
	points := []Point{
		{Minutes: 360, Height: 2.0},
		{Minutes: 720, Height: 6.0},
		{Minutes: 1080, Height: 2.0},
	}
	table := []struct {
		at   float64
		want float64
	}{
		{at: 540, want: 4.0},  // midpoint of the rising segment
		{at: 900, want: 4.0},  // midpoint of the falling segment
		{at: 720, want: 6.0},  // exactly on a sample
		{at: 450, want: 3.0},  // quarter point
	}
	for _, tc := range table {
		got, ok := InterpolateHeight(points, tc.at)
		if !ok {
			t.Errorf("at %v: unexpectedly not ok", tc.at)
			continue
		}
		if got != tc.want {
			t.Errorf("at %v: got %v, want %v exactly", tc.at, got, tc.want)
		}
	}
}

func TestInterpolateClampsNotExtrapolates(t *testing.T) {
	points := []Point{
		{Minutes: 360, Height: 2.0},
		{Minutes: 1080, Height: 5.0},
	}
	if got, ok := InterpolateHeight(points, 0); !ok || got != 2.0 {
		t.Errorf("before first sample: got (%v, %v), want the first height", got, ok)
	}
	if got, ok := InterpolateHeight(points, 1440); !ok || got != 5.0 {
		t.Errorf("after last sample: got (%v, %v), want the last height", got, ok)
	}
}

func TestInterpolateTooFewPoints(t *testing.T) {
	if _, ok := InterpolateHeight(nil, 720); ok {
		t.Errorf("nil points should not interpolate")
	}
	if _, ok := InterpolateHeight([]Point{{Minutes: 720, Height: 3}}, 720); ok {
		t.Errorf("a single point should not interpolate")
	}
}

func TestInterpolateZeroTimeDelta(t *testing.T) {
	// Coincident timestamps must not divide by zero; the earlier point wins.
	points := []Point{
		{Minutes: 600, Height: 2.0},
		{Minutes: 600, Height: 5.0},
		{Minutes: 720, Height: 3.0},
	}
	got, ok := InterpolateHeight(points, 600)
	if !ok || got != 2.0 {
		t.Errorf("got (%v, %v), want the earlier point's 2.0", got, ok)
	}
}

func TestNormalizeDropsNaNHeights(t *testing.T) {
	samples := shom.Samples{{
		{Time: 0, Height: 4.0},
		{Time: 10, Height: math.NaN()},
		{Time: 20, Height: 4.2},
	}}
	got := NormalizePoints(samples)
	want := []Point{{0, 4.0}, {20, 4.2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected points (-want,+got):\n%s", diff)
	}
}

func TestNormalizeMergesTransitionDaySubsequences(t *testing.T) {
	// Two overlapping sub-sequences, as delivered around a daylight-saving
	// change. Only entries strictly after the last kept timestamp survive
	// from the second group: the first occurrence wins.
	samples := shom.Samples{
		{
			{Time: 110, Height: 3.1},
			{Time: 120, Height: 3.2},
		},
		{
			{Time: 120, Height: 9.9},
			{Time: 130, Height: 3.3},
		},
	}
	got := NormalizePoints(samples)
	want := []Point{{110, 3.1}, {120, 3.2}, {130, 3.3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected points (-want,+got):\n%s", diff)
	}
}

func TestNormalizeGappedSubsequences(t *testing.T) {
	samples := shom.Samples{
		{{Time: 60, Height: 1.0}},
		{{Time: 180, Height: 2.0}},
	}
	got := NormalizePoints(samples)
	want := []Point{{60, 1.0}, {180, 2.0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected points (-want,+got):\n%s", diff)
	}
}
