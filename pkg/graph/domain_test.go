package graph

import (
	"math"
	"testing"
)

func testDomain() Domain {
	return Domain{
		MarginTop:    marginTop,
		MarginRight:  marginRight,
		MarginBottom: marginBottom,
		MarginLeft:   marginLeft,
		Width:        LogicalWidth,
		Height:       LogicalHeight,
		MinMinutes:   0,
		MaxMinutes:   minutesPerDay,
		HeightMin:    0,
		HeightMax:    5,
	}
}

func TestCoordinateRoundTrip(t *testing.T) {
	d := testDomain()
	for _, minutes := range []float64{0, 1, 60, 359.5, 720, 1439, 1440} {
		x := d.TimeToX(minutes)
		got := d.XToMinutes(x)
		if math.Abs(got-minutes) > 1e-9 {
			t.Errorf("round trip %v -> %v -> %v", minutes, x, got)
		}
	}
}

func TestHeightToYInverts(t *testing.T) {
	d := testDomain()
	top := d.HeightToY(d.HeightMax)
	bottom := d.HeightToY(d.HeightMin)
	if top != marginTop {
		t.Errorf("max height should map to the top margin, got %v", top)
	}
	if bottom != LogicalHeight-marginBottom {
		t.Errorf("min height should map to the bottom margin, got %v", bottom)
	}
	if !(top < bottom) {
		t.Errorf("greater heights must draw higher on screen")
	}
}

func TestXToMinutesClampsToPlot(t *testing.T) {
	d := testDomain()
	if got := d.XToMinutes(-50); got != 0 {
		t.Errorf("left of canvas should clamp to 0, got %v", got)
	}
	if got := d.XToMinutes(LogicalWidth + 50); got != minutesPerDay {
		t.Errorf("right of canvas should clamp to %d, got %v", minutesPerDay, got)
	}
}

func TestZeroDomainSentinel(t *testing.T) {
	var d Domain
	if d.Ready() {
		t.Fatalf("zero domain should not be ready")
	}
	if d.TimeToX(720) != 0 || d.HeightToY(3) != 0 || d.XToMinutes(250) != 0 {
		t.Errorf("mappings through an unestablished domain should return 0")
	}
}
