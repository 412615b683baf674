package graph

import (
	"math"

	"github.com/marees/tidegraph/pkg/shom"
)

// Point is one usable interpolation point on the day's curve.
type Point struct {
	Minutes float64
	Height  float64
}

// NormalizePoints flattens a day's water-level series into a single clean
// sequence ready for interpolation. Null-height entries are dropped, and
// when the feed delivers multiple sub-sequences (daylight-saving transition
// days) the overlap is resolved by keeping the first occurrence: a later
// sub-sequence contributes only entries strictly after the last timestamp
// already kept.
func NormalizePoints(samples shom.Samples) []Point {
	var out []Point
	last := math.Inf(-1)
	for _, group := range samples {
		for _, s := range group {
			if math.IsNaN(s.Height) || math.IsInf(s.Height, 0) {
				continue
			}
			m := float64(s.Time.Minutes())
			if m <= last {
				continue
			}
			out = append(out, Point{Minutes: m, Height: s.Height})
			last = m
		}
	}
	return out
}

// InterpolateHeight returns the piecewise-linear height of the curve at
// totalMinutes. Outside the sampled range the nearest endpoint's height is
// returned, never an extrapolation. ok is false when fewer than two points
// exist.
func InterpolateHeight(points []Point, totalMinutes float64) (height float64, ok bool) {
	if len(points) < 2 {
		return 0, false
	}
	first, last := points[0], points[len(points)-1]
	if totalMinutes <= first.Minutes {
		return first.Height, true
	}
	if totalMinutes >= last.Minutes {
		return last.Height, true
	}

	// Binary search for the segment containing totalMinutes.
	lo, hi := 0, len(points)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if points[mid].Minutes <= totalMinutes {
			lo = mid
		} else {
			hi = mid
		}
	}

	p0, p1 := points[lo], points[hi]
	dt := p1.Minutes - p0.Minutes
	if dt == 0 {
		// Coincident timestamps: the earlier point wins.
		return p0.Height, true
	}
	frac := (totalMinutes - p0.Minutes) / dt
	return p0.Height + frac*(p1.Height-p0.Height), true
}

// pointExtremes returns the min and max heights and the time range covered
// by the points. Callers must ensure len(points) >= 1.
func pointExtremes(points []Point) (minH, maxH, minM, maxM float64) {
	minH, maxH = points[0].Height, points[0].Height
	minM, maxM = points[0].Minutes, points[len(points)-1].Minutes
	for _, p := range points {
		if p.Height < minH {
			minH = p.Height
		}
		if p.Height > maxH {
			maxH = p.Height
		}
	}
	return minH, maxH, minM, maxM
}
