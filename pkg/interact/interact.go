// Package interact maps pointer and touch gestures over the tide graph's hit
// region to live (time, height) readouts. It is host-agnostic: the host feeds
// pointer events in logical graph coordinates and supplies sinks for the
// interaction dot and the tooltip.
package interact

import (
	"math"

	"github.com/marees/tidegraph/pkg/graph"
)

const (
	// Snap to the current-time marker inside this pixel radius.
	snapRadius = 10.0
	// Feedback scale applied to the current-time dot while snapped.
	snapScale = 1.3
)

// TooltipDelegate receives fire-and-forget readout notifications.
type TooltipDelegate interface {
	UpdateInteractionTooltip(screenX, screenY, totalMinutes, height float64, waterTemp *float64, snapped bool)
	HideInteractionTooltip()
}

// Dot is a movable marker owned by the host (typically an SVG circle).
type Dot interface {
	MoveTo(x, y float64)
	SetVisible(visible bool)
	SetScale(scale float64)
}

type state int

const (
	idle state = iota
	tracking
)

// Layer is the pointer interaction state machine for one drawn graph. Build
// a fresh Layer per draw; Destroy detaches it so callbacks arriving after
// teardown are ignored.
type Layer struct {
	domain    graph.Domain
	points    []graph.Point
	marker    *graph.CurrentTimeMarker
	waterTemp *float64

	dot      Dot
	nowDot   Dot
	delegate TooltipDelegate

	state     state
	snapped   bool
	destroyed bool
}

// NewLayer wires a Layer to the scene derived by g. nowDot may be nil when
// the graph has no current-time marker.
func NewLayer(g *graph.Graph, dot, nowDot Dot, delegate TooltipDelegate) *Layer {
	return &Layer{
		domain:    g.Domain(),
		points:    g.Points(),
		marker:    g.Marker(),
		waterTemp: g.WaterTemp(),
		dot:       dot,
		nowDot:    nowDot,
		delegate:  delegate,
	}
}

// PointerEnter begins tracking at the given position.
func (l *Layer) PointerEnter(x, y float64) { l.track(x) }

// PointerMove updates the readout while the pointer moves inside the hit
// region.
func (l *Layer) PointerMove(x, y float64) { l.track(x) }

// PointerLeave returns the layer to idle: the interaction dot hides, the
// current-time dot returns to normal size, and the tooltip is told to hide.
func (l *Layer) PointerLeave() { l.toIdle() }

// TouchMove tracks a touch gesture. It returns true while tracking so the
// host suppresses default page scrolling: the gesture is graph interaction,
// not scroll.
func (l *Layer) TouchMove(x, y float64) bool {
	l.track(x)
	return l.state == tracking
}

// TouchEnd ends a touch gesture.
func (l *Layer) TouchEnd() { l.toIdle() }

// TouchCancel ends a touch gesture the host aborted.
func (l *Layer) TouchCancel() { l.toIdle() }

// Snapped reports whether the last update was snapped to the current-time
// marker.
func (l *Layer) Snapped() bool { return l.snapped }

// Destroy synchronously detaches the layer. Events delivered afterwards are
// dropped, which is expected during component teardown races.
func (l *Layer) Destroy() {
	l.toIdle()
	l.destroyed = true
}

// track recomputes the readout for pointer x. Each call synchronously moves
// the interaction dot and notifies the tooltip before returning; there are
// no timers or queues.
func (l *Layer) track(x float64) {
	if l.destroyed || l.dot == nil || !l.domain.Ready() || len(l.points) < 2 {
		// Missing prerequisites abort silently rather than throwing.
		return
	}

	minutes := l.domain.XToMinutes(x)
	// Clamp to the sampled curve's own range, not just the canvas: a
	// pointer past the last sample snaps to the last sample's time.
	if first := l.points[0].Minutes; minutes < first {
		minutes = first
	}
	if last := l.points[len(l.points)-1].Minutes; minutes > last {
		minutes = last
	}

	height, ok := graph.InterpolateHeight(l.points, minutes)
	if !ok {
		return
	}

	dotX := l.domain.TimeToX(minutes)
	dotY := l.domain.HeightToY(height)

	l.state = tracking
	l.dot.MoveTo(dotX, dotY)
	l.dot.SetVisible(true)

	snapped := false
	if l.marker != nil {
		dx, dy := dotX-l.marker.X, dotY-l.marker.Y
		snapped = math.Hypot(dx, dy) < snapRadius
	}
	if snapped != l.snapped && l.nowDot != nil {
		if snapped {
			l.nowDot.SetScale(snapScale)
		} else {
			l.nowDot.SetScale(1.0)
		}
	}
	l.snapped = snapped

	if l.delegate == nil {
		return
	}
	if snapped {
		// While snapped, the marker's exact values win over the fresh
		// interpolation.
		l.delegate.UpdateInteractionTooltip(l.marker.X, l.marker.Y,
			l.marker.TotalMinutes, l.marker.Height, l.waterTemp, true)
	} else {
		l.delegate.UpdateInteractionTooltip(dotX, dotY, minutes, height, l.waterTemp, false)
	}
}

func (l *Layer) toIdle() {
	if l.destroyed || l.state == idle {
		return
	}
	l.state = idle
	l.snapped = false
	if l.dot != nil {
		l.dot.SetVisible(false)
	}
	if l.nowDot != nil {
		l.nowDot.SetScale(1.0)
	}
	if l.delegate != nil {
		l.delegate.HideInteractionTooltip()
	}
}
