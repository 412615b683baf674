package graph

import (
	"fmt"
	"io"
	"log"
	"math"
	"sort"
	"time"

	"github.com/marees/tidegraph/pkg/shom"
	"github.com/marees/tidegraph/pkg/sunset"
	"github.com/marees/tidegraph/pkg/timetricks"
)

// DisplayMode selects the fill strategy for the area under the curve.
type DisplayMode int

const (
	// ModePlain fills the whole area in one color.
	ModePlain DisplayMode = iota
	// ModeRelativeToNow splits the fill at the current water height.
	ModeRelativeToNow
	// ModeRelativeToMinDepth splits the fill at the harbor's minimum
	// navigable depth.
	ModeRelativeToMinDepth
)

// Message keys for the placeholder scenes. Resolved through the localizer.
const (
	MsgNoTideData    = "graph.tide_data_unavailable"
	MsgNoWaterLevels = "graph.water_level_unavailable"
	MsgEmptyDay      = "graph.no_data_for_day"
)

const (
	tickIntervalMinutes = 8 * 60

	arrowHalfWidth = 4.0
	arrowHeight    = 6.0
	arrowGap       = 8.0
	labelStep      = 11.0
	badgeGap       = 16.0

	currentDotRadius = 4.0

	colorCurve     = "#1d6fa5"
	colorFill      = "#a8d5f2"
	colorNavigable = "#7fcf9b"
	colorShallow   = "#e98a7b"
	colorAxis      = "#5b6770"
	colorBadge     = "#f2f2f2"
	colorBadgeEdge = "#8a939b"
	colorCoeff     = "#30414f"
	colorWarn      = "#d4553a"
	colorDaytime   = "#fdf7df"
	colorNight     = "#2b3d63"
	colorDot       = "#e0b23c"
)

// CurrentTimeMarker is the "now" indicator, computed only when the rendered
// day is the real-world current day and the current time falls inside the
// sampled curve. It lives for one draw cycle.
type CurrentTimeMarker struct {
	X, Y         float64
	TimeLabel    string
	HeightLabel  string
	TotalMinutes float64
	Height       float64
}

// Options carries the optional inputs for one draw.
type Options struct {
	Mode DisplayMode
	// MinDepth is the harbor's minimum navigable depth in meters, when known.
	MinDepth *float64
	// WaterTemp is surfaced to the interaction tooltip, never drawn.
	WaterTemp *float64
	// SunEvents enables day/night shading bands when non-empty.
	SunEvents sunset.SunEvents
	// Localize resolves message keys. Nil leaves keys untranslated.
	Localize func(key string) string
	// EventsErr and SamplesErr carry error-shaped collaborator input.
	EventsErr  string
	SamplesErr string
	// Now is the wall clock for current-time logic. Zero means time.Now().
	Now time.Time
	// Location is the harbor's time zone. Nil means time.Local.
	Location *time.Location
}

// Graph holds the fully derived scene for one day. Build one with New per
// draw; it owns no state beyond that cycle.
type Graph struct {
	day    shom.DayKey
	events shom.Events
	points []Point
	opts   Options

	domain Domain
	marker *CurrentTimeMarker
	msgKey string
}

// New derives the scene for one day. Tide events may arrive unordered and
// are sorted by time here. Water-level samples are normalized before use.
func New(day shom.DayKey, events shom.Events, samples shom.Samples, opts Options) *Graph {
	g := &Graph{day: day, opts: opts}

	if opts.Now.IsZero() {
		g.opts.Now = time.Now()
	}
	if opts.Location == nil {
		g.opts.Location = time.Local
	}

	switch {
	case opts.EventsErr != "" || len(events) == 0:
		g.msgKey = MsgNoTideData
		return g
	case opts.SamplesErr != "" || samples == nil:
		g.msgKey = MsgNoWaterLevels
		return g
	}

	g.events = make(shom.Events, len(events))
	copy(g.events, events)
	sort.Slice(g.events, func(i, j int) bool {
		return g.events[i].Time < g.events[j].Time
	})

	g.points = NormalizePoints(samples)
	if len(g.points) < 2 {
		g.msgKey = MsgEmptyDay
		return g
	}

	minH, maxH, _, _ := pointExtremes(g.points)
	lo, hi := heightDomain(minH, maxH, LogicalHeight-marginTop-marginBottom)
	g.domain = Domain{
		MarginTop:    marginTop,
		MarginRight:  marginRight,
		MarginBottom: marginBottom,
		MarginLeft:   marginLeft,
		Width:        LogicalWidth,
		Height:       LogicalHeight,
		MinMinutes:   0,
		MaxMinutes:   minutesPerDay,
		HeightMin:    lo,
		HeightMax:    hi,
	}

	g.marker = g.computeMarker()
	return g
}

// Domain returns the coordinate frame derived for this draw. The zero Domain
// is returned when the scene is a placeholder message.
func (g *Graph) Domain() Domain { return g.domain }

// Points returns the normalized interpolation points.
func (g *Graph) Points() []Point { return g.points }

// Marker returns the current-time marker, or nil when the day is not today
// or the current time falls outside the sampled curve.
func (g *Graph) Marker() *CurrentTimeMarker { return g.marker }

// WaterTemp returns the optional water temperature for tooltip use.
func (g *Graph) WaterTemp() *float64 { return g.opts.WaterTemp }

func (g *Graph) computeMarker() *CurrentTimeMarker {
	now := g.opts.Now.In(g.opts.Location)
	if !timetricks.SameDay(now, g.dayStart()) {
		return nil
	}
	minutes := float64(now.Hour()*60 + now.Minute())
	first, last := g.points[0], g.points[len(g.points)-1]
	if minutes < first.Minutes || minutes > last.Minutes {
		return nil
	}
	h, ok := InterpolateHeight(g.points, minutes)
	if !ok {
		return nil
	}
	x, y := g.domain.TimeToX(minutes), g.domain.HeightToY(h)
	if !finite(x, y) {
		return nil
	}
	return &CurrentTimeMarker{
		X:            x,
		Y:            y,
		TimeLabel:    shom.ClockTime(int(minutes)).String(),
		HeightLabel:  fmt.Sprintf("%.2fm", h),
		TotalMinutes: minutes,
		Height:       h,
	}
}

func (g *Graph) dayStart() time.Time {
	t, err := g.day.Time(g.opts.Location)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (g *Graph) msg(key string) string {
	if g.opts.Localize == nil {
		return key
	}
	return g.opts.Localize(key)
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Encode writes the scene as SVG. Failure modes never panic: error-shaped or
// missing input produces a single centered message, and any element whose
// geometry would be non-finite is skipped with a diagnostic.
func (g *Graph) Encode(w io.Writer) (int, error) {
	var n int
	var err error
	io := func(nextn int, nexterr error) {
		n += nextn
		if nexterr != nil {
			err = nexterr
		}
	}

	io(fmt.Fprintf(w, `<svg viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`,
		LogicalWidth, LogicalHeight))

	if g.msgKey != "" {
		io(fmt.Fprintf(w, `<text class="message fixed-scale" x="%d" y="%d" text-anchor="middle" fill="%s">%s</text>`,
			LogicalWidth/2, LogicalHeight/2, colorAxis, g.msg(g.msgKey)))
		io(fmt.Fprintf(w, `</svg>`))
		return n, err
	}

	g.encodeSunBands(w, io)
	g.encodeArea(w, io)
	g.encodeCurve(w, io)
	g.encodeAxis(w, io)
	for _, e := range g.events {
		g.encodeTideMarker(w, io, e)
	}
	g.encodeCurrentDot(w, io)

	// Transparent hit region for the pointer interaction layer.
	io(fmt.Fprintf(w, `<rect class="hit-region" fill="transparent" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`,
		g.domain.MarginLeft, g.domain.MarginTop,
		g.domain.innerWidth(), g.domain.innerHeight()))

	io(fmt.Fprintf(w, `</svg>`))
	return n, err
}

// encodeSunBands draws a daylight band and night shadows behind the curve,
// when sun events are available for the day.
func (g *Graph) encodeSunBands(w io.Writer, io func(int, error)) {
	rise, set, ok := g.opts.SunEvents.DaylightWindow(g.dayStart())
	if !ok {
		return
	}
	risex := g.domain.TimeToX(minutesOf(rise))
	setx := g.domain.TimeToX(minutesOf(set))
	if !finite(risex, setx) {
		log.Printf("graph: skipping sun bands for %s, non-finite geometry", g.day)
		return
	}
	io(fmt.Fprintf(w, `<rect class="daytime" fill="%s" x="%.1f" y="0" width="%.1f" height="%d"/>`,
		colorDaytime, risex, setx-risex, LogicalHeight))
	io(fmt.Fprintf(w, `<rect class="night" fill="%s" fill-opacity="12%%" x="0" y="0" width="%.1f" height="%d"/>`,
		colorNight, risex, LogicalHeight))
	io(fmt.Fprintf(w, `<rect class="night" fill="%s" fill-opacity="12%%" x="%.1f" y="0" width="%.1f" height="%d"/>`,
		colorNight, setx, float64(LogicalWidth)-setx, LogicalHeight))
}

func minutesOf(t time.Time) float64 {
	return float64(t.Hour()*60 + t.Minute())
}

// areaPath builds the closed path: the curve polyline plus a baseline along
// the bottom margin.
func (g *Graph) areaPath() string {
	var path string
	bottom := g.domain.Height - g.domain.MarginBottom
	first := true
	for _, p := range g.points {
		x, y := g.domain.TimeToX(p.Minutes), g.domain.HeightToY(p.Height)
		if !finite(x, y) {
			log.Printf("graph: skipping area point at %.0f min, non-finite geometry", p.Minutes)
			continue
		}
		if first {
			path = fmt.Sprintf("M %.1f,%.1f ", x, bottom)
			first = false
		}
		path += fmt.Sprintf("L %.1f,%.1f ", x, y)
	}
	if path == "" {
		return ""
	}
	last := g.points[len(g.points)-1]
	path += fmt.Sprintf("L %.1f,%.1f z", g.domain.TimeToX(last.Minutes), bottom)
	return path
}

func (g *Graph) encodeArea(w io.Writer, io func(int, error)) {
	path := g.areaPath()
	if path == "" {
		return
	}

	ref, refOK := g.referenceHeight()
	if !refOK {
		io(fmt.Fprintf(w, `<path class="area" fill="%s" fill-opacity="0.55" d="%s"/>`,
			colorFill, path))
		return
	}

	// Depth-relative modes: paint the area once in the navigable color,
	// then repaint the slice below the reference height via a clip rect.
	yref := g.domain.HeightToY(ref)
	bottom := g.domain.Height - g.domain.MarginBottom
	if !finite(yref) || yref > bottom {
		yref = bottom
	}
	if yref < g.domain.MarginTop {
		yref = g.domain.MarginTop
	}
	io(fmt.Fprintf(w, `<clipPath id="below-ref"><rect x="0" y="%.1f" width="%d" height="%.1f"/></clipPath>`,
		yref, LogicalWidth, bottom-yref))
	io(fmt.Fprintf(w, `<path class="area navigable" fill="%s" fill-opacity="0.55" d="%s"/>`,
		colorNavigable, path))
	io(fmt.Fprintf(w, `<path class="area shallow" fill="%s" fill-opacity="0.55" clip-path="url(#below-ref)" d="%s"/>`,
		colorShallow, path))
	io(fmt.Fprintf(w, `<line class="ref-depth" stroke="%s" stroke-dasharray="4 3" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`,
		colorShallow, g.domain.MarginLeft, yref, g.domain.MarginLeft+g.domain.innerWidth(), yref))
}

// referenceHeight picks the depth the fill is split at, per display mode.
func (g *Graph) referenceHeight() (float64, bool) {
	switch g.opts.Mode {
	case ModeRelativeToNow:
		if g.marker != nil {
			return g.marker.Height, true
		}
	case ModeRelativeToMinDepth:
		if g.opts.MinDepth != nil {
			return *g.opts.MinDepth, true
		}
	}
	return 0, false
}

func (g *Graph) encodeCurve(w io.Writer, io func(int, error)) {
	var path string
	for _, p := range g.points {
		x, y := g.domain.TimeToX(p.Minutes), g.domain.HeightToY(p.Height)
		if !finite(x, y) {
			continue
		}
		if path == "" {
			path = fmt.Sprintf("M %.1f,%.1f ", x, y)
		} else {
			path += fmt.Sprintf("L %.1f,%.1f ", x, y)
		}
	}
	if path == "" {
		return
	}
	io(fmt.Fprintf(w, `<path class="curve" fill="none" stroke="%s" stroke-width="1.5" d="%s"/>`,
		colorCurve, path))
}

func (g *Graph) encodeAxis(w io.Writer, io func(int, error)) {
	bottom := g.domain.Height - g.domain.MarginBottom
	io(fmt.Fprintf(w, `<line class="axis" stroke="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`,
		colorAxis, g.domain.MarginLeft, bottom, g.domain.MarginLeft+g.domain.innerWidth(), bottom))

	for m := 0; m <= minutesPerDay; m += tickIntervalMinutes {
		x := g.domain.TimeToX(float64(m))
		if !finite(x) {
			continue
		}
		io(fmt.Fprintf(w, `<line class="tick" stroke="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`,
			colorAxis, x, bottom, x, bottom+3))
		label := shom.ClockTime(m % minutesPerDay).String()
		io(fmt.Fprintf(w, `<text class="tick-label fixed-scale" x="%.1f" y="%.1f" text-anchor="middle" font-size="9" fill="%s">%s</text>`,
			x, bottom+13, colorAxis, label))
	}
}

// encodeTideMarker draws one tide event: a directional arrow offset from the
// curve point, time and height labels, and for high tides a coefficient
// badge linked by a dashed line.
func (g *Graph) encodeTideMarker(w io.Writer, io func(int, error), e shom.Event) {
	x := g.domain.TimeToX(float64(e.Time.Minutes()))
	y := g.domain.HeightToY(e.Height)
	if !finite(x, y) {
		log.Printf("graph: skipping tide marker at %s, non-finite geometry", e.Time)
		return
	}

	high := e.Type == shom.HighTide
	var arrow string
	var labelY float64
	if high {
		tip := y - arrowGap
		arrow = fmt.Sprintf("M %.1f,%.1f L %.1f,%.1f L %.1f,%.1f z",
			x, tip, x-arrowHalfWidth, tip+arrowHeight, x+arrowHalfWidth, tip+arrowHeight)
		labelY = tip - 4
	} else {
		tip := y + arrowGap
		arrow = fmt.Sprintf("M %.1f,%.1f L %.1f,%.1f L %.1f,%.1f z",
			x, tip, x-arrowHalfWidth, tip-arrowHeight, x+arrowHalfWidth, tip-arrowHeight)
		labelY = tip + labelStep
	}
	io(fmt.Fprintf(w, `<path class="tide-arrow" fill="%s" d="%s"/>`, colorCurve, arrow))

	io(fmt.Fprintf(w, `<text class="tide-time fixed-scale" x="%.1f" y="%.1f" text-anchor="middle" font-size="9" fill="%s">%s</text>`,
		x, labelY, colorCoeff, e.Time))
	if high {
		labelY -= labelStep
	} else {
		labelY += labelStep
	}
	io(fmt.Fprintf(w, `<text class="tide-height fixed-scale" x="%.1f" y="%.1f" text-anchor="middle" font-size="9" fill="%s">%.2fm</text>`,
		x, labelY, colorCoeff, e.Height))

	if high && e.Coefficient != nil {
		g.encodeCoeffBadge(w, io, x, labelY-badgeGap, *e.Coefficient)
	}
}

func (g *Graph) encodeCoeffBadge(w io.Writer, io func(int, error), x, y float64, coeff int) {
	if !finite(x, y) {
		return
	}
	const bw, bh = 22.0, 13.0
	textColor := colorCoeff
	if coeff >= 100 {
		textColor = colorWarn
	}
	io(fmt.Fprintf(w, `<g class="coeff-badge fixed-scale">`))
	io(fmt.Fprintf(w, `<line stroke="%s" stroke-dasharray="2 2" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`,
		colorBadgeEdge, x, y+2, x, y+badgeGap-3))
	io(fmt.Fprintf(w, `<rect fill="%s" stroke="%s" rx="4" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`,
		colorBadge, colorBadgeEdge, x-bw/2, y-bh+3, bw, bh))
	io(fmt.Fprintf(w, `<text x="%.1f" y="%.1f" text-anchor="middle" font-size="9" fill="%s">%d</text>`,
		x, y, textColor, coeff))
	io(fmt.Fprintf(w, `</g>`))
}

func (g *Graph) encodeCurrentDot(w io.Writer, io func(int, error)) {
	if g.marker == nil {
		return
	}
	io(fmt.Fprintf(w, `<circle class="current-dot fixed-scale" fill="%s" stroke="white" stroke-width="1" cx="%.1f" cy="%.1f" r="%.1f"/>`,
		colorDot, g.marker.X, g.marker.Y, currentDotRadius))
}
