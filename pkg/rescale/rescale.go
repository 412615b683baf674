// Package rescale keeps registered elements at constant apparent size while
// the drawing surface's fixed logical coordinate space is stretched to fit
// its container. The geometry is host-independent: elements expose their
// bounding box and accept a transform; the host reports container size
// changes and pumps one pass per animation frame.
package rescale

import "fmt"

// Rect is an axis-aligned bounding box in logical coordinates.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) center() (x, y float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Transform is a uniform scale about a fixed origin, the composition
// translate(origin) scale(k) translate(-origin).
type Transform struct {
	Scale   float64
	OriginX float64
	OriginY float64
}

// Identity leaves points unmoved.
var Identity = Transform{Scale: 1}

// Apply maps a logical point through the transform.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.OriginX + t.Scale*(x-t.OriginX),
		t.OriginY + t.Scale*(y-t.OriginY)
}

// SVG renders the transform as an SVG transform attribute value.
func (t Transform) SVG() string {
	return fmt.Sprintf("translate(%.2f %.2f) scale(%.4f) translate(%.2f %.2f)",
		t.OriginX, t.OriginY, t.Scale, -t.OriginX, -t.OriginY)
}

// Element is a scene node that must keep constant apparent size (labels,
// badges, markers). Detached elements are pruned from the registry.
type Element interface {
	Bounds() Rect
	Attached() bool
	SetTransform(t Transform)
}

// Manager applies inverse scaling to registered elements whenever the
// container's rendered size changes. Size observations only mark state
// dirty; the host drives Flush at animation-frame granularity so repeated
// observations coalesce into one pass.
type Manager struct {
	logicalWidth  float64
	renderedWidth float64
	dirty         bool
	elements      []Element
}

// NewManager creates a Manager for a surface of the given logical width.
func NewManager(logicalWidth float64) *Manager {
	return &Manager{
		logicalWidth:  logicalWidth,
		renderedWidth: logicalWidth,
	}
}

// Register adds an element to the inverse-scaling registry and applies the
// current correction immediately so late registrations do not flicker.
func (m *Manager) Register(e Element) {
	if e == nil {
		return
	}
	m.elements = append(m.elements, e)
	e.SetTransform(m.correctionFor(e))
}

// Observe records a new rendered container width. Cheap to call from every
// resize notification; the work happens in the next Flush.
func (m *Manager) Observe(renderedWidth float64) {
	if renderedWidth <= 0 || renderedWidth == m.renderedWidth {
		return
	}
	m.renderedWidth = renderedWidth
	m.dirty = true
}

// Pending reports whether a Flush would do work.
func (m *Manager) Pending() bool { return m.dirty }

// Flush applies the inverse transform to every attached element, pruning
// detached ones first. The host calls this once per animation frame while
// Pending.
func (m *Manager) Flush() {
	if !m.dirty {
		return
	}
	m.dirty = false

	kept := m.elements[:0]
	for _, e := range m.elements {
		if e.Attached() {
			kept = append(kept, e)
		}
	}
	m.elements = kept

	for _, e := range m.elements {
		e.SetTransform(m.correctionFor(e))
	}
}

// Len returns the number of registered elements, after the last prune.
func (m *Manager) Len() int { return len(m.elements) }

// correctionFor computes the inverse scale about the element's own center so
// it visually keeps constant size while the rest of the scene stretches.
func (m *Manager) correctionFor(e Element) Transform {
	scaleFactor := m.renderedWidth / m.logicalWidth
	if scaleFactor <= 0 {
		return Identity
	}
	cx, cy := e.Bounds().center()
	return Transform{
		Scale:   1 / scaleFactor,
		OriginX: cx,
		OriginY: cy,
	}
}
