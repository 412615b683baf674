package graph

// The drawing surface uses a fixed logical coordinate space stretched by the
// host to fill its container. All geometry below is expressed in this space.
const (
	LogicalWidth  = 500
	LogicalHeight = 300

	marginTop    = 20.0
	marginRight  = 12.0
	marginBottom = 28.0
	marginLeft   = 34.0

	// The horizontal domain is always exactly one calendar day.
	minutesPerDay = 24 * 60
)

// Domain is the derived coordinate frame for one draw cycle. It is
// recomputed from the day's samples on every draw and never persisted
// across days.
type Domain struct {
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64
	Width        float64
	Height       float64

	MinMinutes float64
	MaxMinutes float64
	HeightMin  float64
	HeightMax  float64
}

func (d Domain) innerWidth() float64  { return d.Width - d.MarginLeft - d.MarginRight }
func (d Domain) innerHeight() float64 { return d.Height - d.MarginTop - d.MarginBottom }

// Ready reports whether the domain has been established for this draw. The
// zero value is not ready and all mappings through it return the 0 sentinel.
func (d Domain) Ready() bool {
	return d.innerWidth() > 0 && d.innerHeight() > 0 &&
		d.MaxMinutes > d.MinMinutes && d.HeightMax > d.HeightMin
}

// TimeToX maps minutes after midnight onto the inner plot's x range.
func (d Domain) TimeToX(totalMinutes float64) float64 {
	if !d.Ready() {
		return 0
	}
	frac := (totalMinutes - d.MinMinutes) / (d.MaxMinutes - d.MinMinutes)
	return d.MarginLeft + frac*d.innerWidth()
}

// HeightToY maps a water height onto the inner plot's y range. Greater
// heights draw higher on screen, so the mapping is inverted.
func (d Domain) HeightToY(height float64) float64 {
	if !d.Ready() {
		return 0
	}
	frac := (height - d.HeightMin) / (d.HeightMax - d.HeightMin)
	return d.MarginTop + (1-frac)*d.innerHeight()
}

// XToMinutes inverts TimeToX. The input is clamped to the inner plot bounds
// first so off-canvas pointer positions degrade to boundary times instead of
// out-of-range values.
func (d Domain) XToMinutes(x float64) float64 {
	if !d.Ready() {
		return 0
	}
	left := d.MarginLeft
	right := d.MarginLeft + d.innerWidth()
	if x < left {
		x = left
	}
	if x > right {
		x = right
	}
	frac := (x - left) / (right - left)
	return d.MinMinutes + frac*(d.MaxMinutes-d.MinMinutes)
}
