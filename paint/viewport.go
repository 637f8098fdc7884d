package paint

import "math"

// Default zoom limits and step.
const (
	DefaultMinZoom  = 0.1
	DefaultMaxZoom  = 5.0
	DefaultZoomStep = 0.1
)

// ViewState is the persistable part of a Viewport.
type ViewState struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"pan_x"`
	PanY float64 `json:"pan_y"`
}

// Viewport maps client (screen) coordinates onto the canvas.
// Zoom always stays within the configured limits.
type Viewport struct {
	zoom       float64
	panX, panY float64
	width      int
	height     int

	minZoom, maxZoom float64
	step             float64
}

// NewViewport returns a viewport over a width x height canvas at zoom 1
// with the default limits.
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		zoom:    1,
		width:   width,
		height:  height,
		minZoom: DefaultMinZoom,
		maxZoom: DefaultMaxZoom,
		step:    DefaultZoomStep,
	}
}

// SetLimits changes the zoom range and step. Invalid values keep the
// defaults. The current zoom is clamped into the new range.
func (v *Viewport) SetLimits(minZoom, maxZoom, step float64) {
	if !(minZoom > 0) || math.IsInf(minZoom, 0) {
		minZoom = DefaultMinZoom
	}
	if !(maxZoom >= minZoom) || math.IsInf(maxZoom, 0) {
		maxZoom = math.Max(DefaultMaxZoom, minZoom)
	}
	if !(step > 0) || math.IsInf(step, 0) {
		step = DefaultZoomStep
	}
	v.minZoom, v.maxZoom, v.step = minZoom, maxZoom, step
	v.SetZoom(v.zoom)
}

// Limits returns the zoom range.
func (v *Viewport) Limits() (minZoom, maxZoom float64) { return v.minZoom, v.maxZoom }

// Zoom returns the zoom factor.
func (v *Viewport) Zoom() float64 { return v.zoom }

// Pan returns the pan offset in canvas units.
func (v *Viewport) Pan() (x, y float64) { return v.panX, v.panY }

// Size returns the logical canvas size.
func (v *Viewport) Size() (width, height int) { return v.width, v.height }

func (v *Viewport) setSize(width, height int) { v.width, v.height = width, height }

// SetZoom sets the zoom factor, clamped to the limits. NaN is ignored.
func (v *Viewport) SetZoom(z float64) {
	if math.IsNaN(z) {
		return
	}
	v.zoom = math.Min(math.Max(z, v.minZoom), v.maxZoom)
}

// ZoomIn increases the zoom by one step.
func (v *Viewport) ZoomIn() { v.SetZoom(v.zoom + v.step) }

// ZoomOut decreases the zoom by one step.
func (v *Viewport) ZoomOut() { v.SetZoom(v.zoom - v.step) }

// SetPan sets the pan offset.
func (v *Viewport) SetPan(x, y float64) { v.panX, v.panY = x, y }

// ResetView restores zoom 1 and no pan.
func (v *Viewport) ResetView() {
	v.SetZoom(1)
	v.panX, v.panY = 0, 0
}

// ToCanvas converts client coordinates to canvas space. No rounding is
// applied.
func (v *Viewport) ToCanvas(clientX, clientY float64) Point {
	return Point{
		X: clientX/v.zoom - v.panX,
		Y: clientY/v.zoom - v.panY,
	}
}

// ToClient is the inverse of ToCanvas.
func (v *Viewport) ToClient(p Point) (x, y float64) {
	return (p.X + v.panX) * v.zoom, (p.Y + v.panY) * v.zoom
}

// State returns the zoom and pan.
func (v *Viewport) State() ViewState {
	return ViewState{Zoom: v.zoom, PanX: v.panX, PanY: v.panY}
}

// SetState applies a saved zoom and pan. Zoom is clamped as usual; a zero
// zoom is treated as 1.
func (v *Viewport) SetState(s ViewState) {
	if s.Zoom == 0 {
		s.Zoom = 1
	}
	v.SetZoom(s.Zoom)
	v.SetPan(s.PanX, s.PanY)
}
