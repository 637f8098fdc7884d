package paint

import (
	"image"
	"image/color"
	"math"

	"github.com/ha1tch/ddcanvas/raster"
)

// A gesture is the in-flight state of one pointer down/move/up sequence.
// Each tool gets its own variant carrying only what it needs; newGesture is
// the one place that maps tools to variants.
type gesture interface {
	isGesture()
}

// strokeGesture paints (or erases) freehand as the pointer moves.
type strokeGesture struct {
	layer   string
	size    float64
	color   color.NRGBA
	erase   bool
	last    Point
	painted bool
}

// shapeGesture rubber-bands a line, rectangle or circle and rasterizes it
// on release.
type shapeGesture struct {
	layer    string
	kind     Tool
	size     float64
	color    color.NRGBA
	from, to Point
}

// fillGesture flood fills on press; moves do nothing.
type fillGesture struct {
	painted bool
}

// selectGesture drags out the selection rectangle.
type selectGesture struct {
	from Point
}

// panGesture drags the view. It works in client space because the canvas
// moves under the pointer.
type panGesture struct {
	startX, startY float64
	panX, panY     float64
}

func (*strokeGesture) isGesture() {}
func (*shapeGesture) isGesture()  {}
func (*fillGesture) isGesture()   {}
func (*selectGesture) isGesture() {}
func (*panGesture) isGesture()    {}

// Shape is the outline a shape tool will commit on release.
type Shape struct {
	Tool     Tool
	From, To Point
	Size     float64
	Color    color.NRGBA
}

// newGesture starts a gesture for the current tool at canvas point p
// (client point cx, cy). Painting tools aimed at a locked layer start
// nothing.
func (s *Session) newGesture(p Point, cx, cy float64) gesture {
	t := s.tools.Settings()
	active := s.layers.Active()
	paintable := s.layers.paintable(active)

	switch t.Tool {
	case Brush, Eraser:
		if !paintable {
			return nil
		}
		g := &strokeGesture{
			layer: active,
			size:  float64(t.BrushSize),
			color: t.BrushColor,
			erase: t.Tool == Eraser,
			last:  p,
		}
		if g.erase {
			g.size = float64(t.EraserSize)
		}
		s.paintSegment(g, p, p)
		return g
	case Line, Rectangle, Circle:
		if !paintable {
			return nil
		}
		return &shapeGesture{
			layer: active,
			kind:  t.Tool,
			size:  float64(t.BrushSize),
			color: t.BrushColor,
			from:  p,
			to:    p,
		}
	case Fill:
		g := &fillGesture{}
		if !paintable {
			return g
		}
		if dst := s.layers.writable(active); dst != nil {
			x, y := int(math.Floor(p.X)), int(math.Floor(p.Y))
			g.painted = raster.FloodFill(dst, x, y, t.BrushColor)
		}
		if g.painted {
			s.touch()
		}
		return g
	case Select:
		s.setSelection(p, p)
		return &selectGesture{from: p}
	case Pan:
		x, y := s.view.Pan()
		return &panGesture{startX: cx, startY: cy, panX: x, panY: y}
	}
	return nil
}

// moveGesture advances the current gesture to canvas point p.
func (s *Session) moveGesture(p Point, cx, cy float64) {
	switch g := s.gesture.(type) {
	case *strokeGesture:
		s.paintSegment(g, g.last, p)
		g.last = p
	case *shapeGesture:
		g.to = p
	case *selectGesture:
		s.setSelection(g.from, p)
	case *panGesture:
		z := s.view.Zoom()
		s.view.SetPan(g.panX+(cx-g.startX)/z, g.panY+(cy-g.startY)/z)
	case *fillGesture:
	}
}

// endGesture finishes the current gesture and commits its edit, if any.
// When complete is false the pointer was lost mid-gesture: paint already
// applied is kept and committed, but shapes, which only paint on release,
// are dropped.
func (s *Session) endGesture(complete bool) {
	g := s.gesture
	s.gesture = nil

	switch g := g.(type) {
	case *strokeGesture:
		if g.painted {
			s.commit("stroke")
		}
	case *shapeGesture:
		if complete && s.drawShape(g) {
			s.commit(g.kind.String())
		}
	case *fillGesture:
		if g.painted {
			s.commit("fill")
		}
	case *selectGesture, *panGesture:
	}
}

func (s *Session) paintSegment(g *strokeGesture, from, to Point) {
	dst := s.layers.writable(g.layer)
	if dst == nil {
		return
	}
	if g.erase {
		raster.EraseStroke(dst, from, to, g.size)
	} else {
		raster.DrawStroke(dst, from, to, g.size, g.color)
	}
	g.painted = true
	s.touch()
}

func (s *Session) drawShape(g *shapeGesture) bool {
	dst := s.layers.writable(g.layer)
	if dst == nil {
		return false
	}
	switch g.kind {
	case Line:
		raster.DrawLine(dst, g.from, g.to, g.size, g.color)
	case Rectangle:
		raster.DrawRect(dst, g.from, g.to, g.size, g.color)
	case Circle:
		raster.DrawCircle(dst, g.from, g.to, g.size, g.color)
	default:
		return false
	}
	s.touch()
	return true
}

// setSelection stores the pixel rectangle spanned by two canvas points,
// clipped to the canvas.
func (s *Session) setSelection(a, b Point) {
	r := image.Rect(
		int(math.Floor(math.Min(a.X, b.X))), int(math.Floor(math.Min(a.Y, b.Y))),
		int(math.Ceil(math.Max(a.X, b.X))), int(math.Ceil(math.Max(a.Y, b.Y))),
	)
	w, h := s.layers.Size()
	s.selection = r.Intersect(image.Rect(0, 0, w, h))
}
