package raster

import (
	"image"
	"image/color"
	"math"
)

// DrawLine paints a straight line; it is DrawStroke under the name the
// shape tools use.
func DrawLine(dst *image.RGBA, from, to Point, size float64, c color.Color) {
	DrawStroke(dst, from, to, size, c)
}

// DrawRect paints the outline of the rectangle spanned by two corners.
// Corners are joined round.
func DrawRect(dst *image.RGBA, a, b Point, size float64, c color.Color) {
	r := radius(size)
	if r == 0 {
		return
	}
	tl := Point{math.Min(a.X, b.X), math.Min(a.Y, b.Y)}
	br := Point{math.Max(a.X, b.X), math.Max(a.Y, b.Y)}
	tr := Point{br.X, tl.Y}
	bl := Point{tl.X, br.Y}
	outline{
		capsule(tl, tr, r),
		capsule(tr, br, r),
		capsule(br, bl, r),
		capsule(bl, tl, r),
	}.paint(dst, c)
}

// DrawCircle paints the outline of the circle whose diameter runs from a to
// b, the same shape a drag from a to b produces in the circle tool.
func DrawCircle(dst *image.RGBA, a, b Point, size float64, c color.Color) {
	r := radius(size)
	if r == 0 {
		return
	}
	center := Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
	rad := math.Hypot(b.X-a.X, b.Y-a.Y) / 2

	outer := circle(center, rad+r)
	if rad <= r {
		outline{outer}.paint(dst, c)
		return
	}
	// The inner edge winds the other way to punch the hole.
	inner := circle(center, rad-r)
	for i, j := 0, len(inner)-1; i < j; i, j = i+1, j-1 {
		inner[i], inner[j] = inner[j], inner[i]
	}
	outline{outer, inner}.paint(dst, c)
}
