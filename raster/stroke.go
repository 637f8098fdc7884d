package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// outline is a set of closed polygons filled together as one coverage mask.
// Overlapping polygons with the same winding do not double-blend.
type outline [][]Point

func (o outline) bounds() image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, poly := range o {
		for _, p := range poly {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1,
	)
}

// mask rasterizes o, clipped to clip, into an alpha coverage mask.
// The returned mask is positioned at r in surface coordinates.
func (o outline) mask(clip image.Rectangle) (*image.Alpha, image.Rectangle) {
	r := o.bounds().Intersect(clip)
	if r.Empty() {
		return nil, r
	}

	z := vector.NewRasterizer(r.Dx(), r.Dy())
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	for _, poly := range o {
		if len(poly) < 3 {
			continue
		}
		z.MoveTo(float32(poly[0].X-ox), float32(poly[0].Y-oy))
		for _, p := range poly[1:] {
			z.LineTo(float32(p.X-ox), float32(p.Y-oy))
		}
		z.ClosePath()
	}

	m := image.NewAlpha(image.Rect(0, 0, r.Dx(), r.Dy()))
	z.Draw(m, m.Bounds(), image.Opaque, image.Point{})
	return m, r
}

// paint composites c over dst through the coverage of o.
func (o outline) paint(dst *image.RGBA, c color.Color) {
	m, r := o.mask(dst.Bounds())
	if m == nil {
		return
	}
	draw.DrawMask(dst, r, image.NewUniform(c), image.Point{}, m, image.Point{}, draw.Over)
}

// erase scales dst's pixels down by the coverage of o (destination-out).
// draw.Src with a mask would also clear the uncovered pixels of r.
func (o outline) erase(dst *image.RGBA) {
	m, r := o.mask(dst.Bounds())
	if m == nil {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := dst.Pix[dst.PixOffset(r.Min.X, y):]
		cov := m.Pix[m.PixOffset(0, y-r.Min.Y):]
		for x := 0; x < r.Dx(); x++ {
			a := uint32(cov[x])
			if a == 0 {
				continue
			}
			keep := 255 - a
			px := row[x*4 : x*4+4 : x*4+4]
			for i := range px {
				px[i] = uint8((uint32(px[i])*keep + 127) / 255)
			}
		}
	}
}

// arcSteps returns how many segments approximate half a circle of radius r.
func arcSteps(r float64) int {
	n := int(math.Ceil(math.Pi * r / 2))
	return min(max(n, 6), 96)
}

// circle returns a closed polygon around c. Points run clockwise on screen,
// matching capsule.
func circle(c Point, r float64) []Point {
	n := 2 * arcSteps(r)
	pts := make([]Point, n)
	for i := range pts {
		a := -2 * math.Pi * float64(i) / float64(n)
		pts[i] = Point{c.X + r*math.Cos(a), c.Y + r*math.Sin(a)}
	}
	return pts
}

// capsule returns the outline of a segment from a to b with round caps of
// radius r. Chaining capsules yields round joins.
func capsule(a, b Point, r float64) []Point {
	d := b.Sub(a)
	l := math.Hypot(d.X, d.Y)
	if l < 1e-9 {
		return circle(a, r)
	}

	// Angle of the left normal of a→b.
	theta := math.Atan2(d.X/l, -d.Y/l)
	n := arcSteps(r)
	pts := make([]Point, 0, 2*(n+1))
	for i := 0; i <= n; i++ {
		t := theta - math.Pi*float64(i)/float64(n)
		pts = append(pts, Point{b.X + r*math.Cos(t), b.Y + r*math.Sin(t)})
	}
	for i := 0; i <= n; i++ {
		t := theta - math.Pi - math.Pi*float64(i)/float64(n)
		pts = append(pts, Point{a.X + r*math.Cos(t), a.Y + r*math.Sin(t)})
	}
	return pts
}

func radius(size float64) float64 {
	if size <= 0 || math.IsNaN(size) {
		return 0
	}
	return size / 2
}

// DrawStroke paints a round-capped segment of width size from one point to
// another. A zero-length segment paints a dot.
func DrawStroke(dst *image.RGBA, from, to Point, size float64, c color.Color) {
	r := radius(size)
	if r == 0 {
		return
	}
	outline{capsule(from, to, r)}.paint(dst, c)
}

// EraseStroke clears a round-capped segment of width size, leaving
// transparency behind.
func EraseStroke(dst *image.RGBA, from, to Point, size float64) {
	r := radius(size)
	if r == 0 {
		return
	}
	outline{capsule(from, to, r)}.erase(dst)
}
