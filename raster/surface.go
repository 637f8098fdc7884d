// Package raster holds the pure drawing functions of the canvas: strokes,
// outline shapes, flood fill, grid overlay, layer compositing and buffer
// resizing.
//
// All surfaces are *image.RGBA (premultiplied alpha) anchored at the origin.
// Coordinates are canvas-space floats; rounding happens here and nowhere
// else.
package raster

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Point is a canvas-space position.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// NewSurface allocates a transparent surface.
func NewSurface(width, height int) *image.RGBA {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

// Clone returns an independent copy of src.
func Clone(src *image.RGBA) *image.RGBA {
	dst := &image.RGBA{
		Pix:    make([]uint8, len(src.Pix)),
		Stride: src.Stride,
		Rect:   src.Rect,
	}
	copy(dst.Pix, src.Pix)
	return dst
}

// Fill paints the whole surface with c, replacing what was there.
func Fill(dst *image.RGBA, c color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// ClearRect makes the pixels of r transparent.
func ClearRect(dst *image.RGBA, r image.Rectangle) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, image.Transparent, image.Point{}, draw.Src)
}

// Resize returns a width x height surface holding src copied into its
// top-left corner. Content is never scaled: growing pads with transparent
// pixels and shrinking crops.
func Resize(src *image.RGBA, width, height int) *image.RGBA {
	dst := NewSurface(width, height)
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// Thumbnail scales src to fit inside a maxSide square, keeping its aspect.
func Thumbnail(src image.Image, maxSide int) *image.RGBA {
	b := src.Bounds()
	if maxSide < 1 || b.Empty() {
		return NewSurface(0, 0)
	}
	w, h := maxSide, maxSide
	if b.Dx() > b.Dy() {
		h = max(1, b.Dy()*maxSide/b.Dx())
	} else if b.Dy() > b.Dx() {
		w = max(1, b.Dx()*maxSide/b.Dy())
	}
	dst := NewSurface(w, h)
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// IsBlank reports whether every pixel of img is fully transparent.
func IsBlank(img *image.RGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return false
		}
	}
	return true
}
