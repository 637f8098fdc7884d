package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Layer is one input to Composite.
type Layer struct {
	Image   *image.RGBA
	Visible bool
	Opacity float64
}

// Composite flattens layers onto dst, bottom first. Hidden layers are
// skipped and every other layer is blended over the result at its opacity.
// dst is cleared first.
func Composite(dst *image.RGBA, layers []Layer) {
	draw.Draw(dst, dst.Bounds(), image.Transparent, image.Point{}, draw.Src)
	for _, l := range layers {
		if !l.Visible || l.Image == nil {
			continue
		}
		a := opacityAlpha(l.Opacity)
		switch a {
		case 0:
			continue
		case 0xff:
			draw.Draw(dst, dst.Bounds(), l.Image, image.Point{}, draw.Over)
		default:
			draw.DrawMask(dst, dst.Bounds(), l.Image, image.Point{}, image.NewUniform(color.Alpha{A: a}), image.Point{}, draw.Over)
		}
	}
}

// Flatten draws img over an opaque background colour.
func Flatten(img image.Image, bg color.Color) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

func opacityAlpha(o float64) uint8 {
	if math.IsNaN(o) || o <= 0 {
		return 0
	}
	if o >= 1 {
		return 0xff
	}
	return uint8(math.Round(o * 0xff))
}
