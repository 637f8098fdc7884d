package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// GridSpacing is the distance between grid lines in canvas units.
const GridSpacing = 20.0

// GridColor is the colour of grid lines.
var GridColor color.Color = color.NRGBA{R: 200, G: 200, B: 200, A: 128}

// DrawGrid draws the reference grid over a width x height screen-space area
// of dst. Lines are GridSpacing canvas units apart, scaled by zoom and
// shifted by the pan offset so they stay put in canvas space.
func DrawGrid(dst *image.RGBA, width, height int, zoom, panX, panY float64) {
	step := GridSpacing * zoom
	if step < 1 || math.IsNaN(step) || math.IsInf(step, 0) {
		return
	}
	area := image.Rect(0, 0, width, height).Intersect(dst.Bounds())
	if area.Empty() {
		return
	}
	src := image.NewUniform(GridColor)

	for x := gridPhase(panX*zoom, step); x < float64(area.Max.X); x += step {
		col := int(math.Floor(x))
		draw.Draw(dst, image.Rect(col, area.Min.Y, col+1, area.Max.Y).Intersect(area), src, image.Point{}, draw.Over)
	}
	for y := gridPhase(panY*zoom, step); y < float64(area.Max.Y); y += step {
		row := int(math.Floor(y))
		draw.Draw(dst, image.Rect(area.Min.X, row, area.Max.X, row+1).Intersect(area), src, image.Point{}, draw.Over)
	}
}

// gridPhase returns the first grid line at or right of zero for a screen
// offset, in [0, step).
func gridPhase(offset, step float64) float64 {
	p := math.Mod(offset, step)
	if p < 0 {
		p += step
	}
	return p
}
