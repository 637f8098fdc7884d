package raster

import (
	"image"
	"image/color"
)

// FloodFill replaces the 4-connected region of pixels sharing the colour at
// (x, y) with c. It reports whether any pixel changed.
func FloodFill(dst *image.RGBA, x, y int, c color.Color) bool {
	b := dst.Bounds()
	if !(image.Point{x, y}).In(b) {
		return false
	}
	fill := color.RGBAModel.Convert(c).(color.RGBA)
	want := [4]uint8{fill.R, fill.G, fill.B, fill.A}

	at := func(x, y int) [4]uint8 {
		i := dst.PixOffset(x, y)
		return [4]uint8(dst.Pix[i : i+4])
	}
	set := func(x, y int) {
		i := dst.PixOffset(x, y)
		copy(dst.Pix[i:i+4], want[:])
	}

	seed := at(x, y)
	if seed == want {
		return false
	}

	// Scanline fill: each stack item is a pixel whose run still needs work.
	stack := []image.Point{{x, y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if at(p.X, p.Y) != seed {
			continue
		}

		l := p.X
		for l > b.Min.X && at(l-1, p.Y) == seed {
			l--
		}
		r := p.X
		for r < b.Max.X-1 && at(r+1, p.Y) == seed {
			r++
		}

		for _, ny := range [2]int{p.Y - 1, p.Y + 1} {
			if ny < b.Min.Y || ny >= b.Max.Y {
				continue
			}
			inRun := false
			for i := l; i <= r; i++ {
				if at(i, ny) == seed {
					if !inRun {
						stack = append(stack, image.Point{i, ny})
						inRun = true
					}
				} else {
					inRun = false
				}
			}
		}
		for i := l; i <= r; i++ {
			set(i, p.Y)
		}
	}
	return true
}
