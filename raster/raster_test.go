package raster

import (
	"image"
	"image/color"
	"testing"
)

var (
	black = color.NRGBA{A: 255}
	red   = color.NRGBA{R: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
)

func alphaAt(img *image.RGBA, x, y int) uint8 {
	return img.RGBAAt(x, y).A
}

func TestDrawStrokeCoversSegment(t *testing.T) {
	s := NewSurface(40, 40)
	DrawStroke(s, Point{5, 20}, Point{35, 20}, 6, black)

	tests := []struct {
		name string
		x, y int
		want uint8
	}{
		{"middle", 20, 20, 255},
		{"near end cap", 36, 20, 255},
		{"above stroke", 20, 5, 0},
		{"past end cap", 39, 20, 0},
	}
	for _, tt := range tests {
		if got := alphaAt(s, tt.x, tt.y); got != tt.want {
			t.Errorf("%s: alpha at (%d,%d) = %d, want %d", tt.name, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDrawStrokeZeroLengthIsDot(t *testing.T) {
	s := NewSurface(20, 20)
	DrawStroke(s, Point{10, 10}, Point{10, 10}, 4, black)
	if got := alphaAt(s, 10, 10); got != 255 {
		t.Errorf("dot alpha = %d, want 255", got)
	}
	if got := alphaAt(s, 0, 0); got != 0 {
		t.Errorf("corner alpha = %d, want 0", got)
	}
}

func TestDrawStrokeZeroSizeIsNoop(t *testing.T) {
	s := NewSurface(20, 20)
	DrawStroke(s, Point{1, 1}, Point{15, 15}, 0, black)
	if !IsBlank(s) {
		t.Error("zero-size stroke should not paint")
	}
}

func TestDrawStrokeOutsideSurface(t *testing.T) {
	s := NewSurface(20, 20)
	DrawStroke(s, Point{-50, -50}, Point{-40, -40}, 4, black)
	if !IsBlank(s) {
		t.Error("stroke outside the surface should not paint")
	}
}

func TestEraseStrokeKeepsUncoveredPixels(t *testing.T) {
	s := NewSurface(40, 40)
	Fill(s, red)
	EraseStroke(s, Point{5, 5}, Point{35, 35}, 4)

	if got := alphaAt(s, 20, 20); got != 0 {
		t.Errorf("erased pixel alpha = %d, want 0", got)
	}
	// Inside the stroke's bounding box but away from the line.
	if got := s.RGBAAt(33, 7); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("uncovered pixel = %v, want opaque red", got)
	}
}

func TestDrawRectOutline(t *testing.T) {
	s := NewSurface(40, 40)
	DrawRect(s, Point{30, 30}, Point{10, 10}, 2, black)

	if got := alphaAt(s, 10, 20); got == 0 {
		t.Error("left edge should be painted")
	}
	if got := alphaAt(s, 20, 29); got == 0 {
		t.Error("bottom edge should be painted")
	}
	if got := alphaAt(s, 20, 20); got != 0 {
		t.Errorf("rectangle interior alpha = %d, want 0", got)
	}
}

func TestDrawCircleOutline(t *testing.T) {
	s := NewSurface(40, 40)
	DrawCircle(s, Point{10, 20}, Point{30, 20}, 2, black)

	if got := alphaAt(s, 30, 20); got == 0 {
		t.Error("circle edge should be painted")
	}
	if got := alphaAt(s, 20, 20); got != 0 {
		t.Errorf("circle centre alpha = %d, want 0", got)
	}
}

func TestFloodFillStopsAtBoundary(t *testing.T) {
	s := NewSurface(10, 10)
	for y := 0; y < 10; y++ {
		s.SetRGBA(5, y, color.RGBA{A: 255})
	}

	if !FloodFill(s, 0, 0, red) {
		t.Fatal("FloodFill reported no change")
	}
	if got := s.RGBAAt(2, 7); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("filled pixel = %v, want red", got)
	}
	if got := s.RGBAAt(5, 5); got != (color.RGBA{A: 255}) {
		t.Errorf("wall pixel = %v, want black", got)
	}
	if got := alphaAt(s, 7, 7); got != 0 {
		t.Errorf("pixel beyond wall alpha = %d, want 0", got)
	}
}

func TestFloodFillNoops(t *testing.T) {
	s := NewSurface(4, 4)
	Fill(s, red)
	if FloodFill(s, 1, 1, red) {
		t.Error("filling with the existing colour should be a no-op")
	}
	if FloodFill(s, 10, 10, blue) {
		t.Error("filling outside the surface should be a no-op")
	}
}

func TestDrawGridAnchoredToCanvas(t *testing.T) {
	tests := []struct {
		name       string
		zoom       float64
		panX       float64
		lines, gap []int
	}{
		{"identity", 1, 0, []int{0, 20, 40}, []int{10, 30}},
		{"panned right", 1, 5, []int{5, 25}, []int{0, 20}},
		{"panned left", 1, -5, []int{15, 35}, []int{0, 20}},
		{"zoomed", 2, 0, []int{0, 40, 80}, []int{20, 60}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSurface(100, 100)
			DrawGrid(s, 100, 100, tt.zoom, tt.panX, 0)
			// Row 50 holds no horizontal line at any zoom tested.
			for _, x := range tt.lines {
				if alphaAt(s, x, 50) == 0 {
					t.Errorf("expected grid line at column %d", x)
				}
			}
			for _, x := range tt.gap {
				if alphaAt(s, x, 50) != 0 {
					t.Errorf("unexpected grid line at column %d", x)
				}
			}
		})
	}
}

func TestDrawGridTinyStepSkipped(t *testing.T) {
	s := NewSurface(10, 10)
	DrawGrid(s, 10, 10, 0.01, 0, 0)
	if !IsBlank(s) {
		t.Error("grid with sub-pixel spacing should not be drawn")
	}
}

func TestCompositeOrderVisibilityOpacity(t *testing.T) {
	bottom := NewSurface(2, 2)
	Fill(bottom, red)
	top := NewSurface(2, 2)
	Fill(top, blue)
	dst := NewSurface(2, 2)

	Composite(dst, []Layer{{bottom, true, 1}, {top, true, 1}})
	if got := dst.RGBAAt(0, 0); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("top layer should win: got %v", got)
	}

	Composite(dst, []Layer{{bottom, true, 1}, {top, false, 1}})
	if got := dst.RGBAAt(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("hidden top layer should be skipped: got %v", got)
	}

	Composite(dst, []Layer{{bottom, true, 1}, {top, true, 0.5}})
	got := dst.RGBAAt(1, 1)
	if d := int(got.B) - 128; d < -2 || d > 2 {
		t.Errorf("half-opacity blue = %d, want ~128", got.B)
	}
	if d := int(got.R) - 127; d < -2 || d > 2 {
		t.Errorf("red under half-opacity layer = %d, want ~127", got.R)
	}
}

func TestCompositeClearsDestination(t *testing.T) {
	dst := NewSurface(2, 2)
	Fill(dst, red)
	Composite(dst, nil)
	if !IsBlank(dst) {
		t.Error("composite of no layers should be blank")
	}
}

func TestResizeGrowPreservesPixels(t *testing.T) {
	src := NewSurface(8, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			src.SetRGBA(x, y, color.RGBA{uint8(x * 30), uint8(y * 40), 7, 255})
		}
	}

	dst := Resize(src, 12, 10)
	if dst.Bounds() != image.Rect(0, 0, 12, 10) {
		t.Fatalf("bounds = %v, want 12x10", dst.Bounds())
	}
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			if dst.RGBAAt(x, y) != src.RGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, dst.RGBAAt(x, y), src.RGBAAt(x, y))
			}
		}
	}
	if alphaAt(dst, 11, 9) != 0 {
		t.Error("new area should be transparent")
	}
}

func TestResizeShrinkIsLossy(t *testing.T) {
	src := NewSurface(10, 10)
	Fill(src, red)

	back := Resize(Resize(src, 5, 5), 10, 10)
	if alphaAt(back, 2, 2) != 255 {
		t.Error("kept region should survive the round trip")
	}
	if alphaAt(back, 7, 7) != 0 {
		t.Error("cropped region must not come back after growing again")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	src := NewSurface(3, 3)
	c := Clone(src)
	c.SetRGBA(1, 1, color.RGBA{A: 255})
	if alphaAt(src, 1, 1) != 0 {
		t.Error("writing to a clone changed the source")
	}
}

func TestClearRect(t *testing.T) {
	s := NewSurface(10, 10)
	Fill(s, red)
	ClearRect(s, image.Rect(2, 2, 4, 4))
	if alphaAt(s, 3, 3) != 0 {
		t.Error("pixel inside cleared rect should be transparent")
	}
	if alphaAt(s, 5, 5) != 255 {
		t.Error("pixel outside cleared rect should be untouched")
	}
}

func TestThumbnailKeepsAspect(t *testing.T) {
	src := NewSurface(200, 100)
	Fill(src, red)
	th := Thumbnail(src, 50)
	if th.Bounds().Dx() != 50 || th.Bounds().Dy() != 25 {
		t.Errorf("thumbnail size = %v, want 50x25", th.Bounds().Size())
	}
	if got := th.RGBAAt(25, 12); got.R < 250 || got.A < 250 {
		t.Errorf("thumbnail pixel = %v, want opaque red", got)
	}
}

func TestFlattenOnWhite(t *testing.T) {
	src := NewSurface(2, 2)
	src.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	out := Flatten(src, color.White)
	if got := out.RGBAAt(1, 1); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("transparent pixel flattened to %v, want white", got)
	}
	if got := out.RGBAAt(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("opaque pixel flattened to %v, want red", got)
	}
}
