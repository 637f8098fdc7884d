package paint

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ha1tch/ddcanvas/raster"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	opts := DefaultOptions()
	opts.Width, opts.Height = 128, 96
	return New(opts)
}

func drag(s *Session, pts ...Point) {
	s.PointerDown(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		s.PointerMove(p.X, p.Y)
	}
	last := pts[len(pts)-1]
	s.PointerUp(last.X, last.Y)
}

func historyLen(s *Session) int {
	_, n := s.HistoryPosition()
	return n
}

func TestNewSession(t *testing.T) {
	s := newTestSession(t)

	layers := s.Layers()
	if len(layers) != 1 || layers[0].Name != BackgroundName {
		t.Fatalf("layers = %+v", layers)
	}
	if s.ActiveLayer() != layers[0].ID {
		t.Fatal("background not active")
	}
	if w, h := s.CanvasSize(); w != 128 || h != 96 {
		t.Fatalf("size = %dx%d", w, h)
	}
	if got := s.LayerImage(s.ActiveLayer()).RGBAAt(5, 5); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("background = %+v, want white", got)
	}
	if s.CanUndo() || s.CanRedo() {
		t.Fatal("fresh session has something to undo")
	}
	if i, n := s.HistoryPosition(); i != 0 || n != 1 {
		t.Fatalf("history = %d/%d, want 0/1", i, n)
	}
}

func TestStrokeUndoRedoOnNewLayer(t *testing.T) {
	s := newTestSession(t)

	id := s.AddLayer("")
	if l, _ := s.Layer(id); l.Name != "Layer 2" {
		t.Fatalf("name = %q", l.Name)
	}

	drag(s, Point{X: 10, Y: 10}, Point{X: 50, Y: 50})
	if a := s.LayerImage(id).RGBAAt(30, 30).A; a < 200 {
		t.Fatalf("stroke alpha at (30,30) = %d", a)
	}
	if i, n := s.HistoryPosition(); i != 2 || n != 3 {
		t.Fatalf("history = %d/%d, want 2/3", i, n)
	}

	if !s.Undo() {
		t.Fatal("Undo failed")
	}
	if len(s.Layers()) != 2 {
		t.Fatal("undoing the stroke removed the layer")
	}
	if !raster.IsBlank(s.LayerImage(id)) {
		t.Fatal("layer not blank after undo")
	}

	if !s.Redo() {
		t.Fatal("Redo failed")
	}
	if a := s.LayerImage(id).RGBAAt(30, 30).A; a < 200 {
		t.Fatalf("stroke missing after redo: alpha %d", a)
	}
	if s.CanRedo() {
		t.Fatal("redo available at the newest entry")
	}
}

func TestUndoPastLayerAdd(t *testing.T) {
	s := newTestSession(t)
	s.AddLayer("Ink")
	s.Undo()
	if len(s.Layers()) != 1 {
		t.Fatalf("layers after undo = %d", len(s.Layers()))
	}
	if s.Undo() {
		t.Fatal("undo went past the initial state")
	}
}

func TestHistoryDiscardsRedoBranch(t *testing.T) {
	s := newTestSession(t)
	drag(s, Point{X: 10, Y: 10}, Point{X: 20, Y: 10}) // A
	drag(s, Point{X: 10, Y: 20}, Point{X: 20, Y: 20}) // B
	drag(s, Point{X: 10, Y: 30}, Point{X: 20, Y: 30}) // C
	s.Undo()
	drag(s, Point{X: 10, Y: 40}, Point{X: 20, Y: 40}) // D

	if i, n := s.HistoryPosition(); i != 3 || n != 4 {
		t.Fatalf("history = %d/%d, want 3/4", i, n)
	}
	if s.CanRedo() {
		t.Fatal("C still redoable")
	}
	img := s.LayerImage(s.ActiveLayer())
	if img.RGBAAt(15, 30).R != 255 {
		t.Fatal("C survived")
	}
	if img.RGBAAt(15, 40).R != 0 {
		t.Fatal("D missing")
	}
}

func TestHistoryLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.Width, opts.Height = 32, 32
	opts.HistoryLimit = 5
	s := New(opts)
	for i := 0; i < 10; i++ {
		s.SetLayerOpacity(s.ActiveLayer(), float64(i)/10)
	}
	if n := historyLen(s); n != 5 {
		t.Fatalf("history length = %d, want 5", n)
	}
}

func TestPointerCancelKeepsStroke(t *testing.T) {
	s := newTestSession(t)
	id := s.AddLayer("")
	before := historyLen(s)

	s.PointerDown(10, 10)
	s.PointerMove(40, 10)
	s.PointerCancel()

	if s.Drawing() {
		t.Fatal("gesture still open")
	}
	if historyLen(s) != before+1 {
		t.Fatal("cancelled stroke not committed")
	}
	if s.LayerImage(id).RGBAAt(25, 10).A == 0 {
		t.Fatal("cancelled stroke lost its paint")
	}
}

func TestPointerCancelDropsShape(t *testing.T) {
	s := newTestSession(t)
	id := s.AddLayer("")
	s.Tools().SetTool(Line)
	before := historyLen(s)

	s.PointerDown(10, 10)
	s.PointerMove(60, 60)
	if sh, ok := s.ShapePreview(); !ok || sh.To != (Point{X: 60, Y: 60}) {
		t.Fatalf("preview = %+v, %v", sh, ok)
	}
	s.PointerCancel()

	if historyLen(s) != before {
		t.Fatal("cancelled shape committed")
	}
	if !raster.IsBlank(s.LayerImage(id)) {
		t.Fatal("cancelled shape painted")
	}
	if _, ok := s.ShapePreview(); ok {
		t.Fatal("preview survives cancel")
	}
}

func TestShapeCommitsOnRelease(t *testing.T) {
	for _, tool := range []Tool{Line, Rectangle, Circle} {
		t.Run(tool.String(), func(t *testing.T) {
			s := newTestSession(t)
			id := s.AddLayer("")
			s.Tools().SetTool(tool)
			before := historyLen(s)

			s.PointerDown(10, 10)
			s.PointerMove(30, 30)
			if !raster.IsBlank(s.LayerImage(id)) {
				t.Fatal("shape painted before release")
			}
			s.PointerUp(70, 70)

			if historyLen(s) != before+1 {
				t.Fatal("shape not committed")
			}
			if raster.IsBlank(s.LayerImage(id)) {
				t.Fatal("shape not painted")
			}
		})
	}
}

func TestLockedLayerIgnoresPaint(t *testing.T) {
	s := newTestSession(t)
	id := s.AddLayer("")
	s.ToggleLayerLock(id)
	before := historyLen(s)

	for _, tool := range []Tool{Brush, Eraser, Line, Fill} {
		s.Tools().SetTool(tool)
		drag(s, Point{X: 10, Y: 10}, Point{X: 40, Y: 40})
	}
	if historyLen(s) != before {
		t.Fatal("painting a locked layer wrote history")
	}
	if !raster.IsBlank(s.LayerImage(id)) {
		t.Fatal("locked layer changed")
	}
}

func TestEraserClearsToTransparent(t *testing.T) {
	s := newTestSession(t)
	bg := s.ActiveLayer()
	s.Tools().SetTool(Eraser)
	drag(s, Point{X: 20, Y: 20}, Point{X: 60, Y: 20})

	img := s.LayerImage(bg)
	if a := img.RGBAAt(40, 20).A; a != 0 {
		t.Fatalf("erased alpha = %d", a)
	}
	if a := img.RGBAAt(40, 80).A; a != 255 {
		t.Fatalf("pixel outside the eraser changed: alpha %d", a)
	}
}

func TestFill(t *testing.T) {
	s := newTestSession(t)
	red := color.NRGBA{R: 255, A: 255}
	s.Tools().SetTool(Fill)
	s.Tools().SetBrushColor(red)
	before := historyLen(s)

	drag(s, Point{X: 5, Y: 5})
	img := s.LayerImage(s.ActiveLayer())
	if got := img.RGBAAt(100, 90); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("pixel = %+v, want red", got)
	}
	if historyLen(s) != before+1 {
		t.Fatal("fill not committed")
	}

	drag(s, Point{X: 5, Y: 5})
	if historyLen(s) != before+1 {
		t.Fatal("no-op fill committed")
	}
}

func TestSelectionDelete(t *testing.T) {
	s := newTestSession(t)
	id := s.AddLayer("")
	drag(s, Point{X: 10, Y: 30}, Point{X: 110, Y: 30})

	s.Tools().SetTool(Select)
	drag(s, Point{X: 0, Y: 0}, Point{X: 50, Y: 60})
	if got := s.Selection(); got != image.Rect(0, 0, 50, 60) {
		t.Fatalf("selection = %v", got)
	}
	before := historyLen(s)
	if !s.DeleteSelection() {
		t.Fatal("DeleteSelection failed")
	}

	img := s.LayerImage(id)
	if img.RGBAAt(30, 30).A != 0 {
		t.Fatal("selected pixels remain")
	}
	if img.RGBAAt(80, 30).A == 0 {
		t.Fatal("unselected pixels cleared")
	}
	if historyLen(s) != before+1 {
		t.Fatal("delete not committed")
	}

	s.ClearSelection()
	if s.DeleteSelection() {
		t.Fatal("deleted with no selection")
	}
}

func TestSelectionClippedToCanvas(t *testing.T) {
	s := newTestSession(t)
	s.Tools().SetTool(Select)
	drag(s, Point{X: 100, Y: 80}, Point{X: 500, Y: -20})
	if got := s.Selection(); got != image.Rect(100, 0, 128, 80) {
		t.Fatalf("selection = %v", got)
	}
}

func TestPanGesture(t *testing.T) {
	s := newTestSession(t)
	s.View().SetZoom(2)
	s.Tools().SetTool(Pan)
	before := historyLen(s)

	drag(s, Point{X: 100, Y: 100}, Point{X: 120, Y: 90})

	x, y := s.View().Pan()
	if !near(x, 10) || !near(y, -5) {
		t.Fatalf("pan = %v,%v, want 10,-5", x, y)
	}
	if historyLen(s) != before {
		t.Fatal("pan wrote history")
	}
}

func TestStrokeUsesViewTransform(t *testing.T) {
	s := newTestSession(t)
	id := s.AddLayer("")
	s.View().SetZoom(2)
	s.View().SetPan(-10, 0)

	// Client (40, 40) is canvas (30, 20).
	drag(s, Point{X: 40, Y: 40})
	img := s.LayerImage(id)
	if img.RGBAAt(30, 20).A == 0 {
		t.Fatal("dot not at the transformed point")
	}
	if img.RGBAAt(40, 40).A != 0 {
		t.Fatal("dot painted at the client point")
	}
}

func TestLayerIntentsCommit(t *testing.T) {
	s := newTestSession(t)
	bg := s.ActiveLayer()
	id := s.AddLayer("")
	n := historyLen(s)

	steps := []struct {
		name string
		do   func() bool
	}{
		{"visibility", func() bool { return s.ToggleLayerVisibility(bg) }},
		{"lock", func() bool { return s.ToggleLayerLock(bg) }},
		{"rename", func() bool { return s.RenameLayer(id, "Ink") }},
		{"opacity", func() bool { return s.SetLayerOpacity(id, 0.5) }},
		{"reorder", func() bool { return s.ReorderLayers(1, 0) }},
		{"duplicate", func() bool { _, ok := s.DuplicateLayer(id); return ok }},
		{"remove", func() bool { return s.RemoveLayer(bg) }},
	}
	for _, st := range steps {
		if !st.do() {
			t.Fatalf("%s failed", st.name)
		}
		n++
		if got := historyLen(s); got != n {
			t.Fatalf("%s: history length %d, want %d", st.name, got, n)
		}
	}

	if !s.SetActiveLayer(id) {
		t.Fatal("SetActiveLayer failed")
	}
	if historyLen(s) != n {
		t.Fatal("SetActiveLayer wrote history")
	}
}

func TestRemoveLastLayerRefused(t *testing.T) {
	s := newTestSession(t)
	if s.RemoveLayer(s.ActiveLayer()) {
		t.Fatal("removed the last layer")
	}
	if historyLen(s) != 1 {
		t.Fatal("refused remove wrote history")
	}
}

func TestCompositeFollowsLayers(t *testing.T) {
	s := newTestSession(t)
	bg := s.ActiveLayer()

	img := s.Composite()
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("composite = %+v", got)
	}
	if s.Composite() != img {
		t.Fatal("composite not reused")
	}

	s.ToggleLayerVisibility(bg)
	if got := s.Composite().RGBAAt(0, 0); got.A != 0 {
		t.Fatalf("hidden background still composited: %+v", got)
	}
	s.Undo()
	if got := s.Composite().RGBAAt(0, 0); got.A != 255 {
		t.Fatalf("undo did not refresh composite: %+v", got)
	}
}

func TestResizeCanvasUndo(t *testing.T) {
	s := newTestSession(t)
	if !s.ResizeCanvas(200, 50) {
		t.Fatal("ResizeCanvas failed")
	}
	if w, h := s.CanvasSize(); w != 200 || h != 50 {
		t.Fatalf("size = %dx%d", w, h)
	}
	if b := s.LayerImage(s.ActiveLayer()).Bounds(); b != image.Rect(0, 0, 200, 50) {
		t.Fatalf("layer bounds = %v", b)
	}
	if b := s.Composite().Bounds(); b.Dx() != 200 {
		t.Fatalf("composite bounds = %v", b)
	}

	s.Undo()
	if w, h := s.CanvasSize(); w != 128 || h != 96 {
		t.Fatalf("size after undo = %dx%d", w, h)
	}
	if w, h := s.View().Size(); w != 128 || h != 96 {
		t.Fatalf("view size after undo = %dx%d", w, h)
	}
	if s.ResizeCanvas(0, 10) {
		t.Fatal("accepted an empty canvas")
	}
}

func TestImportImage(t *testing.T) {
	s := newTestSession(t)
	src := image.NewNRGBA(image.Rect(0, 0, 300, 10))
	src.SetNRGBA(3, 4, color.NRGBA{G: 255, A: 255})

	id := s.ImportImage("photo", src)
	if s.ActiveLayer() != id {
		t.Fatal("imported layer not active")
	}
	img := s.LayerImage(id)
	if img.Bounds() != image.Rect(0, 0, 128, 96) {
		t.Fatalf("imported layer bounds = %v", img.Bounds())
	}
	if img.RGBAAt(3, 4).G != 255 {
		t.Fatal("imported pixels missing")
	}
}

func TestStateRestore(t *testing.T) {
	s := newTestSession(t)
	id := s.AddLayer("Ink")
	drag(s, Point{X: 10, Y: 10}, Point{X: 50, Y: 10})
	s.SetLayerOpacity(id, 0.25)
	s.View().SetZoom(2)
	s.Tools().SetBrushSize(12)

	st := s.State()

	r := New(DefaultOptions())
	if err := r.Restore(st); err != nil {
		t.Fatal(err)
	}
	if w, h := r.CanvasSize(); w != 128 || h != 96 {
		t.Fatalf("size = %dx%d", w, h)
	}
	got := r.Layers()
	want := s.Layers()
	if len(got) != len(want) {
		t.Fatalf("layers = %d, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("layer %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if r.ActiveLayer() != id {
		t.Fatal("active layer not restored")
	}
	if r.LayerImage(id).RGBAAt(30, 10) != s.LayerImage(id).RGBAAt(30, 10) {
		t.Fatal("pixels not restored")
	}
	if r.Tools().BrushSize() != 12 || r.View().Zoom() != 2 {
		t.Fatal("tools or view not restored")
	}
	if r.CanUndo() || historyLen(r) != 1 {
		t.Fatal("restore kept old history")
	}
}

func TestRestoreRejectsBadState(t *testing.T) {
	s := newTestSession(t)
	bad := []State{
		{Width: 0, Height: 10, Layers: []LayerData{{LayerInfo: LayerInfo{ID: "a"}}}},
		{Width: 10, Height: 10},
		{Width: 10, Height: 10, Layers: []LayerData{{LayerInfo: LayerInfo{ID: "a"}}, {LayerInfo: LayerInfo{ID: "a"}}}},
	}
	for i, st := range bad {
		if err := s.Restore(st); !errors.Is(err, ErrBadState) {
			t.Errorf("state %d: err = %v", i, err)
		}
	}
	if len(s.Layers()) != 1 {
		t.Fatal("failed restore changed the session")
	}
}

func TestClearHistoryKeepsState(t *testing.T) {
	s := newTestSession(t)
	s.AddLayer("")
	s.ClearHistory()
	if s.CanUndo() || historyLen(s) != 1 {
		t.Fatal("history not cleared")
	}
	s.AddLayer("")
	s.Undo()
	if len(s.Layers()) != 2 {
		t.Fatal("undo after clear went past the cleared state")
	}
}

func TestGridToggle(t *testing.T) {
	s := newTestSession(t)
	dst := raster.NewSurface(100, 100)
	s.RenderGrid(dst, 100, 100)
	if !raster.IsBlank(dst) {
		t.Fatal("grid drawn while off")
	}
	s.ToggleGrid()
	if !s.Grid() {
		t.Fatal("grid not on")
	}
	s.RenderGrid(dst, 100, 100)
	if dst.RGBAAt(20, 7).A == 0 {
		t.Fatal("grid line missing at x=20")
	}
}
