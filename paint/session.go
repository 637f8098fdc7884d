// Package paint is a layered raster drawing engine: a viewport with pan and
// zoom, a closed set of tools, a stack of independently visible layers and a
// bounded undo/redo history.
//
// A Session owns all of that state. Hosts feed it pointer and command
// events and render whatever Composite returns; they never touch pixels
// directly. A Session is not safe for concurrent use: the host must deliver
// events one at a time.
package paint

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ha1tch/ddcanvas/history"
	"github.com/ha1tch/ddcanvas/raster"
)

// Point is a canvas-space position.
type Point = raster.Point

// BackgroundName is the name of the layer every new session starts with.
const BackgroundName = "Background"

// Options configure a new Session.
type Options struct {
	Width, Height int
	// Background fills the initial layer. Nil leaves it transparent.
	Background color.Color

	HistoryLimit int

	MinZoom, MaxZoom, ZoomStep float64

	Tools ToolSettings
	Grid  bool
}

// DefaultOptions is a 512x512 white canvas with 50 undo steps.
func DefaultOptions() Options {
	return Options{
		Width:        512,
		Height:       512,
		Background:   color.White,
		HistoryLimit: history.DefaultLimit,
		MinZoom:      DefaultMinZoom,
		MaxZoom:      DefaultMaxZoom,
		ZoomStep:     DefaultZoomStep,
		Tools:        DefaultToolSettings(),
	}
}

// Session is one editing session: viewport, tools, layers and history.
type Session struct {
	view   *Viewport
	tools  *Tools
	layers *Stack
	hist   *history.Stack[*Stack]

	grid      bool
	selection image.Rectangle
	gesture   gesture

	revision     uint64
	composite    *image.RGBA
	compositeRev uint64
}

// New starts a session with a single Background layer. The initial state is
// the first history entry, so the first edit can be undone.
func New(opts Options) *Session {
	opts.Width = max(opts.Width, 1)
	opts.Height = max(opts.Height, 1)

	s := &Session{
		view:   NewViewport(opts.Width, opts.Height),
		tools:  NewTools(opts.Tools),
		layers: NewStack(opts.Width, opts.Height, BackgroundName),
		hist:   history.New[*Stack](opts.HistoryLimit),
		grid:   opts.Grid,
	}
	s.view.SetLimits(opts.MinZoom, opts.MaxZoom, opts.ZoomStep)
	if opts.Background != nil {
		raster.Fill(s.layers.Image(s.layers.Active()), opts.Background)
	}
	s.hist.Save(s.layers.snapshot())
	s.revision = 1
	return s
}

// View returns the viewport. Zoom and pan changes take effect on the next
// pointer event.
func (s *Session) View() *Viewport { return s.view }

// Tools returns the tool state.
func (s *Session) Tools() *Tools { return s.tools }

// Revision changes whenever pixels or layer properties change, so hosts
// can skip re-uploading an unchanged composite.
func (s *Session) Revision() uint64 { return s.revision }

func (s *Session) touch() { s.revision++ }

// commit records the current layers as a new history entry.
func (s *Session) commit(label string) {
	e := s.hist.Save(s.layers.snapshot())
	s.touch()
	Logger().Debug("paint: commit",
		"edit", label,
		"entry", e.ID,
		"index", s.hist.Index(),
		"entries", s.hist.Len())
}

// Pointer input. Coordinates are client coordinates relative to the canvas
// view; the viewport maps them into canvas space.

// PointerDown starts a gesture with the current tool. A gesture still open
// from a lost pointer-up is finished first.
func (s *Session) PointerDown(clientX, clientY float64) {
	if s.gesture != nil {
		s.endGesture(true)
	}
	p := s.view.ToCanvas(clientX, clientY)
	s.gesture = s.newGesture(p, clientX, clientY)
}

// PointerMove continues the current gesture. Without one it does nothing.
func (s *Session) PointerMove(clientX, clientY float64) {
	if s.gesture == nil {
		return
	}
	s.moveGesture(s.view.ToCanvas(clientX, clientY), clientX, clientY)
}

// PointerUp moves to the release point and completes the gesture. A
// gesture that changed pixels becomes exactly one history entry.
func (s *Session) PointerUp(clientX, clientY float64) {
	if s.gesture == nil {
		return
	}
	s.PointerMove(clientX, clientY)
	s.endGesture(true)
}

// PointerCancel ends a gesture whose pointer was lost, for example by
// leaving the canvas. Paint laid down so far is committed as is; a pending
// shape is discarded.
func (s *Session) PointerCancel() {
	if s.gesture == nil {
		return
	}
	s.endGesture(false)
}

// Drawing reports whether a gesture is in progress.
func (s *Session) Drawing() bool { return s.gesture != nil }

// ShapePreview returns the shape a line, rectangle or circle gesture would
// commit if released now.
func (s *Session) ShapePreview() (Shape, bool) {
	g, ok := s.gesture.(*shapeGesture)
	if !ok {
		return Shape{}, false
	}
	return Shape{Tool: g.kind, From: g.from, To: g.to, Size: g.size, Color: g.color}, true
}

// History.

// Undo restores the layers to the previous history entry. An open gesture
// is committed first so it is what gets undone.
func (s *Session) Undo() bool {
	if s.gesture != nil {
		s.endGesture(false)
	}
	e, ok := s.hist.Undo()
	if !ok {
		return false
	}
	s.restore(e.State)
	Logger().Debug("paint: undo", "entry", e.ID, "index", s.hist.Index())
	return true
}

// Redo re-applies the next history entry.
func (s *Session) Redo() bool {
	if s.gesture != nil {
		s.endGesture(false)
	}
	e, ok := s.hist.Redo()
	if !ok {
		return false
	}
	s.restore(e.State)
	Logger().Debug("paint: redo", "entry", e.ID, "index", s.hist.Index())
	return true
}

// restore replaces the live layers with a copy of a history entry. The
// entry itself is never written to.
func (s *Session) restore(snap *Stack) {
	s.layers = snap.snapshot()
	s.view.setSize(s.layers.Size())
	s.clipSelection()
	s.touch()
}

// CanUndo reports whether Undo would do anything.
func (s *Session) CanUndo() bool { return s.hist.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (s *Session) CanRedo() bool { return s.hist.CanRedo() }

// HistoryPosition returns the cursor and length of the history.
func (s *Session) HistoryPosition() (index, length int) {
	return s.hist.Index(), s.hist.Len()
}

// ClearHistory forgets every entry. The current state becomes the new
// first entry so later edits stay undoable.
func (s *Session) ClearHistory() {
	s.hist.Clear()
	s.hist.Save(s.layers.snapshot())
}

// Layers.

// Layers describes every layer, bottom first.
func (s *Session) Layers() []LayerInfo { return s.layers.Layers() }

// Layer describes one layer.
func (s *Session) Layer(id string) (LayerInfo, bool) { return s.layers.Layer(id) }

// ActiveLayer returns the id of the layer that receives paint.
func (s *Session) ActiveLayer() string { return s.layers.Active() }

// LayerImage returns a layer's pixels for reading only.
func (s *Session) LayerImage(id string) *image.RGBA { return s.layers.Image(id) }

// CanvasSize returns the canvas size.
func (s *Session) CanvasSize() (width, height int) { return s.layers.Size() }

// AddLayer adds a layer on top and makes it active. An empty name gives
// "Layer N".
func (s *Session) AddLayer(name string) string {
	id := s.layers.Add(name)
	l, _ := s.layers.Layer(id)
	Logger().Info("paint: layer added", "id", id, "name", l.Name)
	s.commit("add layer")
	return id
}

// DuplicateLayer copies a layer above itself.
func (s *Session) DuplicateLayer(id string) (string, bool) {
	nid, ok := s.layers.Duplicate(id)
	if ok {
		Logger().Info("paint: layer duplicated", "from", id, "id", nid)
		s.commit("duplicate layer")
	}
	return nid, ok
}

// RemoveLayer deletes a layer. The last layer stays.
func (s *Session) RemoveLayer(id string) bool {
	if s.layers.Len() <= 1 {
		Logger().Warn("paint: refusing to remove the last layer", "id", id)
		return false
	}
	if !s.layers.Remove(id) {
		return false
	}
	Logger().Info("paint: layer removed", "id", id)
	s.commit("remove layer")
	return true
}

// SetActiveLayer selects the paint target. Not an edit, so no history entry
// is written.
func (s *Session) SetActiveLayer(id string) bool {
	if !s.layers.SetActive(id) {
		return false
	}
	s.touch()
	return true
}

// ToggleLayerVisibility shows or hides a layer.
func (s *Session) ToggleLayerVisibility(id string) bool {
	return s.edit("toggle visibility", s.layers.ToggleVisibility(id))
}

// ToggleLayerLock locks or unlocks a layer for painting.
func (s *Session) ToggleLayerLock(id string) bool {
	return s.edit("toggle lock", s.layers.ToggleLock(id))
}

// RenameLayer renames a layer.
func (s *Session) RenameLayer(id, name string) bool {
	return s.edit("rename layer", s.layers.Rename(id, name))
}

// SetLayerOpacity sets a layer's opacity, clamped to [0, 1].
func (s *Session) SetLayerOpacity(id string, o float64) bool {
	return s.edit("layer opacity", s.layers.SetOpacity(id, o))
}

// ReorderLayers moves the layer at index from to index to.
func (s *Session) ReorderLayers(from, to int) bool {
	return s.edit("reorder layers", s.layers.Reorder(from, to))
}

func (s *Session) edit(label string, changed bool) bool {
	if changed {
		s.commit(label)
	}
	return changed
}

// Grid and selection.

// Grid reports whether the grid overlay is on.
func (s *Session) Grid() bool { return s.grid }

// ToggleGrid switches the grid overlay.
func (s *Session) ToggleGrid() { s.grid = !s.grid }

// RenderGrid draws the grid overlay for the current view into a
// width x height screen-space image. It draws nothing when the grid is off.
func (s *Session) RenderGrid(dst *image.RGBA, width, height int) {
	if !s.grid {
		return
	}
	x, y := s.view.Pan()
	raster.DrawGrid(dst, width, height, s.view.Zoom(), x, y)
}

// Selection returns the selected canvas rectangle; it is empty when nothing
// is selected.
func (s *Session) Selection() image.Rectangle { return s.selection }

// ClearSelection drops the selection.
func (s *Session) ClearSelection() { s.selection = image.Rectangle{} }

// DeleteSelection clears the selected pixels of the active layer.
func (s *Session) DeleteSelection() bool {
	if s.selection.Empty() {
		return false
	}
	dst := s.layers.writable(s.layers.Active())
	if dst == nil {
		return false
	}
	raster.ClearRect(dst, s.selection)
	s.commit("delete selection")
	return true
}

func (s *Session) clipSelection() {
	w, h := s.layers.Size()
	s.selection = s.selection.Intersect(image.Rect(0, 0, w, h))
}

// Canvas.

// Composite returns the visible layers flattened at their opacities, at
// native canvas resolution. The image is reused between calls and must not
// be modified.
func (s *Session) Composite() *image.RGBA {
	w, h := s.layers.Size()
	if s.composite == nil || s.composite.Bounds() != image.Rect(0, 0, w, h) {
		s.composite = raster.NewSurface(w, h)
		s.compositeRev = 0
	}
	if s.compositeRev != s.revision {
		raster.Composite(s.composite, s.layers.sources())
		s.compositeRev = s.revision
	}
	return s.composite
}

// ResizeCanvas crops or extends every layer to a new size without scaling
// content.
func (s *Session) ResizeCanvas(width, height int) bool {
	w, h := s.layers.Size()
	if width < 1 || height < 1 || (width == w && height == h) {
		return false
	}
	if s.gesture != nil {
		s.endGesture(false)
	}
	s.layers.resize(width, height)
	s.view.setSize(width, height)
	s.clipSelection()
	s.commit("resize canvas")
	return true
}

// ImportImage adds a layer holding img drawn at the top-left corner.
// Content beyond the canvas is cropped.
func (s *Session) ImportImage(name string, img image.Image) string {
	id := s.layers.Add(name)
	dst := s.layers.writable(id)
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	Logger().Info("paint: image imported", "id", id, "size", img.Bounds().Size())
	s.commit("import image")
	return id
}
