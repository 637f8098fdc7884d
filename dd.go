package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"os"
	"strings"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ha1tch/ddcanvas/config"
	"github.com/ha1tch/ddcanvas/keymap"
	"github.com/ha1tch/ddcanvas/paint"
	"github.com/ha1tch/ddcanvas/raster"
)

const (
	screenWidth  = 1280
	screenHeight = 800
	fontSize     = 10
	leftPanel    = 100
	rightPanel   = 200
	topBar       = 50
	layerRowH    = 60
	thumbSize    = 40
)

// viewRect is the screen area the canvas is shown in. Pointer events are
// passed to the session relative to its top-left corner.
var viewRect = rl.Rectangle{
	X:      leftPanel,
	Y:      topBar,
	Width:  screenWidth - leftPanel - rightPanel,
	Height: screenHeight - topBar,
}

var (
	panelColor  = rl.Color{R: 50, G: 50, B: 50, A: 255}
	buttonColor = rl.Color{R: 70, G: 70, B: 70, A: 255}
	hoverColor  = rl.Color{R: 80, G: 80, B: 80, A: 255}
	activeColor = rl.Color{R: 100, G: 100, B: 150, A: 255}
	edgeColor   = rl.Color{R: 90, G: 90, B: 90, A: 255}
)

// GUI controls
type Button struct {
	rect   rl.Rectangle
	text   string
	action keymap.Action
	hover  bool
}

type Slider struct {
	rect     rl.Rectangle
	min, max float32
	label    string
}

func (s Slider) valueAt(x float32) float32 {
	v := s.min + (x-s.rect.X)/s.rect.Width*(s.max-s.min)
	return float32(math.Min(math.Max(float64(v), float64(s.min)), float64(s.max)))
}

func (s Slider) draw(v float32, text string) {
	rl.DrawText(s.label, int32(s.rect.X), int32(s.rect.Y-12), fontSize, rl.LightGray)
	rl.DrawRectangleRec(s.rect, rl.Color{R: 60, G: 60, B: 60, A: 255})
	pos := s.rect.X + (v-s.min)/(s.max-s.min)*s.rect.Width
	rl.DrawRectangle(int32(pos-2), int32(s.rect.Y), 4, int32(s.rect.Height), rl.White)
	rl.DrawText(text, int32(s.rect.X+s.rect.Width+4), int32(s.rect.Y+5), fontSize, rl.White)
}

func drawButton(b Button, selected bool) {
	c := buttonColor
	if selected {
		c = activeColor
	} else if b.hover {
		c = hoverColor
	}
	rl.DrawRectangleRec(b.rect, c)
	rl.DrawRectangleLinesEx(b.rect, 1, edgeColor)
	w := rl.MeasureText(b.text, fontSize)
	rl.DrawText(b.text, int32(b.rect.X+b.rect.Width/2-float32(w)/2), int32(b.rect.Y+b.rect.Height/2-fontSize/2), fontSize, rl.White)
}

var toolButtons = []struct {
	tool paint.Tool
	icon string
}{
	{paint.Brush, "B"},
	{paint.Eraser, "E"},
	{paint.Line, "L"},
	{paint.Rectangle, "R"},
	{paint.Circle, "C"},
	{paint.Fill, "F"},
	{paint.Select, "S"},
	{paint.Pan, "P"},
}

const (
	dragNone = iota
	dragSize
	dragOpacity
)

// App is the window: one paint session plus the textures and widget state
// needed to show it.
type App struct {
	sess    *paint.Session
	keys    *keymap.Keymap
	palette []color.NRGBA
	path    string

	tools        []Button
	sideButtons  []Button
	layerButtons []Button
	sizeSlider   Slider
	opacity      Slider

	drag       int
	dragValue  float32
	middlePan  bool
	panHeld    bool
	panKey     int32
	prevTool   paint.Tool
	lastClick  float64
	lastRowID  string
	prompt     *prompt
	status     string
	statusTime float64

	canvasTex        rl.Texture2D
	canvasW, canvasH int
	canvasRev        uint64

	gridImg *image.RGBA
	gridTex rl.Texture2D
	gridKey paint.ViewState

	thumbs   map[string]rl.Texture2D
	thumbRev uint64
}

// NewApp builds the window state from a loaded config.
func NewApp(cfg *config.Config, path string) *App {
	palette, _ := cfg.Colors()
	app := &App{
		sess:    paint.New(cfg.SessionOptions()),
		keys:    keymap.Default(),
		palette: palette,
		path:    path,
		thumbs:  make(map[string]rl.Texture2D),
	}

	for i, t := range toolButtons {
		app.tools = append(app.tools, Button{
			rect: rl.Rectangle{X: 10 + float32(i%2)*40, Y: 50 + float32(i/2)*40, Width: 36, Height: 36},
			text: t.icon,
		})
	}

	app.sizeSlider = Slider{
		rect:  rl.Rectangle{X: 10, Y: 240, Width: 60, Height: 20},
		label: "SIZE",
	}

	side := []struct {
		text   string
		action keymap.Action
	}{
		{"UNDO", keymap.Undo},
		{"REDO", keymap.Redo},
		{"GRID", keymap.ToggleGrid},
		{"SAVE", keymap.Save},
		{"OPEN", keymap.Open},
		{"EXPORT", keymap.Export},
		{"IMPORT", keymap.Import},
	}
	for i, b := range side {
		app.sideButtons = append(app.sideButtons, Button{
			rect:   rl.Rectangle{X: 10, Y: 520 + float32(i)*30, Width: 80, Height: 24},
			text:   b.text,
			action: b.action,
		})
	}

	x := float32(screenWidth - rightPanel + 10)
	for i, text := range []string{"NEW", "DUP", "DEL"} {
		app.layerButtons = append(app.layerButtons, Button{
			rect: rl.Rectangle{X: x + float32(i)*60, Y: screenHeight - 40, Width: 55, Height: 30},
			text: text,
		})
	}
	app.opacity = Slider{
		rect:  rl.Rectangle{X: x, Y: screenHeight - 75, Width: 140, Height: 20},
		min:   0,
		max:   1,
		label: "OPACITY",
	}
	return app
}

func (app *App) setStatus(format string, args ...any) {
	app.status = fmt.Sprintf(format, args...)
	app.statusTime = rl.GetTime()
}

// Update application
func (app *App) Update() {
	mouse := rl.GetMousePosition()

	app.handleDroppedFiles()
	typing := app.prompt != nil
	if typing {
		app.updatePrompt()
	}
	app.handleKeys(typing)

	if app.middlePan || rl.IsMouseButtonPressed(rl.MouseMiddleButton) && rl.CheckCollisionPointRec(mouse, viewRect) {
		app.updateMiddlePan()
	}

	wheel := rl.GetMouseWheelMove()
	if wheel != 0 && rl.CheckCollisionPointRec(mouse, viewRect) {
		app.zoomAround(mouse, func(v *paint.Viewport) {
			v.SetZoom(v.Zoom() * (1 + float64(wheel)*0.1))
		})
	}

	if app.updateSliders(mouse) {
		return
	}
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && !app.sess.Drawing() {
		if app.clickPanels(mouse) {
			return
		}
	}
	app.updateCanvas(mouse)
}

// updateCanvas feeds the left mouse button to the session. Leaving the
// view mid-gesture cancels it.
func (app *App) updateCanvas(mouse rl.Vector2) {
	s := app.sess
	inView := rl.CheckCollisionPointRec(mouse, viewRect)
	cx, cy := float64(mouse.X-viewRect.X), float64(mouse.Y-viewRect.Y)

	switch {
	case s.Drawing() && !inView:
		s.PointerCancel()
	case s.Drawing() && !rl.IsMouseButtonDown(rl.MouseLeftButton):
		s.PointerUp(cx, cy)
	case s.Drawing():
		if d := rl.GetMouseDelta(); d.X != 0 || d.Y != 0 {
			s.PointerMove(cx, cy)
		}
	case inView && rl.IsMouseButtonPressed(rl.MouseLeftButton):
		s.PointerDown(cx, cy)
	}
}

func (app *App) updateMiddlePan() {
	if !rl.IsMouseButtonDown(rl.MouseMiddleButton) {
		app.middlePan = false
		return
	}
	app.middlePan = true
	v := app.sess.View()
	d := rl.GetMouseDelta()
	x, y := v.Pan()
	v.SetPan(x+float64(d.X)/v.Zoom(), y+float64(d.Y)/v.Zoom())
}

// zoomAround applies a zoom change and re-pans so the canvas point under
// the screen position at stays there.
func (app *App) zoomAround(at rl.Vector2, zoom func(*paint.Viewport)) {
	v := app.sess.View()
	cx, cy := float64(at.X-viewRect.X), float64(at.Y-viewRect.Y)
	p := v.ToCanvas(cx, cy)
	zoom(v)
	z := v.Zoom()
	v.SetPan(cx/z-p.X, cy/z-p.Y)
}

func viewCenter() rl.Vector2 {
	return rl.Vector2{X: viewRect.X + viewRect.Width/2, Y: viewRect.Y + viewRect.Height/2}
}

// updateSliders drags the size and opacity sliders. Opacity is committed
// once, on release, so a drag is a single history entry.
func (app *App) updateSliders(mouse rl.Vector2) bool {
	t := app.sess.Tools()
	if app.drag == dragNone && rl.IsMouseButtonPressed(rl.MouseLeftButton) && !app.sess.Drawing() {
		switch {
		case rl.CheckCollisionPointRec(mouse, app.sizeSlider.rect):
			app.drag = dragSize
		case rl.CheckCollisionPointRec(mouse, app.opacity.rect):
			app.drag = dragOpacity
		}
	}

	switch app.drag {
	case dragSize:
		lo, hi := app.sizeRange()
		app.sizeSlider.min, app.sizeSlider.max = float32(lo), float32(hi)
		n := int(math.Round(float64(app.sizeSlider.valueAt(mouse.X))))
		if t.Tool() == paint.Eraser {
			t.SetEraserSize(n)
		} else {
			t.SetBrushSize(n)
		}
	case dragOpacity:
		app.dragValue = app.opacity.valueAt(mouse.X)
		if !rl.IsMouseButtonDown(rl.MouseLeftButton) {
			app.sess.SetLayerOpacity(app.sess.ActiveLayer(), float64(app.dragValue))
		}
	default:
		return false
	}
	if !rl.IsMouseButtonDown(rl.MouseLeftButton) {
		app.drag = dragNone
	}
	return true
}

func (app *App) sizeRange() (int, int) {
	if app.sess.Tools().Tool() == paint.Eraser {
		return paint.MinEraserSize, paint.MaxEraserSize
	}
	return paint.MinBrushSize, paint.MaxBrushSize
}

func (app *App) currentSize() int {
	t := app.sess.Tools()
	if t.Tool() == paint.Eraser {
		return t.EraserSize()
	}
	return t.BrushSize()
}

// clickPanels handles a left click on the side panels and reports whether
// it hit one.
func (app *App) clickPanels(mouse rl.Vector2) bool {
	s := app.sess
	for i, b := range app.tools {
		if rl.CheckCollisionPointRec(mouse, b.rect) {
			s.Tools().SetTool(toolButtons[i].tool)
			app.panHeld = false
			return true
		}
	}
	for i, c := range app.palette {
		if rl.CheckCollisionPointRec(mouse, paletteRect(i)) {
			s.Tools().SetBrushColor(c)
			return true
		}
	}
	for _, b := range app.sideButtons {
		if rl.CheckCollisionPointRec(mouse, b.rect) {
			app.do(b.action)
			return true
		}
	}
	for i, b := range app.layerButtons {
		if !rl.CheckCollisionPointRec(mouse, b.rect) {
			continue
		}
		switch i {
		case 0:
			s.AddLayer("")
		case 1:
			s.DuplicateLayer(s.ActiveLayer())
		case 2:
			if !s.RemoveLayer(s.ActiveLayer()) {
				app.setStatus("CANNOT DELETE THE LAST LAYER")
			}
		}
		return true
	}
	return app.clickLayerRows(mouse) ||
		mouse.X < leftPanel || mouse.X >= screenWidth-rightPanel || mouse.Y < topBar
}

func paletteRect(i int) rl.Rectangle {
	return rl.Rectangle{X: float32(10 + (i%3)*25), Y: float32(290 + (i/3)*25), Width: 20, Height: 20}
}

// layerRow is the screen area of the layer at stack index i; the top layer
// is listed first.
func (app *App) layerRow(i, n int) rl.Rectangle {
	return rl.Rectangle{
		X:      screenWidth - rightPanel + 10,
		Y:      40 + float32(n-1-i)*layerRowH,
		Width:  rightPanel - 20,
		Height: layerRowH - 6,
	}
}

type rowParts struct {
	vis, lock, up, down, name, thumb rl.Rectangle
}

func partsOf(r rl.Rectangle) rowParts {
	return rowParts{
		vis:   rl.Rectangle{X: r.X + 4, Y: r.Y + 4, Width: 18, Height: 18},
		lock:  rl.Rectangle{X: r.X + 4, Y: r.Y + 30, Width: 18, Height: 18},
		name:  rl.Rectangle{X: r.X + 28, Y: r.Y + 4, Width: r.Width - thumbSize - 40, Height: 16},
		up:    rl.Rectangle{X: r.X + 28, Y: r.Y + 34, Width: 18, Height: 16},
		down:  rl.Rectangle{X: r.X + 50, Y: r.Y + 34, Width: 18, Height: 16},
		thumb: rl.Rectangle{X: r.X + r.Width - thumbSize - 6, Y: r.Y + 7, Width: thumbSize, Height: thumbSize},
	}
}

func (app *App) clickLayerRows(mouse rl.Vector2) bool {
	s := app.sess
	layers := s.Layers()
	n := len(layers)
	for i, l := range layers {
		row := app.layerRow(i, n)
		if !rl.CheckCollisionPointRec(mouse, row) {
			continue
		}
		p := partsOf(row)
		switch {
		case rl.CheckCollisionPointRec(mouse, p.vis):
			s.ToggleLayerVisibility(l.ID)
		case rl.CheckCollisionPointRec(mouse, p.lock):
			s.ToggleLayerLock(l.ID)
		case rl.CheckCollisionPointRec(mouse, p.up):
			s.ReorderLayers(i, i+1)
		case rl.CheckCollisionPointRec(mouse, p.down):
			s.ReorderLayers(i, i-1)
		case rl.CheckCollisionPointRec(mouse, p.name) && app.doubleClick(l.ID):
			id := l.ID
			app.ask("RENAME", l.Name, func(name string) {
				if name = strings.TrimSpace(name); name != "" {
					s.RenameLayer(id, name)
				}
			})
		default:
			s.SetActiveLayer(l.ID)
		}
		return true
	}
	return false
}

func (app *App) doubleClick(id string) bool {
	now := rl.GetTime()
	double := id == app.lastRowID && now-app.lastClick < 0.4
	app.lastRowID, app.lastClick = id, now
	return double
}

// do runs an action from a shortcut or a button.
func (app *App) do(a keymap.Action) {
	s := app.sess
	if t, ok := actionTools[a]; ok {
		s.Tools().SetTool(t)
		app.panHeld = false
		return
	}
	switch a {
	case keymap.ZoomIn:
		app.zoomAround(viewCenter(), (*paint.Viewport).ZoomIn)
	case keymap.ZoomOut:
		app.zoomAround(viewCenter(), (*paint.Viewport).ZoomOut)
	case keymap.ZoomReset:
		s.View().ResetView()
	case keymap.ToggleGrid:
		s.ToggleGrid()
	case keymap.Undo:
		s.Undo()
	case keymap.Redo:
		s.Redo()
	case keymap.Save:
		app.save(app.path)
	case keymap.Open:
		app.ask("OPEN", app.path, app.open)
	case keymap.Export:
		app.ask("EXPORT", app.exportPath(), app.export)
	case keymap.Import:
		app.ask("IMPORT", "", app.importImage)
	case keymap.DeleteSelection:
		s.DeleteSelection()
	case keymap.ClearSelection:
		s.ClearSelection()
	case keymap.NewLayer:
		s.AddLayer("")
	}
}

var actionTools = map[keymap.Action]paint.Tool{
	keymap.SelectBrush:     paint.Brush,
	keymap.SelectEraser:    paint.Eraser,
	keymap.SelectLine:      paint.Line,
	keymap.SelectRectangle: paint.Rectangle,
	keymap.SelectCircle:    paint.Circle,
	keymap.SelectFill:      paint.Fill,
	keymap.SelectSelect:    paint.Select,
}

// Textures

// pixels views an image's premultiplied bytes as raylib colours. Surfaces
// from raster.NewSurface have no row padding.
func pixels(img *image.RGBA) []color.RGBA {
	if len(img.Pix) == 0 {
		return nil
	}
	return unsafe.Slice((*color.RGBA)(unsafe.Pointer(unsafe.SliceData(img.Pix))), len(img.Pix)/4)
}

func blankTexture(w, h int) rl.Texture2D {
	img := rl.GenImageColor(w, h, rl.Blank)
	defer rl.UnloadImage(img)
	return rl.LoadTextureFromImage(img)
}

// syncCanvas uploads the composite when the session has changed.
func (app *App) syncCanvas() {
	img := app.sess.Composite()
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w != app.canvasW || h != app.canvasH {
		if app.canvasW > 0 {
			rl.UnloadTexture(app.canvasTex)
		}
		app.canvasTex = blankTexture(w, h)
		app.canvasW, app.canvasH = w, h
		app.canvasRev = 0
	}
	if rev := app.sess.Revision(); rev != app.canvasRev {
		rl.UpdateTexture(app.canvasTex, pixels(img))
		app.canvasRev = rev
	}
}

// syncThumbs rebuilds the layer thumbnails after each finished edit.
func (app *App) syncThumbs() {
	rev := app.sess.Revision()
	if rev == app.thumbRev || app.sess.Drawing() {
		return
	}
	for id, t := range app.thumbs {
		rl.UnloadTexture(t)
		delete(app.thumbs, id)
	}
	for _, l := range app.sess.Layers() {
		img := rl.NewImageFromImage(raster.Thumbnail(app.sess.LayerImage(l.ID), thumbSize))
		app.thumbs[l.ID] = rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
	}
	app.thumbRev = rev
}

// syncGrid redraws the grid overlay when the view moves.
func (app *App) syncGrid() {
	if !app.sess.Grid() {
		return
	}
	v := app.sess.View().State()
	if app.gridImg != nil && v == app.gridKey {
		return
	}
	w, h := int(viewRect.Width), int(viewRect.Height)
	if app.gridImg == nil {
		app.gridImg = raster.NewSurface(w, h)
		app.gridTex = blankTexture(w, h)
	}
	clear(app.gridImg.Pix)
	app.sess.RenderGrid(app.gridImg, w, h)
	rl.UpdateTexture(app.gridTex, pixels(app.gridImg))
	app.gridKey = v
}

// Unload frees every texture.
func (app *App) Unload() {
	if app.canvasW > 0 {
		rl.UnloadTexture(app.canvasTex)
	}
	if app.gridImg != nil {
		rl.UnloadTexture(app.gridTex)
	}
	for _, t := range app.thumbs {
		rl.UnloadTexture(t)
	}
}

// Drawing

func rlColor(c color.NRGBA) rl.Color { return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A} }

// toScreen maps a canvas point to the window.
func (app *App) toScreen(p paint.Point) rl.Vector2 {
	x, y := app.sess.View().ToClient(p)
	return rl.Vector2{X: viewRect.X + float32(x), Y: viewRect.Y + float32(y)}
}

// Draw application
func (app *App) Draw() {
	app.syncCanvas()
	app.syncThumbs()
	app.syncGrid()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 40, G: 40, B: 40, A: 255})

	app.drawCanvas()
	app.drawTools()
	app.drawLayers()
	app.drawTopBar()

	rl.EndDrawing()
}

func (app *App) drawCanvas() {
	zoom := float32(app.sess.View().Zoom())
	origin := app.toScreen(paint.Point{})
	dst := rl.Rectangle{X: origin.X, Y: origin.Y, Width: float32(app.canvasW) * zoom, Height: float32(app.canvasH) * zoom}
	clip := rl.GetCollisionRec(dst, viewRect)

	if clip.Width > 0 && clip.Height > 0 {
		rl.BeginScissorMode(int32(clip.X), int32(clip.Y), int32(clip.Width)+1, int32(clip.Height)+1)
		const tile = 8
		for y := int32(0); y*tile < int32(clip.Height)+tile; y++ {
			for x := int32(0); x*tile < int32(clip.Width)+tile; x++ {
				c := rl.Color{R: 150, G: 150, B: 150, A: 255}
				if (x+y)%2 == 0 {
					c = rl.Color{R: 110, G: 110, B: 110, A: 255}
				}
				rl.DrawRectangle(int32(clip.X)+x*tile, int32(clip.Y)+y*tile, tile, tile, c)
			}
		}
		rl.BeginBlendMode(rl.BlendAlphaPremultiply)
		src := rl.Rectangle{Width: float32(app.canvasW), Height: float32(app.canvasH)}
		rl.DrawTexturePro(app.canvasTex, src, dst, rl.Vector2{}, 0, rl.White)
		rl.EndBlendMode()
		rl.EndScissorMode()
	}

	rl.BeginScissorMode(int32(viewRect.X), int32(viewRect.Y), int32(viewRect.Width), int32(viewRect.Height))
	rl.DrawRectangleLinesEx(dst, 2, rl.Color{R: 100, G: 100, B: 100, A: 255})
	if app.sess.Grid() {
		rl.BeginBlendMode(rl.BlendAlphaPremultiply)
		rl.DrawTexture(app.gridTex, int32(viewRect.X), int32(viewRect.Y), rl.White)
		rl.EndBlendMode()
	}
	app.drawOverlays(zoom)
	rl.EndScissorMode()
}

// drawOverlays draws the shape preview, selection and brush cursor.
func (app *App) drawOverlays(zoom float32) {
	s := app.sess
	if sh, ok := s.ShapePreview(); ok {
		a, b := app.toScreen(sh.From), app.toScreen(sh.To)
		c := rlColor(sh.Color)
		thick := max(float32(sh.Size)*zoom, 1)
		switch sh.Tool {
		case paint.Line:
			rl.DrawLineEx(a, b, thick, c)
		case paint.Rectangle:
			r := rl.Rectangle{X: min(a.X, b.X), Y: min(a.Y, b.Y), Width: abs(b.X - a.X), Height: abs(b.Y - a.Y)}
			rl.DrawRectangleLinesEx(r, thick, c)
		case paint.Circle:
			center := rl.Vector2{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
			r := rl.Vector2Distance(a, b) / 2
			rl.DrawRing(center, max(r-thick/2, 0), r+thick/2, 0, 360, 64, c)
		}
	}

	if sel := s.Selection(); !sel.Empty() {
		a := app.toScreen(paint.Point{X: float64(sel.Min.X), Y: float64(sel.Min.Y)})
		b := app.toScreen(paint.Point{X: float64(sel.Max.X), Y: float64(sel.Max.Y)})
		rl.DrawRectangleLinesEx(rl.Rectangle{X: a.X, Y: a.Y, Width: b.X - a.X, Height: b.Y - a.Y}, 1, rl.Yellow)
	}

	mouse := rl.GetMousePosition()
	if !rl.CheckCollisionPointRec(mouse, viewRect) {
		return
	}
	switch s.Tools().Tool() {
	case paint.Brush, paint.Eraser, paint.Line, paint.Rectangle, paint.Circle:
		rl.DrawCircleLines(int32(mouse.X), int32(mouse.Y), float32(app.currentSize())*zoom/2, rl.White)
	case paint.Pan:
		rl.DrawText("HAND", int32(mouse.X+10), int32(mouse.Y-10), fontSize, rl.Yellow)
	}
}

func (app *App) drawTools() {
	s := app.sess
	mouse := rl.GetMousePosition()
	rl.DrawRectangle(0, 0, leftPanel, screenHeight, panelColor)
	rl.DrawText("DELUXE DRAW", 10, 10, fontSize, rl.White)
	rl.DrawText("TOOLS", 10, 35, fontSize, rl.LightGray)

	for i := range app.tools {
		b := &app.tools[i]
		b.hover = rl.CheckCollisionPointRec(mouse, b.rect)
		drawButton(*b, s.Tools().Tool() == toolButtons[i].tool)
		if b.hover {
			name := strings.ToUpper(toolButtons[i].tool.String())
			rl.DrawText(name, int32(mouse.X+10), int32(mouse.Y), fontSize, rl.Yellow)
		}
	}

	lo, hi := app.sizeRange()
	app.sizeSlider.min, app.sizeSlider.max = float32(lo), float32(hi)
	size := app.currentSize()
	app.sizeSlider.draw(float32(size), fmt.Sprint(size))

	rl.DrawText("COLORS", 10, 275, fontSize, rl.LightGray)
	brush := s.Tools().BrushColor()
	for i, c := range app.palette {
		r := paletteRect(i)
		rl.DrawRectangleRec(r, rlColor(c))
		if c == brush {
			rl.DrawRectangleLinesEx(r, 2, rl.White)
		} else {
			rl.DrawRectangleLinesEx(r, 1, hoverColor)
		}
	}
	rl.DrawRectangle(10, 460, 40, 30, rlColor(brush))
	rl.DrawRectangleLines(10, 460, 40, 30, rl.White)

	for i := range app.sideButtons {
		b := &app.sideButtons[i]
		b.hover = rl.CheckCollisionPointRec(mouse, b.rect)
		drawButton(*b, b.action == keymap.ToggleGrid && s.Grid())
	}
}

func (app *App) drawLayers() {
	s := app.sess
	mouse := rl.GetMousePosition()
	rl.DrawRectangle(screenWidth-rightPanel, 0, rightPanel, screenHeight, panelColor)
	rl.DrawText("LAYERS", screenWidth-rightPanel+10, 10, fontSize, rl.White)

	layers := s.Layers()
	active := s.ActiveLayer()
	for i, l := range layers {
		row := app.layerRow(i, len(layers))
		p := partsOf(row)
		bg := rl.Color{R: 60, G: 60, B: 60, A: 255}
		if l.ID == active {
			bg = rl.Color{R: 80, G: 80, B: 120, A: 255}
		}
		rl.DrawRectangleRec(row, bg)

		rl.DrawRectangleLinesEx(p.vis, 1, rl.White)
		if l.Visible {
			rl.DrawText("V", int32(p.vis.X+6), int32(p.vis.Y+4), fontSize, rl.White)
		}
		rl.DrawRectangleLinesEx(p.lock, 1, rl.White)
		nameColor := rl.White
		if l.Locked {
			rl.DrawText("L", int32(p.lock.X+6), int32(p.lock.Y+4), fontSize, rl.Yellow)
			nameColor = rl.Color{R: 200, G: 200, B: 100, A: 255}
		}
		rl.DrawText(l.Name, int32(p.name.X), int32(p.name.Y+3), fontSize, nameColor)
		rl.DrawText(fmt.Sprintf("%3.0f%%", l.Opacity*100), int32(p.name.X), int32(p.name.Y+17), fontSize, rl.LightGray)
		drawButton(Button{rect: p.up, text: "^", hover: rl.CheckCollisionPointRec(mouse, p.up)}, false)
		drawButton(Button{rect: p.down, text: "v", hover: rl.CheckCollisionPointRec(mouse, p.down)}, false)

		rl.DrawRectangleRec(p.thumb, rl.Color{R: 130, G: 130, B: 130, A: 255})
		if t, ok := app.thumbs[l.ID]; ok {
			x := p.thumb.X + (thumbSize-float32(t.Width))/2
			y := p.thumb.Y + (thumbSize-float32(t.Height))/2
			rl.BeginBlendMode(rl.BlendAlphaPremultiply)
			rl.DrawTexture(t, int32(x), int32(y), rl.White)
			rl.EndBlendMode()
		}
		rl.DrawRectangleLinesEx(p.thumb, 1, buttonColor)
	}

	opacity := float32(1)
	if l, ok := s.Layer(active); ok {
		opacity = float32(l.Opacity)
	}
	if app.drag == dragOpacity {
		opacity = app.dragValue
	}
	app.opacity.draw(opacity, fmt.Sprintf("%.0f%%", opacity*100))

	for i := range app.layerButtons {
		b := &app.layerButtons[i]
		b.hover = rl.CheckCollisionPointRec(mouse, b.rect)
		drawButton(*b, false)
	}
}

func (app *App) drawTopBar() {
	s := app.sess
	rl.DrawRectangle(leftPanel, 0, screenWidth-leftPanel-rightPanel, topBar, rl.Color{R: 60, G: 60, B: 60, A: 255})

	name := "?"
	if l, ok := s.Layer(s.ActiveLayer()); ok {
		name = l.Name
	}
	w, h := s.CanvasSize()
	idx, n := s.HistoryPosition()
	info := fmt.Sprintf("ZOOM: %.0f%% | SIZE: %dX%d | TOOL: %s | LAYER: %s | HISTORY: %d/%d",
		s.View().Zoom()*100, w, h, strings.ToUpper(s.Tools().Tool().String()), name, idx+1, n)
	rl.DrawText(info, leftPanel+10, 12, fontSize, rl.White)

	if app.prompt != nil {
		app.drawPrompt()
	} else if app.status != "" && rl.GetTime()-app.statusTime < 4 {
		rl.DrawText(app.status, leftPanel+10, 30, fontSize, rl.Yellow)
	}
}

func abs(a float32) float32 {
	if a < 0 {
		return -a
	}
	return a
}

func main() {
	cfgPath := flag.String("config", config.DefaultPath, "TOML configuration file")
	open := flag.String("open", "", "project (.ddd) to open")
	width := flag.Int("width", 0, "canvas width, overriding the config")
	height := flag.Int("height", 0, "canvas height, overriding the config")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ddcanvas:", err)
		os.Exit(1)
	}
	level, _ := cfg.LogLevel()
	paint.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *width > 0 {
		cfg.Canvas.Width = *width
	}
	if *height > 0 {
		cfg.Canvas.Height = *height
	}

	rl.InitWindow(screenWidth, screenHeight, "Deluxe Draw")
	rl.SetExitKey(rl.KeyNull)
	rl.SetTargetFPS(60)

	path := *open
	if path == "" {
		path = "untitled.ddd"
	}
	app := NewApp(cfg, path)
	if *open != "" {
		app.open(*open)
	}

	for !rl.WindowShouldClose() {
		app.Update()
		app.Draw()
	}

	app.Unload()
	rl.CloseWindow()
}
