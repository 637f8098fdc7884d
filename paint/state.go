package paint

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/ha1tch/ddcanvas/raster"
)

// ErrBadState is returned by Restore for a state that cannot describe a
// canvas.
var ErrBadState = errors.New("paint: invalid state")

// LayerData is a layer with its pixels.
type LayerData struct {
	LayerInfo
	Image image.Image
}

// State is everything a project file stores about a session.
type State struct {
	Width, Height int
	Layers        []LayerData
	Active        string
	Tools         ToolSettings
	View          ViewState
}

// State captures the session. Layer images are independent copies.
func (s *Session) State() State {
	w, h := s.layers.Size()
	st := State{
		Width:  w,
		Height: h,
		Active: s.layers.Active(),
		Tools:  s.tools.Settings(),
		View:   s.view.State(),
	}
	for _, l := range s.layers.layers {
		st.Layers = append(st.Layers, LayerData{LayerInfo: l.LayerInfo, Image: raster.Clone(l.pix)})
	}
	return st
}

// Restore replaces the session contents with st and starts a fresh history
// holding only the restored state. Layer images smaller than the canvas are
// padded with transparency; larger ones are cropped.
func (s *Session) Restore(st State) error {
	if st.Width < 1 || st.Height < 1 {
		return fmt.Errorf("%w: canvas %dx%d", ErrBadState, st.Width, st.Height)
	}
	if len(st.Layers) == 0 {
		return fmt.Errorf("%w: no layers", ErrBadState)
	}

	stack := &Stack{width: st.Width, height: st.Height}
	seen := make(map[string]bool, len(st.Layers))
	for i, ld := range st.Layers {
		if ld.ID == "" || seen[ld.ID] {
			return fmt.Errorf("%w: layer %d has a missing or duplicate id", ErrBadState, i)
		}
		seen[ld.ID] = true

		l := &layer{LayerInfo: ld.LayerInfo, pix: raster.NewSurface(st.Width, st.Height)}
		l.Opacity = min(max(l.Opacity, 0), 1)
		if ld.Image != nil {
			draw.Draw(l.pix, l.pix.Bounds(), ld.Image, ld.Image.Bounds().Min, draw.Src)
		}
		stack.layers = append(stack.layers, l)
	}
	stack.active = st.Active
	if !seen[stack.active] {
		stack.active = stack.layers[len(stack.layers)-1].ID
	}

	s.gesture = nil
	s.layers = stack
	s.tools.Apply(st.Tools)
	s.view.setSize(st.Width, st.Height)
	s.view.SetState(st.View)
	s.selection = image.Rectangle{}
	s.ClearHistory()
	s.touch()

	Logger().Info("paint: state restored",
		"width", st.Width,
		"height", st.Height,
		"layers", len(st.Layers))
	return nil
}
