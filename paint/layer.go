package paint

import (
	"fmt"
	"image"
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/ha1tch/ddcanvas/raster"
)

// LayerInfo describes a layer without its pixels.
type LayerInfo struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Visible bool    `json:"visible"`
	Locked  bool    `json:"locked"`
	Opacity float64 `json:"opacity"`
}

type layer struct {
	LayerInfo
	pix *image.RGBA

	// shared is set once pix is also referenced by a snapshot. The next
	// write clones pix first.
	shared bool
}

func newLayer(name string, width, height int) *layer {
	return &layer{
		LayerInfo: LayerInfo{
			ID:      uuid.NewString(),
			Name:    name,
			Visible: true,
			Opacity: 1,
		},
		pix: raster.NewSurface(width, height),
	}
}

// Stack is the ordered set of layers, bottom first, plus the active layer.
// It never holds fewer than one layer and the active id always names one of
// them.
type Stack struct {
	layers []*layer
	active string
	width  int
	height int
}

// NewStack returns a stack with a single layer called name.
func NewStack(width, height int, name string) *Stack {
	l := newLayer(name, width, height)
	return &Stack{
		layers: []*layer{l},
		active: l.ID,
		width:  width,
		height: height,
	}
}

func (s *Stack) index(id string) int {
	return slices.IndexFunc(s.layers, func(l *layer) bool { return l.ID == id })
}

func (s *Stack) find(id string) *layer {
	if i := s.index(id); i >= 0 {
		return s.layers[i]
	}
	return nil
}

// Len returns the number of layers.
func (s *Stack) Len() int { return len(s.layers) }

// Size returns the canvas size every layer shares.
func (s *Stack) Size() (width, height int) { return s.width, s.height }

// Active returns the id of the layer that receives paint.
func (s *Stack) Active() string { return s.active }

// Index returns the position of a layer, or -1.
func (s *Stack) Index(id string) int { return s.index(id) }

// Layers describes every layer, bottom first.
func (s *Stack) Layers() []LayerInfo {
	out := make([]LayerInfo, len(s.layers))
	for i, l := range s.layers {
		out[i] = l.LayerInfo
	}
	return out
}

// Layer describes one layer.
func (s *Stack) Layer(id string) (LayerInfo, bool) {
	if l := s.find(id); l != nil {
		return l.LayerInfo, true
	}
	return LayerInfo{}, false
}

// Image returns a layer's pixels for reading. Callers must not modify the
// image; it may be shared with history snapshots.
func (s *Stack) Image(id string) *image.RGBA {
	if l := s.find(id); l != nil {
		return l.pix
	}
	return nil
}

// Add appends a layer on top and makes it active. An empty name becomes
// "Layer N" where N is the new layer count.
func (s *Stack) Add(name string) string {
	if name == "" {
		name = fmt.Sprintf("Layer %d", len(s.layers)+1)
	}
	l := newLayer(name, s.width, s.height)
	s.layers = append(s.layers, l)
	s.active = l.ID
	return l.ID
}

// Duplicate inserts a copy of a layer directly above it and makes the copy
// active.
func (s *Stack) Duplicate(id string) (string, bool) {
	i := s.index(id)
	if i < 0 {
		return "", false
	}
	src := s.layers[i]
	l := &layer{
		LayerInfo: src.LayerInfo,
		pix:       raster.Clone(src.pix),
	}
	l.ID = uuid.NewString()
	l.Name = src.Name + " copy"
	s.layers = slices.Insert(s.layers, i+1, l)
	s.active = l.ID
	return l.ID, true
}

// Remove deletes a layer. The last remaining layer cannot be removed. When
// the active layer goes, the topmost remaining layer becomes active.
func (s *Stack) Remove(id string) bool {
	if len(s.layers) <= 1 {
		return false
	}
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.layers = slices.Delete(s.layers, i, i+1)
	if s.active == id {
		s.active = s.layers[len(s.layers)-1].ID
	}
	return true
}

// SetActive makes a layer the paint target. Unknown ids are ignored.
func (s *Stack) SetActive(id string) bool {
	if s.find(id) == nil || s.active == id {
		return false
	}
	s.active = id
	return true
}

// ToggleVisibility flips whether a layer is composited.
func (s *Stack) ToggleVisibility(id string) bool {
	l := s.find(id)
	if l == nil {
		return false
	}
	l.Visible = !l.Visible
	return true
}

// ToggleLock flips whether a layer accepts paint.
func (s *Stack) ToggleLock(id string) bool {
	l := s.find(id)
	if l == nil {
		return false
	}
	l.Locked = !l.Locked
	return true
}

// Rename changes a layer's name.
func (s *Stack) Rename(id, name string) bool {
	l := s.find(id)
	if l == nil || l.Name == name {
		return false
	}
	l.Name = name
	return true
}

// SetOpacity sets a layer's opacity, clamped to [0, 1].
func (s *Stack) SetOpacity(id string, o float64) bool {
	l := s.find(id)
	if l == nil || math.IsNaN(o) {
		return false
	}
	o = math.Min(math.Max(o, 0), 1)
	if l.Opacity == o {
		return false
	}
	l.Opacity = o
	return true
}

// Reorder moves the layer at from to index to. Indexes out of range are
// ignored.
func (s *Stack) Reorder(from, to int) bool {
	n := len(s.layers)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return false
	}
	l := s.layers[from]
	s.layers = slices.Delete(s.layers, from, from+1)
	s.layers = slices.Insert(s.layers, to, l)
	return true
}

// paintable reports whether a layer exists and accepts paint.
func (s *Stack) paintable(id string) bool {
	l := s.find(id)
	return l != nil && !l.Locked
}

// writable returns the pixels of a layer for painting, cloning them first if
// a snapshot still references them. Locked and unknown layers return nil.
func (s *Stack) writable(id string) *image.RGBA {
	l := s.find(id)
	if l == nil || l.Locked {
		return nil
	}
	if l.shared {
		l.pix = raster.Clone(l.pix)
		l.shared = false
	}
	return l.pix
}

// snapshot returns an independent copy of the stack that shares pixel
// buffers with s. Both sides treat the buffers as read-only until s clones
// them on its next write.
func (s *Stack) snapshot() *Stack {
	c := &Stack{
		layers: make([]*layer, len(s.layers)),
		active: s.active,
		width:  s.width,
		height: s.height,
	}
	for i, l := range s.layers {
		l.shared = true
		cp := *l
		c.layers[i] = &cp
	}
	return c
}

// resize crops or extends every layer to a new canvas size.
func (s *Stack) resize(width, height int) {
	for _, l := range s.layers {
		l.pix = raster.Resize(l.pix, width, height)
		l.shared = false
	}
	s.width, s.height = width, height
}

// sources lists the layers for raster.Composite.
func (s *Stack) sources() []raster.Layer {
	out := make([]raster.Layer, len(s.layers))
	for i, l := range s.layers {
		out[i] = raster.Layer{Image: l.pix, Visible: l.Visible, Opacity: l.Opacity}
	}
	return out
}
