package paint

import (
	"fmt"
	"image/color"
	"strings"
)

// Tool selects what a pointer gesture does.
type Tool int

const (
	Brush Tool = iota
	Eraser
	Line
	Rectangle
	Circle
	Fill
	Select
	Pan
)

var toolNames = [...]string{
	Brush:     "brush",
	Eraser:    "eraser",
	Line:      "line",
	Rectangle: "rectangle",
	Circle:    "circle",
	Fill:      "fill",
	Select:    "select",
	Pan:       "pan",
}

// Valid reports whether t is one of the defined tools.
func (t Tool) Valid() bool { return t >= Brush && t <= Pan }

func (t Tool) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return toolNames[t]
}

// ParseTool looks a tool up by name, ignoring case.
func ParseTool(name string) (Tool, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range toolNames {
		if n == name {
			return Tool(i), true
		}
	}
	return Brush, false
}

// MarshalText encodes the tool by name.
func (t Tool) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("paint: invalid tool %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tool name.
func (t *Tool) UnmarshalText(b []byte) error {
	tool, ok := ParseTool(string(b))
	if !ok {
		return fmt.Errorf("paint: unknown tool %q", b)
	}
	*t = tool
	return nil
}

// Size limits.
const (
	MinBrushSize      = 1
	MaxBrushSize      = 100
	MinEraserSize     = 5
	MaxEraserSize     = 100
	DefaultBrushSize  = 5
	DefaultEraserSize = 20
)

// ToolSettings is a plain copy of the tool state.
type ToolSettings struct {
	Tool       Tool        `json:"tool"`
	BrushColor color.NRGBA `json:"brush_color"`
	BrushSize  int         `json:"brush_size"`
	EraserSize int         `json:"eraser_size"`
}

// DefaultToolSettings is a black 5px brush and a 20px eraser.
func DefaultToolSettings() ToolSettings {
	return ToolSettings{
		Tool:       Brush,
		BrushColor: color.NRGBA{A: 255},
		BrushSize:  DefaultBrushSize,
		EraserSize: DefaultEraserSize,
	}
}

// Tools holds the current tool and its parameters. Brush and eraser sizes
// are kept separately so switching tools keeps each one's last size.
type Tools struct {
	tool       Tool
	brushColor color.NRGBA
	brushSize  int
	eraserSize int
}

// NewTools builds tool state from settings, clamping every field.
func NewTools(s ToolSettings) *Tools {
	t := &Tools{tool: Brush}
	t.Apply(s)
	return t
}

// Apply replaces all settings, clamping every field.
func (t *Tools) Apply(s ToolSettings) {
	t.SetTool(s.Tool)
	t.SetBrushColor(s.BrushColor)
	t.SetBrushSize(s.BrushSize)
	t.SetEraserSize(s.EraserSize)
}

// Settings returns a copy of the current settings.
func (t *Tools) Settings() ToolSettings {
	return ToolSettings{
		Tool:       t.tool,
		BrushColor: t.brushColor,
		BrushSize:  t.brushSize,
		EraserSize: t.eraserSize,
	}
}

// Tool returns the current tool.
func (t *Tools) Tool() Tool { return t.tool }

// SetTool selects a tool. Undefined tools are ignored.
func (t *Tools) SetTool(tool Tool) {
	if tool.Valid() {
		t.tool = tool
	}
}

// BrushColor returns the paint colour.
func (t *Tools) BrushColor() color.NRGBA { return t.brushColor }

// SetBrushColor sets the paint colour.
func (t *Tools) SetBrushColor(c color.NRGBA) { t.brushColor = c }

// BrushSize returns the brush width in canvas units.
func (t *Tools) BrushSize() int { return t.brushSize }

// SetBrushSize sets the brush width, clamped to [1, 100].
func (t *Tools) SetBrushSize(n int) { t.brushSize = clampInt(n, MinBrushSize, MaxBrushSize) }

// EraserSize returns the eraser width in canvas units.
func (t *Tools) EraserSize() int { return t.eraserSize }

// SetEraserSize sets the eraser width, clamped to [5, 100].
func (t *Tools) SetEraserSize(n int) { t.eraserSize = clampInt(n, MinEraserSize, MaxEraserSize) }

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
