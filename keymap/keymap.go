// Package keymap maps keyboard chords to editor actions.
//
// Keys are named by the characters they type ("b", "=", "-") or by a word
// for keys without one ("space", "delete", "escape"). Hosts translate their
// own key codes into these names.
package keymap

import (
	"fmt"
	"slices"
	"strings"
)

// Action is something a shortcut can ask the editor to do.
type Action int

const (
	None Action = iota
	SelectBrush
	SelectEraser
	SelectLine
	SelectRectangle
	SelectCircle
	SelectFill
	SelectSelect
	// HoldPan pans while its key is held and restores the previous tool on
	// release.
	HoldPan
	ZoomIn
	ZoomOut
	ZoomReset
	ToggleGrid
	Undo
	Redo
	Save
	Open
	Export
	Import
	DeleteSelection
	ClearSelection
	NewLayer
)

var actionNames = [...]string{
	None:            "none",
	SelectBrush:     "brush",
	SelectEraser:    "eraser",
	SelectLine:      "line",
	SelectRectangle: "rectangle",
	SelectCircle:    "circle",
	SelectFill:      "fill",
	SelectSelect:    "select",
	HoldPan:         "pan",
	ZoomIn:          "zoom-in",
	ZoomOut:         "zoom-out",
	ZoomReset:       "zoom-reset",
	ToggleGrid:      "grid",
	Undo:            "undo",
	Redo:            "redo",
	Save:            "save",
	Open:            "open",
	Export:          "export",
	Import:          "import",
	DeleteSelection: "delete-selection",
	ClearSelection:  "clear-selection",
	NewLayer:        "new-layer",
}

func (a Action) String() string {
	if a < None || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction looks an action up by name.
func ParseAction(name string) (Action, bool) {
	i := slices.Index(actionNames[:], strings.ToLower(strings.TrimSpace(name)))
	if i < 0 {
		return None, false
	}
	return Action(i), true
}

// Mods is a set of modifier keys.
type Mods uint8

const (
	Ctrl Mods = 1 << iota
	Shift
	Alt
)

// Chord is a key together with the modifiers held with it.
type Chord struct {
	Mods Mods
	Key  string
}

func (c Chord) String() string {
	var b strings.Builder
	if c.Mods&Ctrl != 0 {
		b.WriteString("ctrl+")
	}
	if c.Mods&Alt != 0 {
		b.WriteString("alt+")
	}
	if c.Mods&Shift != 0 {
		b.WriteString("shift+")
	}
	b.WriteString(c.Key)
	return b.String()
}

// ParseChord parses "ctrl+shift+z" style chords. "cmd" is read as ctrl.
func ParseChord(s string) (Chord, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	// "ctrl++" names the plus key.
	if n := len(parts); n >= 2 && parts[n-1] == "" && parts[n-2] == "" {
		parts = append(parts[:n-2], "+")
	}

	var c Chord
	for i, p := range parts {
		if i == len(parts)-1 {
			if p == "" {
				return Chord{}, fmt.Errorf("keymap: missing key in %q", s)
			}
			c.Key = p
			break
		}
		switch p {
		case "ctrl", "control", "cmd":
			c.Mods |= Ctrl
		case "shift":
			c.Mods |= Shift
		case "alt", "option":
			c.Mods |= Alt
		default:
			return Chord{}, fmt.Errorf("keymap: unknown modifier %q in %q", p, s)
		}
	}
	return c, nil
}

// Binding pairs a chord with its action.
type Binding struct {
	Chord  Chord
	Action Action
}

// Keymap is a set of bindings. The zero value has none.
type Keymap struct {
	bindings map[Chord]Action
}

// New returns an empty keymap.
func New() *Keymap {
	return &Keymap{bindings: make(map[Chord]Action)}
}

// Default returns the standard bindings.
func Default() *Keymap {
	k := New()
	for chord, a := range map[string]Action{
		"b":            SelectBrush,
		"e":            SelectEraser,
		"l":            SelectLine,
		"r":            SelectRectangle,
		"c":            SelectCircle,
		"f":            SelectFill,
		"s":            SelectSelect,
		"space":        HoldPan,
		"=":            ZoomIn,
		"shift+=":      ZoomIn,
		"-":            ZoomOut,
		"0":            ZoomReset,
		"g":            ToggleGrid,
		"ctrl+z":       Undo,
		"ctrl+y":       Redo,
		"ctrl+shift+z": Redo,
		"ctrl+s":       Save,
		"ctrl+o":       Open,
		"ctrl+e":       Export,
		"ctrl+i":       Import,
		"ctrl+n":       NewLayer,
		"delete":       DeleteSelection,
		"escape":       ClearSelection,
	} {
		if err := k.Bind(chord, a); err != nil {
			panic(err)
		}
	}
	return k
}

// Bind maps a chord to an action, replacing any previous binding. Binding
// None removes the chord.
func (k *Keymap) Bind(chord string, a Action) error {
	c, err := ParseChord(chord)
	if err != nil {
		return err
	}
	if k.bindings == nil {
		k.bindings = make(map[Chord]Action)
	}
	if a == None {
		delete(k.bindings, c)
		return nil
	}
	k.bindings[c] = a
	return nil
}

// Lookup returns the action for a chord. While a text input has focus
// every key belongs to it and Lookup returns None.
func (k *Keymap) Lookup(c Chord, textFocus bool) Action {
	if textFocus {
		return None
	}
	c.Key = strings.ToLower(c.Key)
	return k.bindings[c]
}

// Bindings lists every binding ordered by chord.
func (k *Keymap) Bindings() []Binding {
	out := make([]Binding, 0, len(k.bindings))
	for c, a := range k.bindings {
		out = append(out, Binding{Chord: c, Action: a})
	}
	slices.SortFunc(out, func(a, b Binding) int {
		return strings.Compare(a.Chord.String(), b.Chord.String())
	})
	return out
}

// Keys lists the chords bound to an action, ordered.
func (k *Keymap) Keys(a Action) []Chord {
	var out []Chord
	for _, b := range k.Bindings() {
		if b.Action == a {
			out = append(out, b.Chord)
		}
	}
	return out
}
