package main

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ha1tch/ddcanvas/keymap"
	"github.com/ha1tch/ddcanvas/paint"
)

// keyName names a raylib key the way keymap chords do. Keys with no name
// return "".
func keyName(key int32) string {
	switch {
	case key >= rl.KeyA && key <= rl.KeyZ:
		return string(rune('a' + key - rl.KeyA))
	case key >= rl.KeyZero && key <= rl.KeyNine:
		return string(rune('0' + key - rl.KeyZero))
	}
	switch key {
	case rl.KeySpace:
		return "space"
	case rl.KeyEqual, rl.KeyKpAdd:
		return "="
	case rl.KeyMinus, rl.KeyKpSubtract:
		return "-"
	case rl.KeyDelete, rl.KeyBackspace:
		return "delete"
	case rl.KeyEscape:
		return "escape"
	}
	return ""
}

func heldMods() keymap.Mods {
	var m keymap.Mods
	if rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper) {
		m |= keymap.Ctrl
	}
	if rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift) {
		m |= keymap.Shift
	}
	if rl.IsKeyDown(rl.KeyLeftAlt) || rl.IsKeyDown(rl.KeyRightAlt) {
		m |= keymap.Alt
	}
	return m
}

// handleKeys drains the key queue through the keymap. While typing, every
// key belongs to the prompt.
func (app *App) handleKeys(typing bool) {
	mods := heldMods()
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		name := keyName(key)
		if name == "" {
			continue
		}
		a := app.keys.Lookup(keymap.Chord{Mods: mods, Key: name}, typing)
		switch a {
		case keymap.None:
		case keymap.HoldPan:
			app.holdPan(key)
		default:
			app.do(a)
		}
	}

	if app.panHeld && rl.IsKeyUp(app.panKey) {
		app.panHeld = false
		app.sess.Tools().SetTool(app.prevTool)
	}
}

// holdPan switches to the pan tool until key is released.
func (app *App) holdPan(key int32) {
	if app.panHeld {
		return
	}
	t := app.sess.Tools()
	app.prevTool = t.Tool()
	app.panHeld = true
	app.panKey = key
	t.SetTool(paint.Pan)
}

// prompt is a one-line text entry shown in the top bar.
type prompt struct {
	label string
	text  []rune
	done  func(string)
}

// ask opens a prompt prefilled with text. done runs on Enter.
func (app *App) ask(label, text string, done func(string)) {
	app.prompt = &prompt{label: label, text: []rune(text), done: done}
}

func (app *App) updatePrompt() {
	p := app.prompt
	for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
		if c >= 32 {
			p.text = append(p.text, c)
		}
	}
	switch {
	case rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressedRepeat(rl.KeyBackspace):
		if len(p.text) > 0 {
			p.text = p.text[:len(p.text)-1]
		}
	case rl.IsKeyPressed(rl.KeyEscape):
		app.prompt = nil
	case rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter):
		app.prompt = nil
		p.done(string(p.text))
	}
}

func (app *App) drawPrompt() {
	p := app.prompt
	text := p.label + ": " + string(p.text)
	if int(rl.GetTime()*2)%2 == 0 {
		text += "_"
	}
	rl.DrawRectangle(leftPanel+6, 27, screenWidth-leftPanel-rightPanel-12, 18, rl.Color{R: 30, G: 30, B: 30, A: 255})
	rl.DrawText(text, leftPanel+10, 31, fontSize, rl.White)
}
