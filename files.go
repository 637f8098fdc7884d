package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	_ "golang.org/x/image/bmp"

	"github.com/ha1tch/ddcanvas/export"
	"github.com/ha1tch/ddcanvas/paint"
	"github.com/ha1tch/ddcanvas/project"
)

func (app *App) fail(what string, err error) {
	paint.Logger().Error(what, "err", err)
	app.setStatus("%s FAILED: %v", strings.ToUpper(what), err)
}

func (app *App) save(path string) {
	p := project.Project{State: app.sess.State(), Palette: app.palette}
	if err := project.Save(path, p); err != nil {
		app.fail("save", err)
		return
	}
	app.path = path
	app.setStatus("SAVED %s", path)
}

func (app *App) open(path string) {
	p, err := project.Load(path)
	if err != nil {
		app.fail("open", err)
		return
	}
	if err := app.sess.Restore(p.State); err != nil {
		app.fail("open", err)
		return
	}
	if len(p.Palette) > 0 {
		app.palette = p.Palette
	}
	app.path = path
	app.setStatus("OPENED %s", path)
}

func (app *App) exportPath() string {
	return strings.TrimSuffix(app.path, filepath.Ext(app.path)) + export.PNG.Ext()
}

// export writes the composite at native resolution; the format follows
// the file extension.
func (app *App) export(path string) {
	f, err := export.FormatForPath(path)
	if err != nil {
		app.fail("export", err)
		return
	}
	if err := export.WriteFile(path, app.sess.Composite(), f); err != nil {
		app.fail("export", err)
		return
	}
	paint.Logger().Info("exported", "path", path, "format", f)
	app.setStatus("EXPORTED %s", path)
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

func (app *App) importImage(path string) {
	img, err := decodeImage(path)
	if err != nil {
		app.fail("import", err)
		return
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	app.sess.ImportImage(name, img)
	app.setStatus("IMPORTED %s", path)
}

// handleDroppedFiles opens dropped projects and imports dropped images as
// new layers.
func (app *App) handleDroppedFiles() {
	if !rl.IsFileDropped() {
		return
	}
	files := rl.LoadDroppedFiles()
	rl.UnloadDroppedFiles()
	for _, path := range files {
		if strings.EqualFold(filepath.Ext(path), project.Ext) {
			app.open(path)
		} else {
			app.importImage(path)
		}
	}
}
