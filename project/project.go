// Package project reads and writes .ddd project files.
//
// A project is a zip archive holding project.json, which describes the
// canvas, layers, tools, view and palette, plus one layer_<i>.png per layer
// in stack order.
package project

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/ha1tch/ddcanvas/paint"
)

// Ext is the project file extension.
const Ext = ".ddd"

// Version is the manifest version written by Save. Newer files are
// rejected.
const Version = 1

const manifestName = "project.json"

var (
	ErrNoManifest    = errors.New("project: project.json not found")
	ErrBadManifest   = errors.New("project: invalid project.json")
	ErrBadLayerImage = errors.New("project: unreadable layer image")
	ErrVersion       = errors.New("project: unsupported version")
)

// Project is a session state plus the palette the host was using.
type Project struct {
	State   paint.State
	Palette []color.NRGBA
}

type manifest struct {
	Version      int               `json:"version"`
	CanvasWidth  int               `json:"canvas_width"`
	CanvasHeight int               `json:"canvas_height"`
	Layers       []paint.LayerInfo `json:"layers"`
	Active       string            `json:"active"`
	Tools        toolsData         `json:"tools"`
	View         paint.ViewState   `json:"view"`
	Palette      []string          `json:"palette,omitempty"`
}

type toolsData struct {
	Tool       paint.Tool `json:"tool"`
	BrushColor string     `json:"brush_color"`
	BrushSize  int        `json:"brush_size"`
	EraserSize int        `json:"eraser_size"`
}

func layerName(i int) string { return fmt.Sprintf("layer_%d.png", i) }

// Write encodes p as a project archive.
func Write(w io.Writer, p Project) error {
	st := p.State
	m := manifest{
		Version:      Version,
		CanvasWidth:  st.Width,
		CanvasHeight: st.Height,
		Active:       st.Active,
		Tools: toolsData{
			Tool:       st.Tools.Tool,
			BrushColor: paint.HexColor(st.Tools.BrushColor),
			BrushSize:  st.Tools.BrushSize,
			EraserSize: st.Tools.EraserSize,
		},
		View: st.View,
	}
	for _, l := range st.Layers {
		m.Layers = append(m.Layers, l.LayerInfo)
	}
	for _, c := range p.Palette {
		m.Palette = append(m.Palette, paint.HexColor(c))
	}

	zw := zip.NewWriter(w)
	jw, err := zw.Create(manifestName)
	if err != nil {
		return fmt.Errorf("project: %w", err)
	}
	enc := json.NewEncoder(jw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("project: encode manifest: %w", err)
	}

	for i, l := range st.Layers {
		if l.Image == nil {
			continue
		}
		lw, err := zw.Create(layerName(i))
		if err != nil {
			return fmt.Errorf("project: %w", err)
		}
		if err := png.Encode(lw, l.Image); err != nil {
			return fmt.Errorf("project: encode layer %d: %w", i, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("project: %w", err)
	}
	return nil
}

// Save writes p to path. The file is replaced only once the new archive
// has been written completely.
func Save(path string, p Project) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".ddd-*")
	if err != nil {
		return fmt.Errorf("project: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, p); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("project: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("project: %w", err)
	}
	paint.Logger().Info("project: saved", "path", path, "layers", len(p.State.Layers))
	return nil
}

// Read decodes a project archive of the given size. Layers without an
// image come back blank.
func Read(r io.ReaderAt, size int64) (Project, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Project{}, fmt.Errorf("project: %w", err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	mf, ok := files[manifestName]
	if !ok {
		return Project{}, ErrNoManifest
	}
	m, err := readManifest(mf)
	if err != nil {
		return Project{}, err
	}

	brush := paint.DefaultToolSettings().BrushColor
	if m.Tools.BrushColor != "" {
		if brush, err = paint.ParseHexColor(m.Tools.BrushColor); err != nil {
			return Project{}, fmt.Errorf("%w: brush colour: %w", ErrBadManifest, err)
		}
	}
	p := Project{
		State: paint.State{
			Width:  m.CanvasWidth,
			Height: m.CanvasHeight,
			Active: m.Active,
			Tools: paint.ToolSettings{
				Tool:       m.Tools.Tool,
				BrushColor: brush,
				BrushSize:  m.Tools.BrushSize,
				EraserSize: m.Tools.EraserSize,
			},
			View: m.View,
		},
	}
	for _, h := range m.Palette {
		c, err := paint.ParseHexColor(h)
		if err != nil {
			return Project{}, fmt.Errorf("%w: palette: %w", ErrBadManifest, err)
		}
		p.Palette = append(p.Palette, c)
	}

	for i, info := range m.Layers {
		ld := paint.LayerData{LayerInfo: info}
		if f, ok := files[layerName(i)]; ok {
			if ld.Image, err = readLayer(f); err != nil {
				return Project{}, fmt.Errorf("%w: %s: %w", ErrBadLayerImage, f.Name, err)
			}
		}
		p.State.Layers = append(p.State.Layers, ld)
	}
	return p, nil
}

func readManifest(f *zip.File) (manifest, error) {
	rc, err := f.Open()
	if err != nil {
		return manifest{}, fmt.Errorf("project: %w", err)
	}
	defer rc.Close()

	var m manifest
	if err := json.NewDecoder(rc).Decode(&m); err != nil {
		return manifest{}, fmt.Errorf("%w: %w", ErrBadManifest, err)
	}
	if m.Version < 1 || m.Version > Version {
		return manifest{}, fmt.Errorf("%w: %d", ErrVersion, m.Version)
	}
	return m, nil
}

func readLayer(f *zip.File) (image.Image, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return png.Decode(rc)
}

// Load reads the project at path.
func Load(path string) (Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return Project{}, fmt.Errorf("project: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return Project{}, fmt.Errorf("project: %w", err)
	}
	p, err := Read(f, fi.Size())
	if err != nil {
		return Project{}, err
	}
	paint.Logger().Info("project: loaded", "path", path, "layers", len(p.State.Layers))
	return p, nil
}
