package main

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ha1tch/ddcanvas/export"
	"github.com/ha1tch/ddcanvas/paint"
	"github.com/ha1tch/ddcanvas/project"
)

// writeProject saves a 32x32 white canvas with a hidden red layer on top.
func writeProject(t *testing.T) string {
	t.Helper()
	opts := paint.DefaultOptions()
	opts.Width, opts.Height = 32, 32
	s := paint.New(opts)

	id := s.ImportImage("red", image.NewUniform(color.NRGBA{R: 255, A: 255}))
	s.ToggleLayerVisibility(id)

	path := filepath.Join(t.TempDir(), "art"+project.Ext)
	if err := project.Save(path, project.Project{State: s.State()}); err != nil {
		t.Fatal(err)
	}
	return path
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestExportDefaultsToPNGBesideInput(t *testing.T) {
	in := writeProject(t)
	if err := run([]string{"-i", in}, io.Discard); err != nil {
		t.Fatal(err)
	}
	img := decodePNG(t, filepath.Join(filepath.Dir(in), "art.png"))
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Fatalf("bounds = %v", b)
	}
	if r, g, b, _ := img.At(5, 5).RGBA(); r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Fatalf("hidden layer exported: %v", img.At(5, 5))
	}
}

func TestExportHiddenLayers(t *testing.T) {
	in := writeProject(t)
	out := filepath.Join(t.TempDir(), "all.png")
	if err := run([]string{"-i", in, "-o", out, "-hidden"}, io.Discard); err != nil {
		t.Fatal(err)
	}
	if r, g, _, _ := decodePNG(t, out).At(5, 5).RGBA(); r>>8 != 255 || g != 0 {
		t.Fatal("hidden layer missing with -hidden")
	}
}

func TestExportResize(t *testing.T) {
	in := writeProject(t)
	out := filepath.Join(t.TempDir(), "wide.png")
	if err := run([]string{"-i", in, "-o", out, "-width", "64"}, io.Discard); err != nil {
		t.Fatal(err)
	}
	if b := decodePNG(t, out).Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Fatalf("bounds = %v", b)
	}
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		name, out string
		want      export.Format
	}{
		{"", "", export.PNG},
		{"", "a.pdf", export.PDF},
		{"jpg", "a.png", export.JPEG},
		{"bmp", "", export.BMP},
	}
	for _, tt := range tests {
		got, err := outputFormat(tt.name, tt.out)
		if err != nil || got != tt.want {
			t.Errorf("outputFormat(%q, %q) = %v, %v", tt.name, tt.out, got, err)
		}
	}
	if _, err := outputFormat("tiff", ""); err == nil {
		t.Error("tiff accepted")
	}
}

func TestRunErrors(t *testing.T) {
	if err := run(nil, io.Discard); err == nil {
		t.Error("missing -i accepted")
	}
	if err := run([]string{"-i", filepath.Join(t.TempDir(), "none.ddd")}, io.Discard); err == nil {
		t.Error("missing project accepted")
	}
}
