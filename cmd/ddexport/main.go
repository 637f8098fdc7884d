// Command ddexport flattens a .ddd project into an image without opening a
// window.
//
//	ddexport -i drawing.ddd -o drawing.pdf
//	ddexport -i drawing.ddd -format jpeg -width 256 -height 256
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ha1tch/ddcanvas/export"
	"github.com/ha1tch/ddcanvas/paint"
	"github.com/ha1tch/ddcanvas/project"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "ddexport:", err)
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("ddexport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("i", "", "input project (.ddd)")
	out := fs.String("o", "", "output image; defaults to the input name with the format's extension")
	format := fs.String("format", "", "png, jpeg, bmp or pdf; defaults to the output extension")
	width := fs.Int("width", 0, "resize the canvas before export")
	height := fs.Int("height", 0, "resize the canvas before export")
	hidden := fs.Bool("hidden", false, "include hidden layers")
	verbose := fs.Bool("v", false, "log progress")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		fs.Usage()
		return errors.New("no input project")
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	paint.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	f, err := outputFormat(*format, *out)
	if err != nil {
		return err
	}
	path := *out
	if path == "" {
		path = strings.TrimSuffix(*in, filepath.Ext(*in)) + f.Ext()
	}

	p, err := project.Load(*in)
	if err != nil {
		return err
	}
	if *hidden {
		for i := range p.State.Layers {
			p.State.Layers[i].Visible = true
		}
	}

	sess := paint.New(paint.DefaultOptions())
	if err := sess.Restore(p.State); err != nil {
		return fmt.Errorf("%s: %w", *in, err)
	}
	if *width > 0 || *height > 0 {
		w, h := sess.CanvasSize()
		if *width > 0 {
			w = *width
		}
		if *height > 0 {
			h = *height
		}
		sess.ResizeCanvas(w, h)
	}

	if err := export.WriteFile(path, sess.Composite(), f); err != nil {
		return err
	}
	paint.Logger().Info("exported", "from", *in, "to", path, "format", f)
	return nil
}

// outputFormat prefers an explicit -format, then the output extension, then PNG.
func outputFormat(name, out string) (export.Format, error) {
	if name != "" {
		return export.ParseFormat(name)
	}
	if out != "" {
		return export.FormatForPath(out)
	}
	return export.PNG, nil
}
