// Package export encodes a flattened canvas into image and document
// formats.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/bmp"

	"github.com/ha1tch/ddcanvas/raster"
)

// ErrUnknownFormat is returned for a format name or extension that has no
// encoder.
var ErrUnknownFormat = errors.New("export: unknown format")

// JPEGQuality is the quality used for JPEG output.
const JPEGQuality = 95

// Format is an output format.
type Format int

const (
	PNG Format = iota
	JPEG
	BMP
	PDF
)

var formats = []struct {
	name string
	exts []string
}{
	PNG:  {"png", []string{".png"}},
	JPEG: {"jpeg", []string{".jpg", ".jpeg"}},
	BMP:  {"bmp", []string{".bmp"}},
	PDF:  {"pdf", []string{".pdf"}},
}

func (f Format) String() string {
	if f < PNG || f > PDF {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formats[f].name
}

// Ext returns the usual file extension, with its dot.
func (f Format) Ext() string {
	if f < PNG || f > PDF {
		return ""
	}
	return formats[f].exts[0]
}

// Opaque reports whether the format drops transparency. Images are
// flattened onto white before encoding such formats.
func (f Format) Opaque() bool { return f != PNG }

// ParseFormat looks up a format by name ("png", "jpg", "jpeg", "bmp",
// "pdf"). The empty string selects PNG.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	if name == "" {
		return PNG, nil
	}
	for i, f := range formats {
		if f.name == name {
			return Format(i), nil
		}
		for _, ext := range f.exts {
			if ext[1:] == name {
				return Format(i), nil
			}
		}
	}
	return PNG, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatForPath picks a format from a file name's extension. A name with
// no extension is PNG.
func FormatForPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Encode writes img to w in format f at its native resolution.
func Encode(w io.Writer, img image.Image, f Format) error {
	if f.Opaque() {
		img = raster.Flatten(img, color.White)
	}

	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case JPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case BMP:
		err = bmp.Encode(w, img)
	case PDF:
		err = encodePDF(w, img)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
	if err != nil {
		return fmt.Errorf("export: encode %v: %w", f, err)
	}
	return nil
}

// WriteFile encodes img into a new file at path.
func WriteFile(path string, img image.Image, f Format) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := Encode(file, img, f); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// encodePDF writes a single page the size of the image, in points, with
// the image embedded as PNG.
func encodePDF(w io.Writer, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}

	b := img.Bounds()
	wd, ht := float64(max(b.Dx(), 1)), float64(max(b.Dy(), 1))
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("canvas", opts, &buf)
	pdf.ImageOptions("canvas", 0, 0, wd, ht, false, opts, 0, "")
	return pdf.Output(w)
}
