package export

import (
	"bytes"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/archviz/pkg/errors"
	"github.com/matzehuels/archviz/pkg/render"
	"github.com/matzehuels/archviz/pkg/render/convert"
	"github.com/matzehuels/archviz/pkg/render/raster"
	"github.com/matzehuels/archviz/pkg/render/svg"
)

// Format is an output encoding.
type Format int

const (
	Raster Format = iota
	Vector
	Document
)

func (f Format) String() string {
	switch f {
	case Raster:
		return "png"
	case Vector:
		return "svg"
	case Document:
		return "pdf"
	}
	return "unknown"
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string { return "." + f.String() }

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case Raster:
		return "image/png"
	case Vector:
		return "image/svg+xml"
	case Document:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// ParseFormat accepts "png", "svg", "pdf" and the aliases "raster",
// "vector" and "document".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png", "raster":
		return Raster, nil
	case "svg", "vector":
		return Vector, nil
	case "pdf", "document":
		return Document, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidFormat, "unknown output format %q (want png, svg or pdf)", s)
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "cannot infer output format of %q", path)
	}
	return ParseFormat(ext)
}

// Options tunes encoding.
type Options struct {
	// Scale multiplies raster resolution. Zero means 1.
	Scale float64
	// Title is embedded in vector output.
	Title string
}

// Encode renders scene in format f.
func Encode(scene render.Scene, f Format, opts Options) ([]byte, error) {
	switch f {
	case Raster:
		data, err := raster.EncodePNG(scene, raster.WithScale(opts.Scale))
		if errors.Is(err, errors.ErrCodeLayoutOverflow) {
			return nil, err
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeExportIO, err, "encode png")
		}
		return data, nil
	case Vector:
		return svg.Render(scene, svg.WithTitle(opts.Title)), nil
	case Document:
		data, err := convert.ToPDF(svg.Render(scene, svg.WithTitle(opts.Title)))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeExportIO, err, "encode pdf")
		}
		return data, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown output format %d", int(f))
}

// Export encodes scene and writes it atomically to path. It returns the
// absolute path of the written file.
func Export(scene render.Scene, path string, f Format, opts Options) (string, error) {
	if err := errors.ValidateOutputPath(path); err != nil {
		return "", err
	}
	data, err := Encode(scene, f, opts)
	if err != nil {
		return "", err
	}
	return WriteFile(data, path)
}

// WriteFile writes data to path through a temporary file and a rename. It
// returns the absolute path of the written file.
func WriteFile(data []byte, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeExportIO, err, "resolve %s", path)
	}
	dir, base := filepath.Split(abs)

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeExportIO, err, "create temp file for %s", abs)
	}
	name := tmp.Name()
	fail := func(err error, msg string) (string, error) {
		_ = tmp.Close()
		_ = os.Remove(name)
		return "", errors.Wrap(errors.ErrCodeExportIO, err, "%s %s", msg, abs)
	}

	if _, err := tmp.Write(data); err != nil {
		return fail(err, "write")
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fail(err, "chmod")
	}
	if err := tmp.Sync(); err != nil {
		return fail(err, "sync")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return "", errors.Wrap(errors.ErrCodeExportIO, err, "close %s", abs)
	}
	if err := os.Rename(name, abs); err != nil {
		_ = os.Remove(name)
		return "", errors.Wrap(errors.ErrCodeExportIO, err, "rename into %s", abs)
	}
	return abs, nil
}

// ReadDimensions returns the size of an exported PNG (pixels) or SVG
// (viewBox units).
func ReadDimensions(path string) (w, h float64, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return 0, 0, errors.Wrap(errors.ErrCodeExportIO, err, "read %s", path)
	}

	if strings.EqualFold(filepath.Ext(path), ".svg") || bytes.Contains(data[:min(len(data), 512)], []byte("<svg")) {
		w, h, err := convert.Dimensions(data)
		if err != nil {
			return 0, 0, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s", path)
		}
		return w, h, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeUnsupported, err, "read dimensions of %s", path)
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}
