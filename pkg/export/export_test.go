package export

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/matzehuels/archviz/pkg/diagram"
	"github.com/matzehuels/archviz/pkg/errors"
	"github.com/matzehuels/archviz/pkg/layout"
	"github.com/matzehuels/archviz/pkg/render"
)

func scene(t *testing.T) (render.Scene, layout.Layout) {
	t.Helper()
	d := diagram.New("Export", "round trip", diagram.WithDirection(diagram.LeftToRight))
	g, _ := d.AddGroup(diagram.Root, "vpc", "VPC")
	_, _ = g.AddNode("a", "A", "compute", diagram.WithAnnotation("odd width text."))
	_, _ = g.AddNode("b", "B", "network")
	if err := d.AddEdge("a", "b", "link", diagram.EdgeStyle{}); err != nil {
		t.Fatal(err)
	}
	l, err := layout.Compute(d, layout.Options{Legend: true, Padding: 13.7})
	if err != nil {
		t.Fatal(err)
	}
	return render.Render(d, l, render.DefaultTheme()), l
}

func TestExportRoundTripDimensions(t *testing.T) {
	s, l := scene(t)
	dir := t.TempDir()

	tests := []struct {
		name   string
		file   string
		format Format
	}{
		{"png", "out.png", Raster},
		{"svg", "out.svg", Vector},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := Export(s, filepath.Join(dir, tt.file), tt.format, Options{Scale: 1})
			if err != nil {
				t.Fatalf("Export() error: %v", err)
			}
			if !filepath.IsAbs(path) {
				t.Errorf("Export() path %q not absolute", path)
			}
			w, h, err := ReadDimensions(path)
			if err != nil {
				t.Fatalf("ReadDimensions() error: %v", err)
			}
			if w != l.Canvas.W || h != l.Canvas.H {
				t.Errorf("dimensions = %vx%v, want %vx%v", w, h, l.Canvas.W, l.Canvas.H)
			}
		})
	}
}

func TestExportUnwritablePath(t *testing.T) {
	s, _ := scene(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
	}{
		{"missing directory", filepath.Join(dir, "missing", "out.png")},
		{"target is a directory", filepath.Join(dir, "taken.png")},
	}
	if err := os.Mkdir(filepath.Join(dir, "taken.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Export(s, tt.path, Raster, Options{})
			if !errors.Is(err, errors.ErrCodeExportIO) {
				t.Errorf("Export() error = %v, want EXPORT_IO", err)
			}
		})
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "taken.png" {
			t.Errorf("leftover file %q after failed export", e.Name())
		}
	}
}

func TestExportInvalidPath(t *testing.T) {
	s, _ := scene(t)
	if _, err := Export(s, "", Vector, Options{}); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Export(\"\") error = %v, want INVALID_PATH", err)
	}
}

func TestWriteFileReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.svg")
	if _, err := WriteFile([]byte("one"), path); err != nil {
		t.Fatal(err)
	}
	if _, err := WriteFile([]byte("two"), path); err != nil {
		t.Fatal(err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "two" {
		t.Errorf("content = %q, want %q", got, "two")
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0o644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}
}

func TestConcurrentExportsDistinctPaths(t *testing.T) {
	s, l := scene(t)
	dir := t.TempDir()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = Export(s, filepath.Join(dir, string(rune('a'+i))+".svg"), Vector, Options{})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("export %d: %v", i, err)
			continue
		}
		w, h, err := ReadDimensions(filepath.Join(dir, string(rune('a'+i))+".svg"))
		if err != nil || w != l.Canvas.W || h != l.Canvas.H {
			t.Errorf("export %d: %vx%v, %v", i, w, h, err)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.png", Raster, false},
		{"a.SVG", Vector, false},
		{"out/a.pdf", Document, false},
		{"a.gif", 0, true},
		{"a", 0, true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("FormatFromPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestReadDimensionsMissing(t *testing.T) {
	_, _, err := ReadDimensions(filepath.Join(t.TempDir(), "nope.png"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadDimensions() error = %v, want FILE_NOT_FOUND", err)
	}
}
