package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archviz/pkg/errors"
	"github.com/matzehuels/archviz/pkg/layout"
)

const sampleDiagram = `{
  "title": "Web Tier",
  "children": [
    {"id": "lb", "label": "Load Balancer", "style": "network"},
    {
      "id": "app",
      "type": "cluster",
      "label": "App Servers",
      "children": [
        {"id": "web1", "label": "web-1", "style": "compute"},
        {"id": "web2", "label": "web-2", "style": "compute"}
      ]
    },
    {"id": "db", "label": "Postgres", "style": "database"}
  ],
  "edges": [
    {"from": "lb", "to": "web1"},
    {"from": "lb", "to": "web2"},
    {"from": "app", "to": "db", "label": "sql"}
  ]
}`

// testEnv isolates the config and cache directories and writes the sample
// description into a temp dir.
func testEnv(t *testing.T) (dir, input string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv(envOutputDir, "")
	input = filepath.Join(dir, "web.json")
	if err := os.WriteFile(input, []byte(sampleDiagram), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, input
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	got, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg-cache", appName); got != want {
		t.Errorf("cacheDir() = %q, want %q", got, want)
	}
}

func TestResolveOutput(t *testing.T) {
	tests := []struct {
		name string
		env  string
		path string
		want string
	}{
		{"unset", "", "out.svg", "out.svg"},
		{"relative", "/srv/out", "out.svg", filepath.Join("/srv/out", "out.svg")},
		{"absolute", "/srv/out", "/tmp/out.svg", "/tmp/out.svg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(envOutputDir, tt.env)
			if got := resolveOutput(tt.path); got != tt.want {
				t.Errorf("resolveOutput(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "diagrams/web.json", "diagrams/web"},
		{"", "web.yaml", "web"},
		{"out.svg", "web.json", "out"},
		{"out.png", "web.json", "out"},
		{"build/arch", "web.json", "build/arch"},
		{"arch.v2", "web.json", "arch.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestStatsLine(t *testing.T) {
	got := statsLine(4, 0, 3, true)
	for _, want := range []string{"4 nodes", "3 edges", "cached"} {
		if !strings.Contains(got, want) {
			t.Errorf("statsLine() = %q, missing %q", got, want)
		}
	}
	if strings.Contains(got, "groups") {
		t.Errorf("statsLine() = %q, zero groups should be omitted", got)
	}
	if !strings.Contains(statsLine(1, 1, 0, false), "fresh") {
		t.Error("uncached stats should say fresh")
	}
}

func TestRenderCommand(t *testing.T) {
	dir, input := testEnv(t)
	base := filepath.Join(dir, "rendered")

	if _, err := execute(t, "render", input, "-f", "svg,png,dot", "-o", base); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, ext := range []string{".svg", ".png", ".dot"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("missing %s output: %v", ext, err)
		}
	}

	var out bytes.Buffer
	if err := runInspect(base+".png", &out); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !strings.Contains(out.String(), "\tpng\t") {
		t.Errorf("inspect output = %q", out.String())
	}

	// Second run is served from the file cache.
	entries, err := os.ReadDir(filepath.Join(dir, "cache", appName))
	if err != nil || len(entries) == 0 {
		t.Fatalf("cache dir not populated: %v", err)
	}
	if _, err := execute(t, "render", input, "-f", "svg", "-o", base+".svg"); err != nil {
		t.Fatalf("cached render: %v", err)
	}
}

func TestRenderCommandDefaultOutput(t *testing.T) {
	dir, input := testEnv(t)
	if _, err := execute(t, "render", input); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "web.svg")); err != nil {
		t.Errorf("default output missing: %v", err)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir, input := testEnv(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing input", []string{"render", filepath.Join(dir, "nope.json")}, errors.ErrCodeFileNotFound},
		{"bad format", []string{"render", input, "-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"bad engine", []string{"render", input, "--engine", "circo"}, errors.ErrCodeInvalidInput},
		{"overflow", []string{"render", input, "--max-width", "50", "--no-cache"}, errors.ErrCodeLayoutOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestLayoutCommand(t *testing.T) {
	_, input := testEnv(t)
	out, err := execute(t, "layout", input, "--direction", "LR")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	var l layout.Layout
	if err := json.Unmarshal([]byte(out), &l); err != nil {
		t.Fatalf("output is not a layout: %v\n%s", err, out)
	}
	for _, id := range []string{"lb", "app", "web1", "web2", "db"} {
		if _, ok := l.Rects[id]; !ok {
			t.Errorf("layout missing rect %q", id)
		}
	}
	lb, db := l.Rects["lb"], l.Rects["db"]
	if db.X <= lb.X {
		t.Errorf("LR flow: db.X = %g should be right of lb.X = %g", db.X, lb.X)
	}
}

func TestLayoutCommandTable(t *testing.T) {
	_, input := testEnv(t)
	out, err := execute(t, "layout", input, "--table")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	for _, want := range []string{"KIND", "web1", "group", "(canvas)"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestCachePathCommand(t *testing.T) {
	dir, _ := testEnv(t)
	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := strings.TrimSpace(out), filepath.Join(dir, "cache", appName); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCompletionCommand(t *testing.T) {
	testEnv(t)
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, appName) {
		t.Error("completion script should mention the command name")
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}

func TestInspectUnknownFile(t *testing.T) {
	err := runInspect(filepath.Join(t.TempDir(), "missing.png"), io.Discard)
	if err == nil {
		t.Fatal("expected error")
	}
}
