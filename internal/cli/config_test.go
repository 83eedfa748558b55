package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/archviz/internal/server"
	"github.com/matzehuels/archviz/pkg/errors"
	"github.com/matzehuels/archviz/pkg/pipeline"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Addr != server.DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, server.DefaultAddr)
	}
	if len(cfg.Render.Formats) != 1 || cfg.Render.Formats[0] != pipeline.FormatSVG {
		t.Errorf("Render.Formats = %v", cfg.Render.Formats)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
[layout]
direction = "LR"
legend = true
gap = 60

[theme]
background = "#101010"

[theme.palette]
compute = "#FF9900"

[render]
formats = ["svg", "png"]
scale = 2

[redis]
addr = "localhost:6379"
db = 3
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	opts := cfg.PipelineOptions()
	if opts.Direction != "LR" || !opts.Legend || opts.Gap != 60 {
		t.Errorf("layout options = %+v", opts)
	}
	if opts.Palette["compute"] != "#FF9900" || opts.Background != "#101010" {
		t.Errorf("theme options = %v %q", opts.Palette, opts.Background)
	}
	if len(opts.Formats) != 2 || opts.Scale != 2 {
		t.Errorf("render options = %v scale %g", opts.Formats, opts.Scale)
	}
	if opts.Engine != pipeline.EngineNative {
		t.Errorf("Engine = %q, default should survive", opts.Engine)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.DB != 3 {
		t.Errorf("redis = %+v", cfg.Redis)
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("options from config should validate: %v", err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		code errors.Code
	}{
		{
			name: "explicit file missing",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.toml") },
			code: errors.ErrCodeFileNotFound,
		},
		{
			name: "malformed",
			path: func(t *testing.T) string { return writeConfig(t, "[layout\n") },
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "unknown key",
			path: func(t *testing.T) string { return writeConfig(t, "[layout]\nspacing = 3\n") },
			code: errors.ErrCodeInvalidConfig,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.path(t))
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (%v)", got, tt.code, err)
			}
		})
	}
}

func TestConfigFlagOverrides(t *testing.T) {
	_, input := testEnv(t)
	cfgPath := writeConfig(t, "[layout]\ndirection = \"LR\"\n")

	// The config asks for LR; the flag wins.
	out, err := execute(t, "--config", cfgPath, "layout", input, "--direction", "TB", "--table")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if out == "" {
		t.Fatal("no output")
	}

	if _, err := execute(t, "--config", cfgPath+".missing", "layout", input); errors.GetCode(err) != errors.ErrCodeFileNotFound {
		t.Errorf("missing --config: got %v", err)
	}
}
