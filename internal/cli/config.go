package cli

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/archviz/internal/server"
	"github.com/matzehuels/archviz/pkg/errors"
	"github.com/matzehuels/archviz/pkg/layout"
	"github.com/matzehuels/archviz/pkg/pipeline"
)

// Config is the TOML settings file. Command-line flags override it.
//
//	[layout]
//	direction = "LR"
//	legend = true
//
//	[theme.palette]
//	compute = "#FF9900"
//
//	[redis]
//	addr = "localhost:6379"
//
//	[log]
//	level = "warn"
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Theme  ThemeConfig  `toml:"theme"`
	Render RenderConfig `toml:"render"`
	Server ServerConfig `toml:"server"`
	Redis  RedisConfig  `toml:"redis"`
	Mongo  MongoConfig  `toml:"mongo"`
	Log    LogConfig    `toml:"log"`
}

type LayoutConfig struct {
	Direction string  `toml:"direction"`
	Padding   float64 `toml:"padding"`
	Gap       float64 `toml:"gap"`
	MaxWidth  float64 `toml:"max_width"`
	MaxHeight float64 `toml:"max_height"`
	Legend    bool    `toml:"legend"`
}

type ThemeConfig struct {
	Palette    map[string]string `toml:"palette"`
	Background string            `toml:"background"`
	FontSize   float64           `toml:"font_size"`
}

type RenderConfig struct {
	Scale   float64  `toml:"scale"`
	Formats []string `toml:"formats"`
	Engine  string   `toml:"engine"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// LogConfig sets the default log level; --verbose overrides it.
type LogConfig struct {
	Level string `toml:"level"`
}

type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Layout: LayoutConfig{
			MaxWidth:  layout.DefaultMaxWidth,
			MaxHeight: layout.DefaultMaxHeight,
		},
		Render: RenderConfig{
			Scale:   pipeline.DefaultScale,
			Formats: []string{pipeline.FormatSVG},
			Engine:  pipeline.EngineNative,
		},
		Server: ServerConfig{Addr: server.DefaultAddr},
	}
}

// configPath returns the default config location using XDG standard
// (~/.config/archviz/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// LoadConfig reads path over the defaults. An empty path reads the default
// location, where a missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	meta, err := toml.DecodeFile(path, cfg)
	if stderrors.Is(err, fs.ErrNotExist) {
		if explicit {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// PipelineOptions converts the settings to pipeline options.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Direction:  c.Layout.Direction,
		Padding:    c.Layout.Padding,
		Gap:        c.Layout.Gap,
		FontSize:   c.Theme.FontSize,
		Legend:     c.Layout.Legend,
		MaxWidth:   c.Layout.MaxWidth,
		MaxHeight:  c.Layout.MaxHeight,
		Formats:    c.Render.Formats,
		Engine:     c.Render.Engine,
		Scale:      c.Render.Scale,
		Palette:    c.Theme.Palette,
		Background: c.Theme.Background,
	}
}
