// Package cli implements the archviz command-line interface.
//
// # Commands
//
//   - render: draw a diagram description as SVG, PNG, PDF or DOT
//   - layout: print the computed rectangles as JSON
//   - inspect: print the dimensions of an exported image
//   - serve: run the HTTP render service
//   - cache: manage the local artifact cache
//
// All commands support --verbose (-v) for debug-level logging and --config
// for a TOML settings file. The logger is passed to commands through
// context.Context.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archviz/pkg/buildinfo"
	"github.com/matzehuels/archviz/pkg/cache"
	"github.com/matzehuels/archviz/pkg/observability"
	"github.com/matzehuels/archviz/pkg/pipeline"
)

const (
	// appName is the application name used for directories and display.
	appName = "archviz"

	// envOutputDir resolves relative output paths when set.
	envOutputDir = "ARCHVIZ_OUTPUT_DIR"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "archviz renders architecture diagrams from declarative descriptions",
		Long: `archviz turns a description of nodes, nested clusters and edges into a
deterministic architecture diagram. Descriptions are JSON, YAML or TOML;
output is SVG, PNG, PDF or Graphviz DOT.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg

			level, err := parseLevel(cfg.Log.Level)
			if err != nil {
				return err
			}
			if c.verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			if level <= LogDebug {
				hooks := observability.NewLogHooks(c.Logger)
				observability.SetPipelineHooks(hooks)
				observability.SetCacheHooks(hooks)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/archviz/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/archviz/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// resolveOutput joins relative paths onto $ARCHVIZ_OUTPUT_DIR when it is set.
func resolveOutput(path string) string {
	dir := os.Getenv(envOutputDir)
	if dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
