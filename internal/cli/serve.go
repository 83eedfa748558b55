package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archviz/internal/server"
	"github.com/matzehuels/archviz/pkg/buildinfo"
	"github.com/matzehuels/archviz/pkg/cache"
	"github.com/matzehuels/archviz/pkg/observability"
	"github.com/matzehuels/archviz/pkg/pipeline"
	"github.com/matzehuels/archviz/pkg/store"
)

const connectTimeout = 15 * time.Second

// serveCommand creates the serve command for the HTTP render service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		mongoURI  string
		noCache   bool
		flags     layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Run the HTTP render service.

Routes: GET /health, POST /render, POST /layout, GET /renders, GET /renders/{id}.

Artifacts are cached in Redis when --redis (or [redis] addr) is set and in the
local file cache otherwise. Render history is kept in MongoDB when --mongo (or
[mongo] uri) is set and in memory otherwise. The listen address defaults to
:$PORT when PORT is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			} else if port := os.Getenv("PORT"); port != "" {
				cfg.Server.Addr = ":" + port
			}
			if cmd.Flags().Changed("redis") {
				cfg.Redis.Addr = redisAddr
			}
			if cmd.Flags().Changed("mongo") {
				cfg.Mongo.URI = mongoURI
			}
			defaults := cfg.PipelineOptions()
			flags.apply(cmd, &defaults)
			return c.runServe(cmd.Context(), cfg, defaults, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for the artifact cache")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for render history")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *Config, defaults pipeline.Options, noCache bool) error {
	logger := loggerFromContext(ctx)
	hooks := observability.NewLogHooks(logger)
	observability.SetHTTPHooks(hooks)

	cc, err := c.serveCache(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	logger.Debug("artifact cache", "backend", cache.BackendName(cc))
	runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, "serve:"), logger)
	defer runner.Close()

	st, err := serveStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := server.New(server.Config{
		Addr:     cfg.Server.Addr,
		Version:  buildinfo.Version,
		Defaults: defaults,
	}, runner, st, logger)

	printInfo("Serving on %s", StyleHighlight.Render(srv.Addr()))
	return srv.ListenAndServe(ctx)
}

func (c *CLI) serveCache(ctx context.Context, cfg *Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.Redis.Addr == "" {
		return newCache(false)
	}
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	rc, err := cache.NewRedisCache(connectCtx, cache.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("artifact cache: %w", err)
	}
	c.Logger.Info("connected to redis", "addr", cfg.Redis.Addr)
	return rc, nil
}

func serveStore(ctx context.Context, cfg *Config) (store.Store, error) {
	if cfg.Mongo.URI == "" {
		return store.NewMemoryStore(), nil
	}
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	st, err := store.NewMongoStore(connectCtx, store.MongoConfig{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("render history: %w", err)
	}
	return st, nil
}
