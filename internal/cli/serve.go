package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stepmotion/pkg/cache"
	"github.com/matzehuels/stepmotion/pkg/catalog"
	"github.com/matzehuels/stepmotion/pkg/errors"
	"github.com/matzehuels/stepmotion/pkg/pipeline"
	"github.com/matzehuels/stepmotion/pkg/server"
	"github.com/matzehuels/stepmotion/pkg/store"
)

// serveCommand creates the serve command for running the HTTP rendering
// server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		traces   string
		storeURL string
		cacheURL string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering server",
		Long: `Serve exposes traces over HTTP: algorithm listings, per-step scene data,
rendered frames, and animations. Traces come from a directory of JSON
files or a MongoDB store; rendered output is cached on disk or in Redis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = fileCfg.Serve.Addr
			}
			if addr == "" {
				addr = ":8080"
			}
			if traces == "" {
				traces = fileCfg.Serve.Traces
			}
			if traces == "" {
				traces = "."
			}
			if storeURL == "" {
				storeURL = fileCfg.Serve.StoreURL
			}
			if cacheURL == "" {
				cacheURL = fileCfg.Serve.CacheURL
			}
			return c.runServe(cmd.Context(), addr, traces, storeURL, cacheURL)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&traces, "traces", "", "directory of trace JSON files (default .)")
	cmd.Flags().StringVar(&storeURL, "store-url", "", "mongodb:// URI for a trace store (overrides --traces)")
	cmd.Flags().StringVar(&cacheURL, "cache-url", "", "redis:// URL for the render cache (default: file cache)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, traces, storeURL, cacheURL string) error {
	logger := loggerFromContext(ctx)

	st, err := openStore(ctx, traces, storeURL)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	ca, err := openServeCache(ctx, cacheURL)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(ca, nil, logger)
	defer runner.Close()

	srv := server.New(st, catalog.Default(), runner, logger)

	logger.Info("starting server", "addr", addr, "traces", traces)
	return srv.ListenAndServe(ctx, addr)
}

// openStore selects the trace store: a MongoDB URI wins over the local
// trace directory.
func openStore(ctx context.Context, traces, storeURL string) (store.Store, error) {
	if storeURL != "" {
		return store.NewMongoStore(ctx, storeURL, "stepmotion")
	}
	return store.NewDirStore(traces)
}

// openServeCache selects the render cache: Redis when a URL is given,
// the XDG file cache otherwise.
func openServeCache(ctx context.Context, cacheURL string) (cache.Cache, error) {
	if cacheURL != "" {
		if !strings.HasPrefix(cacheURL, "redis://") && !strings.HasPrefix(cacheURL, "rediss://") {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "cache url %q must use redis:// or rediss://", cacheURL)
		}
		return cache.NewRedisCache(ctx, cacheURL)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return fc, nil
}
