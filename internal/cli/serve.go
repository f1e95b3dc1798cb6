package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kotomap/kotomap/internal/server"
	"github.com/kotomap/kotomap/pkg/cache"
	"github.com/kotomap/kotomap/pkg/generate"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		genOpts    generatorOptions
		addr       string
		sessionTTL time.Duration
		redisAddr  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the kotomap HTTP API server",
		Long: `Serve exposes graph sessions over HTTP. Clients create a session, expand
nodes one at a time, and fetch snapshots or rendered images. A stateless
/v1/expand endpoint is also available for clients that keep their own graph.

Generator responses are cached on disk by default; pass --redis to share the
cache between instances.`,
		Example: `  kotomap serve --addr :8080
  kotomap serve --offline --session-ttl 1h
  kotomap serve --redis localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, genOpts, addr, sessionTTL, redisAddr)
		},
	}

	addGeneratorFlags(cmd, &genOpts)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&sessionTTL, "session-ttl", 0, "session inactivity timeout (default 24h)")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for a shared generator cache (host:port)")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, genOpts generatorOptions, addr string, sessionTTL time.Duration, redisAddr string) error {
	ctx := cmd.Context()

	cat, err := loadCatalog(genOpts.domain)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	var gen generate.Generator
	if redisAddr != "" {
		store, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer store.Close()

		// Shared Redis instances hold other applications' keys; namespace ours.
		keyer := cache.NewScopedKeyer(nil, appName+":")
		gen, err = c.newGeneratorWithCache(cat, genOpts, store, keyer)
		if err != nil {
			return err
		}
		c.Logger.Info("using redis generator cache", "addr", redisAddr)
	} else {
		gen, err = c.newGenerator(cat, genOpts)
		if err != nil {
			return err
		}
	}

	srv, err := server.New(server.Config{
		Addr:       addr,
		Catalog:    cat,
		Generator:  gen,
		SessionTTL: sessionTTL,
		Logger:     c.Logger,
	})
	if err != nil {
		return err
	}

	c.Logger.Info("starting server", "addr", addr, "domain", cat.Name)
	return srv.Run(ctx)
}
