// Package cli implements the kotomap command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kotomap/kotomap/pkg/buildinfo"
	"github.com/kotomap/kotomap/pkg/cache"
	"github.com/kotomap/kotomap/pkg/catalog"
	"github.com/kotomap/kotomap/pkg/generate"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "kotomap"

	// envAPIKey is the environment variable holding the OpenAI API key.
	envAPIKey = "OPENAI_API_KEY"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "kotomap",
		Short:        "Kotomap grows Japanese knowledge graphs one node at a time",
		Long:         `Kotomap builds incremental knowledge graphs in Japanese. Starting from a domain root node, it expands any node into related nodes via a language model, keeps every label in Japanese, and lays the growing graph out deterministically for rendering.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.expandCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Generator Factory
// =============================================================================

// generatorOptions configures newGenerator.
type generatorOptions struct {
	offline bool
	noCache bool
	refresh bool
	model   string
	domain  string
}

// addGeneratorFlags registers the shared generator flags on cmd.
func addGeneratorFlags(cmd *cobra.Command, opts *generatorOptions) {
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "use the offline stub generator instead of the OpenAI API")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the generator response cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached responses but store fresh ones")
	cmd.Flags().StringVar(&opts.model, "model", generate.DefaultModel, "OpenAI model to use for expansions")
	cmd.Flags().StringVar(&opts.domain, "domain", "", "path to a domain catalog TOML file (default: built-in catalog)")
}

// newGenerator builds the generator stack for CLI use: an OpenAI (or stub)
// backend wrapped with the on-disk response cache.
func (c *CLI) newGenerator(cat *catalog.Catalog, opts generatorOptions) (generate.Generator, error) {
	store, err := newCache(opts.noCache)
	if err != nil {
		return nil, err
	}
	return c.newGeneratorWithCache(cat, opts, store, nil)
}

// newGeneratorWithCache is newGenerator with a caller-supplied cache backend
// and key namespace.
func (c *CLI) newGeneratorWithCache(cat *catalog.Catalog, opts generatorOptions, store cache.Cache, keyer cache.Keyer) (generate.Generator, error) {
	var inner generate.Generator
	var model string

	if opts.offline {
		stub := generate.NewStubGenerator(cat)
		inner, model = stub, stub.Model()
	} else {
		key := os.Getenv(envAPIKey)
		if key == "" {
			return nil, fmt.Errorf("%s is not set (use --offline for the stub generator)", envAPIKey)
		}
		gen, err := generate.NewOpenAIGenerator(generate.OpenAIConfig{
			APIKey: key,
			Model:  opts.model,
		}, cat)
		if err != nil {
			return nil, err
		}
		inner, model = gen, gen.Model()
	}

	cached := generate.NewCachedGenerator(inner, store, keyer, cat.Name, model)
	cached.Refresh = opts.refresh
	return cached, nil
}

// loadCatalog loads the domain catalog from path, or the built-in default
// when path is empty.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
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

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/kotomap/).
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
