// Package cli implements the snipsync command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/portal-co/snipsync/pkg/buildinfo"
	"github.com/portal-co/snipsync/pkg/cache"
	"github.com/portal-co/snipsync/pkg/config"
	"github.com/portal-co/snipsync/pkg/github"
	"github.com/portal-co/snipsync/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "snipsync"

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
		Use:          "snipsync",
		Short:        "Snipsync harvests Cargo.toml dependency snippets from GitHub",
		Long:         `Snipsync downloads the Cargo.toml of every Rust repository in a GitHub organization, extracts the dependency sections, and files the blank-line groups into a deduplicated, content-addressed snippet store.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Attach the logger to the command context so command paths can
	// retrieve it with loggerFromContext.
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	// Register all subcommands
	root.AddCommand(c.syncCommand())
	root.AddCommand(c.reposCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Client and Runner Factories
// =============================================================================

// loadConfig resolves configuration from the given path or the default
// locations, then applies non-empty flag overrides.
func loadConfig(path, owner, output string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if owner != "" {
		cfg.Owner = owner
	}
	if output != "" {
		cfg.OutputDir = output
	}
	return cfg, nil
}

// newClient creates a GitHub client backed by the configured cache.
func (c *CLI) newClient(ctx context.Context, cfg *config.Config, noCache bool) *github.Client {
	return github.NewClient(github.Config{
		Token:    os.Getenv("GITHUB_TOKEN"),
		Timeout:  cfg.Timeout(),
		Cache:    c.newCache(ctx, cfg, noCache),
		CacheTTL: cfg.Cache.CacheTTL(),
	})
}

// newRunner creates a pipeline runner for CLI use. The runner logs through
// the context logger attached by RootCommand's PersistentPreRunE.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.newClient(ctx, cfg, noCache), loggerFromContext(ctx))
}

// newCache builds the cache backend named in cfg. Backend failures are not
// fatal: a broken redis connection or unwritable cache dir downgrades to the
// null cache so the harvest can still run.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) cache.Cache {
	if noCache || cfg.Cache.Backend == config.BackendNone {
		return cache.NewNullCache()
	}

	switch cfg.Cache.Backend {
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "addr", cfg.Cache.Redis.Addr, "err", err)
			return cache.NewNullCache()
		}
		return rc
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return cache.NewNullCache()
			}
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("file cache unavailable, caching disabled", "dir", dir, "err", err)
			return cache.NewNullCache()
		}
		return fc
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/snipsync/).
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
