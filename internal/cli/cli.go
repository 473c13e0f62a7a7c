// Package cli implements the farewatch command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rmcnabb/farewatch/pkg/buildinfo"
	"github.com/rmcnabb/farewatch/pkg/cache"
	"github.com/rmcnabb/farewatch/pkg/config"
	"github.com/rmcnabb/farewatch/pkg/httputil"
	"github.com/rmcnabb/farewatch/pkg/normalize"
	"github.com/rmcnabb/farewatch/pkg/provider/amadeus"
	"github.com/rmcnabb/farewatch/pkg/scan"
)

// appName is the application name used for directories and display.
const appName = "farewatch"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

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
		Use:          appName,
		Short:        "Farewatch hunts for cheap premium flight fares",
		Long:         `Farewatch scans flight search APIs for premium economy and business fares under your price caps, across your routes and travel window, and turns the survivors into a ranked monthly report.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.scanCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newCache builds the response cache backend the configuration asks for.
func newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case "mongo":
		return cache.NewMongoCache(ctx, cache.MongoConfig{URI: cfg.MongoURI})
	default:
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}

// newRunner wires a scan runner from the configuration: cache backend,
// provider client with pacing, and the normalizer for the scan currency.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*scan.Runner, *amadeus.Client, cache.Cache, error) {
	responseCache, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, nil, nil, err
	}

	interval, jitter := cfg.Pace()
	client := amadeus.New(amadeus.Options{
		ClientID:     cfg.Amadeus.ClientID,
		ClientSecret: cfg.Amadeus.ClientSecret,
		BaseURL:      cfg.Amadeus.BaseURL,
		TokenURL:     cfg.Amadeus.TokenURL,
		Currency:     cfg.Currency,
		Airline:      cfg.Airline,
		Cache:        responseCache,
		Limiter:      httputil.NewLimiter(interval, jitter),
		Logger:       c.Logger,
	})

	runner := scan.NewRunner(client, normalize.New(cfg.Currency, c.Logger), c.Logger)
	return runner, client, responseCache, nil
}

// cacheDir returns the default cache directory using the XDG convention.
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
