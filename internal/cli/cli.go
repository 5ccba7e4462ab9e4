package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floodprep/pkg/buildinfo"
	"github.com/matzehuels/floodprep/pkg/cache"
	"github.com/matzehuels/floodprep/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "floodprep"

	// defaultOutputDir receives compiled artifacts when -o is not given.
	defaultOutputDir = "out"
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
		Use:   appName,
		Short: "floodprep compiles terrain and boundary data into flood solver inputs",
		Long: `floodprep turns scattered elevation points, building and roughness polygons,
rainfall and discharge boundaries into the raster input files of a
LISFLOOD-FP style overland-flow solver, and decodes the solver's depth
grids back into frame statistics.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.compileCommand())
	root.AddCommand(c.decodeCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the cache backend shared by compile, decode, watch and
// serve.
type cacheFlags struct {
	noCache bool
	redis   string
	scope   string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().StringVar(&f.redis, "redis", os.Getenv(cache.RedisAddrEnv), "use the Redis cache at this address (env "+cache.RedisAddrEnv+")")
	cmd.Flags().StringVar(&f.scope, "cache-scope", "", "prefix cache keys with this scope (projects sharing one Redis)")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, f cacheFlags) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, f)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if f.scope != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), f.scope+":")
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

// newCache returns the Redis cache when an address is configured and the
// file cache otherwise. An unusable cache directory falls back to no cache.
func (c *CLI) newCache(ctx context.Context, f cacheFlags) (cache.Cache, error) {
	if f.noCache {
		return cache.NewNullCache(), nil
	}
	if f.redis != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: f.redis})
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis cache", "addr", f.redis)
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/floodprep/).
func cacheDir() (string, error) {
	return cache.DefaultDir()
}
