package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floodprep/internal/server"
	"github.com/matzehuels/floodprep/pkg/store"
)

// Store backends accepted by --store.
const (
	storeFile  = "file"
	storeMongo = "mongo"
	storeNone  = "none"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string
	store    string
	storeDir string
	mongoURI string
	mongoDB  string
	metrics  bool
	cache    cacheFlags
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:     ":8080",
		store:    storeFile,
		mongoURI: os.Getenv(store.MongoURIEnv),
		metrics:  true,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compile and decode API over HTTP",
		Long: `Run an HTTP server exposing scenario compilation, stored runs, frame
decoding and Prometheus metrics.

Runs are persisted in a local directory (--store file), MongoDB
(--store mongo) or not at all (--store none).

Examples:
  floodprep serve --addr :9000
  floodprep serve --store mongo --mongo-uri mongodb://db:27017 --redis cache:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.store, "store", opts.store, "run store: file, mongo or none")
	cmd.Flags().StringVar(&opts.storeDir, "store-dir", "", "run directory for the file store (default ~/.local/share/floodprep/runs)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", opts.mongoURI, "MongoDB URI (env "+store.MongoURIEnv+")")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", "floodprep", "MongoDB database")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", opts.metrics, "serve Prometheus metrics on /metrics")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	st, err := openStore(ctx, opts)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	var metrics *server.Metrics
	if opts.metrics {
		metrics = server.NewMetrics(appName)
		defer metrics.Register()()
	}

	srv := server.New(runner, st, metrics, logger)
	printSuccess("Serving on %s", StyleLink.Render(opts.addr))
	printKeyValue("store", opts.store)
	if opts.cache.redis != "" {
		printKeyValue("cache", "redis "+opts.cache.redis)
	}
	return srv.ListenAndServe(ctx, opts.addr)
}

// openStore returns the configured run store, or nil for --store none.
func openStore(ctx context.Context, opts serveOpts) (store.Store, error) {
	switch opts.store {
	case storeFile:
		return store.NewFileStore(opts.storeDir)
	case storeMongo:
		return store.NewMongoStore(ctx, store.MongoConfig{URI: opts.mongoURI, Database: opts.mongoDB})
	case storeNone:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown store %q (must be %s, %s or %s)", opts.store, storeFile, storeMongo, storeNone)
}
