// Command lexcore runs the German federal law retrieval core, either as an
// HTTP service, a line-oriented stdio process, or a one-shot ingestion
// run, adapted from the teacher's cmd/kite-api and cmd/kite-admin entry
// points (config/logger/metrics wiring plus cobra subcommands) collapsed
// into a single binary.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gongahkia/lexcore/internal/adapter"
	"github.com/gongahkia/lexcore/internal/cache"
	"github.com/gongahkia/lexcore/internal/citation"
	"github.com/gongahkia/lexcore/internal/config"
	"github.com/gongahkia/lexcore/internal/ingest"
	"github.com/gongahkia/lexcore/internal/observability"
	"github.com/gongahkia/lexcore/internal/registry"
	"github.com/gongahkia/lexcore/internal/shell"
	"github.com/gongahkia/lexcore/internal/store"
	httptransport "github.com/gongahkia/lexcore/internal/transport/http"
	"github.com/gongahkia/lexcore/internal/transport/stdio"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:     "lexcore",
		Short:   "German federal law retrieval core",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path")

	rootCmd.AddCommand(
		newServeHTTPCmd(),
		newServeStdioCmd(),
		newIngestCmd(),
		newHealthCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// components bundles the process-lifetime dependencies shared by every
// subcommand: config, logging, metrics, store-backed registry, and the
// Shell dispatcher.
type components struct {
	cfg     *config.Config
	logger  *observability.Logger
	metrics *observability.Metrics
	runner  *ingest.Runner
	sh      *shell.Shell
}

func bootstrap() (*components, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	observability.SetGlobalLogger(logger)
	metrics := observability.NewMetrics()

	backend, err := newBackend(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	st := store.New(backend, citation.NewGerman())
	if cfg.Cache.Driver != "" {
		c, err := cache.NewCache(&cache.Config{Type: cfg.Cache.Driver, TTL: cfg.Cache.TTL})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize search cache: %w", err)
		}
		st.SetCache(c, cfg.Cache.TTL)
	}

	var runner *ingest.Runner
	if cfg.Ingestion.Command != "" {
		q, err := ingest.NewQueue(cfg.Queue)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ingestion queue: %w", err)
		}
		runner = ingest.NewRunner(cfg.Ingestion, q, metrics, logger)
	}

	var ingestor adapter.Ingestor
	if runner != nil {
		ingestor = runner
	}

	reg := registry.New()
	germanAdapter := adapter.New(st, ingestor)
	if err := reg.Register(germanAdapter); err != nil {
		return nil, fmt.Errorf("failed to register German adapter: %w", err)
	}

	return &components{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		runner:  runner,
		sh:      shell.New(reg),
	}, nil
}

func newBackend(cfg config.StoreConfig) (store.Backend, error) {
	switch cfg.Driver {
	case "sqlite", "":
		path := cfg.SQLitePath
		if path == "" {
			path = "lexcore.db"
		}
		return store.NewSQLiteBackend(path), nil
	case "postgres":
		return store.NewPostgresBackend(cfg.PostgresDSN), nil
	case "mongodb":
		return store.NewMongoBackend(cfg.MongoURI, cfg.MongoDatabase), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Driver)
	}
}

func newServeHTTPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve-http",
		Short: "Serve the retrieval core over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := bootstrap()
			if err != nil {
				return err
			}
			defer stopRunner(c)

			authCfg := httptransport.AuthConfig{
				JWTSecret: c.cfg.Auth.JWTSecret,
				Enabled:   c.cfg.Auth.JWTEnabled,
			}
			srv := httptransport.NewServer(c.sh, c.logger, c.metrics, httptransport.Config{
				Auth:            authCfg,
				RateLimitPerMin: c.cfg.Auth.RateLimitPerMin,
			})

			addr := fmt.Sprintf("%s:%d", c.cfg.Server.Host, c.cfg.Server.Port)
			errCh := make(chan error, 1)
			go func() {
				c.logger.Infof("serving HTTP on %s", addr)
				errCh <- srv.Start(addr)
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-sigCh:
				c.logger.Info("shutting down HTTP server")
				return srv.Shutdown()
			}
		},
	}
}

func newServeStdioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve-stdio",
		Short: "Serve the retrieval core over line-delimited JSON on stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := bootstrap()
			if err != nil {
				return err
			}
			defer stopRunner(c)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				cancel()
			}()

			return stdio.Serve(ctx, os.Stdin, os.Stdout, c.sh, c.logger)
		},
	}
}

func newIngestCmd() *cobra.Command {
	var sourceID string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run a single ingestion pass for a source and print its report",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := bootstrap()
			if err != nil {
				return err
			}
			defer stopRunner(c)

			result := c.sh.HandleToolCall(cmd.Context(), "run_ingestion", map[string]interface{}{
				"country":  "de",
				"sourceId": sourceID,
				"dryRun":   dryRun,
			})
			if !result.OK {
				return fmt.Errorf("ingestion failed: %s: %s", result.Error.Code, result.Error.Message)
			}
			fmt.Printf("%+v\n", result.Data)
			return nil
		},
	}
	cmd.Flags().StringVar(&sourceID, "source", "", "Source ID to ingest")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview without ingesting")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

// newHealthCmd performs a real connectivity check against the store and
// prints its capability set, replacing the teacher's cmd/kite-admin health
// subcommand (which printed hardcoded placeholder status strings rather
// than checking anything).
func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check store connectivity and report its capability set",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := bootstrap()
			if err != nil {
				return err
			}
			defer stopRunner(c)

			result := c.sh.HandleToolCall(cmd.Context(), "describe_country", map[string]interface{}{
				"country": "de",
			})
			if !result.OK {
				fmt.Printf("unhealthy: %s: %s\n", result.Error.Code, result.Error.Message)
				os.Exit(1)
			}
			fmt.Printf("healthy: %+v\n", result.Data)
			return nil
		},
	}
}

func stopRunner(c *components) {
	if c.runner == nil {
		return
	}
	if err := c.runner.Stop(10 * time.Second); err != nil {
		c.logger.ErrorWithErr(err, "failed to stop ingestion runner")
	}
}
