package lattice

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vockit/lattice/pkg/config"
	"github.com/vockit/lattice/pkg/embedder"
	latticeLogger "github.com/vockit/lattice/pkg/logger"
	"github.com/vockit/lattice/pkg/server"
	"github.com/vockit/lattice/pkg/store"
	"github.com/vockit/lattice/pkg/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Lattice HTTP server",
	Long: `Start the Lattice HTTP server to provide REST API access to the
retrieval and relationship query engine.

The server provides endpoints for:
- Vector, keyword, and hybrid search
- Relationship queries and bounded path discovery
- Edge creation and deletion
- Paginated document and insight listings
- Health checks

Every API call is scoped by the X-Tenant-ID header. Configuration can
be provided through config files, environment variables, or
command-line flags.`,
	RunE: runServe,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serveCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serveCmd.Flags().StringVar(&serverMode, "mode", "release", "Server mode (debug, release, test)")

	serveCmd.Flags().String("store-driver", "badger", "Store driver (badger, neo4j)")
	serveCmd.Flags().String("store-path", "./lattice_data", "Badger data directory")
	serveCmd.Flags().String("store-uri", "", "Neo4j bolt URI")
	serveCmd.Flags().String("store-username", "", "Store username (neo4j only)")
	serveCmd.Flags().String("store-password", "", "Store password (neo4j only)")
	serveCmd.Flags().String("store-database", "", "Store database name (neo4j only)")
	serveCmd.Flags().Int("store-dimension", 1536, "Embedding dimension of the chunk collection")

	serveCmd.Flags().String("embedding-provider", "openai", "Embedding provider (openai, local)")
	serveCmd.Flags().String("embedding-model", "", "Embedding model")
	serveCmd.Flags().String("embedding-api-key", "", "Embedding API key")
	serveCmd.Flags().String("embedding-base-url", "", "Embedding base URL")

	serveCmd.Flags().Float64("vector-weight", 0.7, "Default hybrid fusion weight for the semantic signal")

	serveCmd.Flags().String("telemetry-parquet-path", "", "Directory for error telemetry parquet files")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	overrideConfigWithFlags(cmd, cfg)

	if err := validateServeConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, flush, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer flush()

	st, err := buildStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer st.Close()

	emb, err := buildEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %w", err)
	}
	defer emb.Close()

	engines := server.NewClientResolver(st, emb, cfg.Store.Dimension, cfg.Search.VectorWeight, logger)

	srv := server.New(cfg, engines, st, logger)
	srv.Setup()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.Info("received signal, shutting down", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		logger.Info("server stopped gracefully")
		return nil
	}
}

// buildLogger assembles the colored handler, optionally wrapped with
// parquet error telemetry. The returned flush drains buffered
// telemetry records on shutdown.
func buildLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	colorHandler := latticeLogger.NewColorHandler(os.Stderr, &slog.HandlerOptions{
		Level: latticeLogger.ParseLevel(cfg.Log.Level),
	})

	flush := func() {}
	var handler slog.Handler = colorHandler

	if cfg.Telemetry.ParquetPath != "" {
		parquetHandler, err := telemetry.NewParquetHandler(colorHandler, cfg.Telemetry.ParquetPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize error tracking: %v\n", err)
		} else {
			handler = parquetHandler
			flush = func() { parquetHandler.Flush() }
		}
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, flush, nil
}

func buildStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "badger":
		return store.NewBadgerStore(store.BadgerOptions{
			Path:      cfg.Store.Path,
			Dimension: cfg.Store.Dimension,
		})
	case "neo4j":
		return store.NewNeo4jStore(cfg.Store.URI, cfg.Store.Username, cfg.Store.Password, cfg.Store.Database, cfg.Store.Dimension)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func buildEmbedder(cfg *config.Config) (embedder.Client, error) {
	embedderConfig := embedder.Config{
		Model:   cfg.Embedding.Model,
		BaseURL: cfg.Embedding.BaseURL,
	}

	var client embedder.Client
	switch cfg.Embedding.Provider {
	case "openai":
		if cfg.Embedding.APIKey == "" {
			return nil, fmt.Errorf("embedding API key is required for the openai provider")
		}
		client = embedder.NewOpenAIEmbedder(cfg.Embedding.APIKey, embedderConfig)
	case "local":
		local, err := embedder.NewLocalEmbedder(embedderConfig)
		if err != nil {
			return nil, err
		}
		client = local
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}

	if cfg.CircuitBreaker.Enabled {
		client = embedder.NewBreakerClient(client, cfg.Embedding.Provider, embedder.BreakerConfig{
			MaxRequests:      cfg.CircuitBreaker.MaxRequests,
			Interval:         time.Duration(cfg.CircuitBreaker.Interval) * time.Second,
			Timeout:          time.Duration(cfg.CircuitBreaker.Timeout) * time.Second,
			ReadyToTripRatio: cfg.CircuitBreaker.ReadyToTripRatio,
		})
	}
	return client, nil
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}

	if cmd.Flags().Changed("store-driver") {
		cfg.Store.Driver, _ = cmd.Flags().GetString("store-driver")
	}
	if cmd.Flags().Changed("store-path") {
		cfg.Store.Path, _ = cmd.Flags().GetString("store-path")
	}
	if cmd.Flags().Changed("store-uri") {
		cfg.Store.URI, _ = cmd.Flags().GetString("store-uri")
	}
	if cmd.Flags().Changed("store-username") {
		cfg.Store.Username, _ = cmd.Flags().GetString("store-username")
	}
	if cmd.Flags().Changed("store-password") {
		cfg.Store.Password, _ = cmd.Flags().GetString("store-password")
	}
	if cmd.Flags().Changed("store-database") {
		cfg.Store.Database, _ = cmd.Flags().GetString("store-database")
	}
	if cmd.Flags().Changed("store-dimension") {
		cfg.Store.Dimension, _ = cmd.Flags().GetInt("store-dimension")
	}

	if cmd.Flags().Changed("embedding-provider") {
		cfg.Embedding.Provider, _ = cmd.Flags().GetString("embedding-provider")
	}
	if cmd.Flags().Changed("embedding-model") {
		cfg.Embedding.Model, _ = cmd.Flags().GetString("embedding-model")
	}
	if cmd.Flags().Changed("embedding-api-key") {
		cfg.Embedding.APIKey, _ = cmd.Flags().GetString("embedding-api-key")
	}
	if cmd.Flags().Changed("embedding-base-url") {
		cfg.Embedding.BaseURL, _ = cmd.Flags().GetString("embedding-base-url")
	}

	if cmd.Flags().Changed("vector-weight") {
		cfg.Search.VectorWeight, _ = cmd.Flags().GetFloat64("vector-weight")
	}

	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
	}
}

func validateServeConfig(cfg *config.Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}
	if cfg.Store.Dimension <= 0 {
		return fmt.Errorf("store dimension must be positive: %d", cfg.Store.Dimension)
	}
	if cfg.Store.Driver == "neo4j" && cfg.Store.URI == "" {
		return fmt.Errorf("store URI is required for the neo4j driver")
	}
	if cfg.Search.VectorWeight < 0 || cfg.Search.VectorWeight > 1 {
		return fmt.Errorf("vector weight must be in [0,1]: %v", cfg.Search.VectorWeight)
	}
	return nil
}
