package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldex"
	"github.com/kailas-cloud/fieldex/internal/config"
	logpkg "github.com/kailas-cloud/fieldex/internal/logger"
	"github.com/kailas-cloud/fieldex/internal/metrics"
	"github.com/kailas-cloud/fieldex/internal/usecase/dispatch"
	"github.com/kailas-cloud/fieldex/internal/version"
)

func newServeCmd() *cobra.Command {
	var configPath string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server. Configuration is read from --config, or from
config/<ENV>.yaml when the flag is empty (ENV defaults to "local").`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env := config.GetEnv()
			cfg, err := loadConfig(env, configPath)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.HTTP.Port = port
			}

			logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			return serve(cmd.Context(), cfg, logger, nil)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	cmd.Flags().IntVar(&port, "port", 0, "Override http.port")

	return cmd
}

func loadConfig(env, path string) (config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load(env)
}

// clientOptions maps the server configuration to client options.
func clientOptions(cfg config.Config, logger *zap.Logger) ([]fieldex.Option, error) {
	dedup, err := dispatch.ParseDedup(cfg.Dispatch.Dedup)
	if err != nil {
		return nil, err
	}

	opts := []fieldex.Option{
		fieldex.WithLogger(logger),
		fieldex.WithDedup(dedup),
		fieldex.WithResolveCache(cfg.Dispatch.ResolveCacheSize),
		fieldex.WithBatchParallelism(cfg.Dispatch.BatchParallelism),
		fieldex.WithMaxBatchValues(cfg.Dispatch.MaxBatchValues),
	}
	if cfg.Dispatch.StrictBatch {
		opts = append(opts, fieldex.WithStrictBatch())
	}
	if cfg.Engine.Match == "all" {
		opts = append(opts, fieldex.WithMatchAll())
	}
	if cfg.Engine.Stemming {
		opts = append(opts, fieldex.WithStemming())
	}
	if cfg.Engine.Text == config.TextNone {
		opts = append(opts, fieldex.WithoutFulltext())
	}

	if cfg.Engine.Driver == config.DriverRedis {
		db := cfg.Database
		opts = append(opts,
			fieldex.WithRedisCluster(db.Addrs, db.Username, db.Password),
			fieldex.WithRedisDB(db.DB),
			fieldex.WithKeyPrefix(db.KeyPrefix),
			fieldex.WithReadinessTimeout(time.Duration(db.ReadinessTimeout)*time.Second),
		)
	}
	return opts, nil
}

// serve runs the API until ctx is canceled. ready, when non-nil, receives
// the listen address once the server accepts connections.
func serve(ctx context.Context, cfg config.Config, logger *zap.Logger, ready chan<- string) error {
	logger.Info("Starting fieldex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("engine_driver", cfg.Engine.Driver),
		zap.String("engine_text", cfg.Engine.Text),
	)

	opts, err := clientOptions(cfg, logger)
	if err != nil {
		return err
	}
	client, err := fieldex.New(ctx, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	metrics.RegisterDispatchMetrics()

	for _, f := range cfg.Fields {
		if err := client.AddField(ctx, f.Name, fieldex.Tag(f.Type)); err != nil {
			return fmt.Errorf("declare field %q: %w", f.Name, err)
		}
	}
	logger.Info("Fields declared", zap.Int("count", len(cfg.Fields)))

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.HTTP.Port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	srv := &http.Server{
		Handler:      client.Handler(cfg.Auth.APIKeys...),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	if ready != nil {
		ready <- ln.Addr().String()
	}

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server stopped gracefully")
	return nil
}
