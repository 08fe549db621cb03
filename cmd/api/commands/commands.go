package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskmaster/tasklists/internal/adapters/cache"
	"github.com/taskmaster/tasklists/internal/adapters/repository"
	"github.com/taskmaster/tasklists/internal/infrastructure/config"
	"github.com/taskmaster/tasklists/internal/infrastructure/database"
	"github.com/taskmaster/tasklists/internal/infrastructure/logger"
	"github.com/taskmaster/tasklists/internal/infrastructure/metrics"
	"github.com/taskmaster/tasklists/internal/infrastructure/server"
	"github.com/taskmaster/tasklists/internal/ports"
)

// Set with -ldflags at build time.
var (
	Version   = "dev"
	GitCommit = "none"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Connect to MongoDB (and Redis when enabled) and serve the task list API until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

// NewIndexesCommand creates the indexes command
func NewIndexesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create MongoDB indexes",
		Long:  "Create the indexes used by task search and task list lookups",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndexes(cmd)
		},
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tasklists %s (commit %s)\n", Version, GitCommit)
		},
	}
}

func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, appLogger, nil
}

func runServer(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, appLogger, err := setup()
	if err != nil {
		return err
	}
	defer appLogger.Close()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.Mongo, appLogger)
	if err != nil {
		appLogger.Errorw("Failed to connect to database", "error", err)
		return err
	}
	defer db.Close(context.Background())

	var nameCache ports.TaskListNameCache = cache.NopNameCache{}
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Errorw("Failed to connect to redis", "error", err)
			return err
		}
		defer client.Close()
		nameCache = cache.NewRedisNameCache(client)
		appLogger.Infow("Redis task list name cache enabled", "addr", cfg.Redis.GetAddr(), "ttl", cfg.Redis.TTL)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	srv := server.New(cfg, db, nameCache, appLogger, m)

	errCh := make(chan error, 1)
	go func() {
		appLogger.Infow("Starting tasklists API server",
			"port", cfg.Server.Port,
			"environment", cfg.App.Environment,
			"version", Version,
		)
		errCh <- srv.Start(cfg.Server.GetAddr())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			appLogger.Errorw("Server failed", "error", err)
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func runIndexes(cmd *cobra.Command) error {
	cfg, appLogger, err := setup()
	if err != nil {
		return err
	}
	defer appLogger.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	db, err := database.Connect(ctx, cfg.Mongo, appLogger)
	if err != nil {
		return err
	}
	defer db.Close(context.Background())

	names, err := repository.EnsureIndexes(ctx, db)
	if err != nil {
		return err
	}

	for _, name := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "index %s ready\n", name)
	}
	return nil
}
