// Command hackboard serves hackathon scores and leaderboards.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/hackboard/internal/adapters/repository"
	service "github.com/okian/hackboard/internal/app"
	"github.com/okian/hackboard/internal/config"
	"github.com/okian/hackboard/pkg/logger"
	"github.com/okian/hackboard/pkg/metrics"
	"github.com/spf13/cobra"
)

const configEnvVar = "HACKBOARD_CONFIG"

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hackboard",
		Short:         "Hackathon scoring and leaderboard engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default: $"+configEnvVar+")")

	root.AddCommand(serveCmd())
	root.AddCommand(snapshotCmd())
	root.AddCommand(scoresCmd())

	return root
}

// bootstrap loads config, initializes logging to logOut and metrics, and
// opens the store.
func bootstrap(ctx context.Context, logOut io.Writer) (*config.Config, *repository.SQLStore, error) {
	if cfgFile != "" {
		if err := os.Setenv(configEnvVar, cfgFile); err != nil {
			return nil, nil, fmt.Errorf("set %s: %w", configEnvVar, err)
		}
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	if err := logger.Init(logger.WithWriter(logOut), logger.WithFormat(cfg.LogFormat)); err != nil {
		return nil, nil, fmt.Errorf("init logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Init(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithConstLabels(cfg.MetricsConstLabels),
		metrics.WithHistogramBuckets(cfg.MetricsLatencyBuckets),
	)

	store, err := repository.Open(ctx, cfg.StoreDriver, cfg.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	return cfg, store, nil
}

func newService(cfg *config.Config, store repository.Store) *service.Service {
	return service.New(store,
		service.WithLogger(logger.Get().Named("service")),
		service.WithSnapshotInterval(cfg.SnapshotInterval),
		service.WithSnapshotOnStart(cfg.SnapshotOnStart),
	)
}
