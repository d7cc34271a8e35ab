package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"restockwatch/pkg/handlers"
	"restockwatch/pkg/logger"
	"restockwatch/pkg/monitor"
	"restockwatch/pkg/scheduler"
	"restockwatch/pkg/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

var runOnStart bool

func init() {
	daemonCmd.Flags().BoolVar(&runOnStart, "run-now", false, "Run once immediately before waiting for the schedule.")
	rootCmd.AddCommand(daemonCmd)
}

var daemonCmd = &cobra.Command{
	Use:   "daemon [--run-now]",
	Short: "Runs checks on the configured cron schedule and serves the status API.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath, true)
		if err != nil {
			return err
		}
		if !cfg.Scheduler.Enabled && !cfg.Server.Enabled {
			return errors.New("daemon has nothing to do: scheduler and server are both disabled")
		}
		if err := initLogger(cfg); err != nil {
			return err
		}

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		products := cfg.Monitor.ProductsFile
		check := func(ctx context.Context) error {
			_, err := a.runner.RunFile(ctx, products)
			if errors.Is(err, monitor.ErrRunInProgress) {
				logger.Info("Scheduled run skipped, another run is active")
				return nil
			}
			return err
		}

		sched := scheduler.NewTaskScheduler(ctx)
		if cfg.Scheduler.Enabled {
			if err := sched.AddJob(&scheduler.ScheduledJob{
				Name: "restock_check",
				Cron: cfg.Scheduler.Cron,
				Run:  check,
			}); err != nil {
				return fmt.Errorf("failed to schedule check: %w", err)
			}
		}

		var srv *server.HTTPServer
		if cfg.Server.Enabled {
			svc := handlers.NewHandlerService(ctx, a.runner, products)
			svc.SetScheduler(sched)
			srv = server.NewHTTPServer(&server.Config{
				Address:     cfg.Server.Address,
				Port:        cfg.Server.Port,
				CORSOrigins: cfg.Server.CORSOrigins,
				Development: cfg.App.IsDevelopment(),
			}, svc)

			go func() {
				if err := srv.Start(); err != nil {
					logger.Error("HTTP server stopped", zap.Error(err))
					stop()
				}
			}()
		}

		if runOnStart {
			go func() {
				if err := check(ctx); err != nil {
					logger.Error("Initial run failed", zap.Error(err))
				}
			}()
		}

		if err := sched.Start(); err != nil {
			return err
		}
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var shutdownErr error
		if srv != nil {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				shutdownErr = err
			}
		}
		if err := sched.Shutdown(shutdownCtx); err != nil {
			shutdownErr = errors.Join(shutdownErr, err)
		}
		return shutdownErr
	},
}
