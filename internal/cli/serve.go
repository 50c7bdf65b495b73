package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/taskboard/internal/api"
	"github.com/example/taskboard/internal/scheduler"
	"github.com/example/taskboard/internal/wire"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server and the sweep scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := wire.Config()
		logger := wire.Logger()

		server := api.NewServer(wire.RuleService(), wire.EscalationService(), wire.StatsService(), logger)

		sched := scheduler.New(wire.EscalationService(), cfg.Sweep.Cron, logger)
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer sched.Stop()

		httpServer := &http.Server{
			Addr:    cfg.Server.ListenAddr,
			Handler: server.Router(),
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Infow("api server listening", "addr", cfg.Server.ListenAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return fmt.Errorf("api server failed: %w", err)
		case sig := <-sigCh:
			logger.Infow("shutting down", "signal", sig.String())
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	},
}

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	return serveCmd
}
