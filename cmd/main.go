package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danwashburn/truck-parking-dashboard/internal/config"
	"github.com/danwashburn/truck-parking-dashboard/internal/dataset"
	"github.com/danwashburn/truck-parking-dashboard/internal/observability"
	"github.com/danwashburn/truck-parking-dashboard/internal/selection"
	"github.com/danwashburn/truck-parking-dashboard/internal/server"
)

var addrFlag string

func main() {
	rootCmd := &cobra.Command{
		Use:   "truck-parking-dashboard",
		Short: "Serve the Indiana truck parking county dashboard",
		Long: `Truck Parking Dashboard serves an interactive county map of truck
parking demand, supply, and deficit metrics, with a linked hourly
stacked-bar chart and CSV export.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}

	rootCmd.Flags().StringVarP(&addrFlag, "addr", "a", "", "Listen address (overrides HTTP_ADDR)")

	addExportCmd(rootCmd)
	addChartCmd(rootCmd)
	addValidateCmd(rootCmd)
	addListCmd(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runServe starts the HTTP server and blocks until SIGINT/SIGTERM.
func runServe(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ValidateAuth(); err != nil {
		return err
	}
	if addrFlag != "" {
		cfg.HTTPAddr = addrFlag
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	store := dataset.NewStore(metrics)
	sessions := selection.NewSessions(cfg.SessionTTL, nil)

	srv := server.New(cfg, store, sessions, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	cmd.Println(fmt.Sprintf("Dashboard serving on %s", cfg.HTTPAddr))

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
	return nil
}
