package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/carsonrent/rentals/adapter/api"
	"github.com/carsonrent/rentals/internal/app"
	"github.com/carsonrent/rentals/pkg/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the rentals API server",
	Long: `Start the HTTP API with the outbox processor in the background.

Without DATABASE_URL the server runs on a local SQLite file; without
RABBITMQ_URL events are dispatched in-process so search stays current.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		container, err := app.NewContainer(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer container.Close()

		if cfg.OutboxProcessorEnabled {
			if err := container.OutboxProcessor.Start(ctx); err != nil {
				return fmt.Errorf("failed to start outbox processor: %w", err)
			}
		} else {
			logger.Info("outbox processor disabled, run the worker to relay events")
		}

		serverConfig := api.DefaultServerConfig()
		serverConfig.Addr = cfg.HTTPAddr

		server := api.NewServer(
			serverConfig,
			api.NewCarHandler(api.CarHandlerConfig{Service: container.CarService, Logger: logger}),
			api.NewCoordinatesHandler(api.CoordinatesHandlerConfig{Service: container.CoordinatesService, Logger: logger}),
			container.Health,
			logger,
		)

		errCh := make(chan error, 1)
		go func() {
			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		logger.Info("rentals API listening", "addr", cfg.HTTPAddr)

		select {
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
