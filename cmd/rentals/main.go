package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/carsonrent/rentals/adapter/cli"
	"github.com/carsonrent/rentals/adapter/cli/car"
	"github.com/carsonrent/rentals/adapter/cli/coordinates"
	"github.com/carsonrent/rentals/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()
	slog.SetDefault(logger)
	cli.SetLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cli.AddCommand(car.Cmd)
	cli.AddCommand(coordinates.Cmd)

	cli.ExecuteContext(ctx)
}
