package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"mandalart-cli/internal/cli"
)

func main() {
	// Ctrl+C cancels an in-flight generate and stops preview.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
