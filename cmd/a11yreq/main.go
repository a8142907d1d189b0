package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tableflip.dev/a11yreq/pkg/commands"
	"tableflip.dev/a11yreq/pkg/commands/options"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.New().ExecuteContext(ctx)
	stop()
	if errors.Is(err, options.ErrReported) {
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("error during command execution: %v", err)
	}
}
