package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gordian-engine/gdelegate/internal/gdcmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := gdcmd.NewRootCommand().ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
