package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtroode/certdash/internal/cli"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	if err := cli.Execute(ctx, buildVersion, buildCommit); err != nil {
		stop()
		os.Exit(1)
	}
}
