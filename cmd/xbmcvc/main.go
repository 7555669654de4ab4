// Package main provides the xbmcvc CLI process entrypoint.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rbright/xbmcvc/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(app.Execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
