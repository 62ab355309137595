// Package main provides the pricep command line client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pricep/internal/appcontext"
	"pricep/internal/config"
	"pricep/internal/events"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd(func(cfg *config.Config) *appcontext.Provider {
		return appcontext.NewProvider(cfg, appcontext.WithEmitter(events.LogEmitter))
	})
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
