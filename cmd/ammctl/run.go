package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ammcore/internal/config"
	"ammcore/internal/exchange"
)

// runPool loads config, opens a session and hands fn the configured pool.
func runPool(cmd *cobra.Command, fn func(ctx context.Context, ex *exchange.Exchange) error) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	ex, err := s.exchange()
	if err != nil {
		return err
	}
	return fn(ctx, ex)
}
