package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ammctl",
		Short:        "Two-asset liquidity pool accounting",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file path")
	flags.String("pool-name", "default", "pool name")
	flags.String("state-file", "./data/pool.json", "pool state file (ignored when pg-dsn is set)")
	flags.String("pg-dsn", "", "Postgres DSN for pool state and receipts")
	flags.String("journal", "./data/receipts.jsonl", "receipt journal JSONL path (ignored when pg-dsn is set)")
	flags.String("rpc", "", "RPC URL used for block height and pair snapshots")
	flags.Uint64("height", 0, "fixed block height for deadline checks, 0 means ask the rpc")
	flags.Uint64("fee-bps", 30, "swap fee in basis points")
	flags.String("asset-a", "", "first reserve asset id")
	flags.String("asset-b", "", "second reserve asset id")
	flags.String("liquidity-asset", "", "liquidity token asset id")
	flags.Int("max-retries", 5, "maximum retry attempts")
	flags.Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	flags.String("metrics-file", "", "write Prometheus metrics to this textfile on exit")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		newShowCmd(),
		newPreviewAddCmd(),
		newPreviewSwapCmd(),
		newPreviewRemoveCmd(),
		newAddCmd(),
		newRemoveCmd(),
		newSwapCmd(),
		newSnapshotCmd(),
	)
	return root
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
