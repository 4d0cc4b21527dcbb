package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ammcore/internal/chain"
	"ammcore/internal/config"
	"ammcore/internal/dex"
	"ammcore/internal/exchange"
)

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Import the reserves of an on-chain UniswapV2-style pair",
		RunE:  runSnapshot,
	}
	cmd.Flags().String("pair", "", "pair contract address")
	cmd.Flags().Uint64("block", 0, "block to read at, 0 means latest")
	return cmd
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadSnapshot(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if !common.IsHexAddress(cfg.Pair) {
		return fmt.Errorf("invalid pair address %q", cfg.Pair)
	}
	pair := common.HexToAddress(cfg.Pair)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, cfg.PoolConfig)
	if err != nil {
		return err
	}
	defer s.close()

	chainID, err := s.client.GetChainID(ctx)
	if err != nil {
		return fmt.Errorf("chain id: %w", err)
	}

	var block *big.Int
	if cfg.Block > 0 {
		block = new(big.Int).SetUint64(cfg.Block)
	}
	var snap dex.PairSnapshot
	err = chain.WithRetry(ctx, cfg.MaxRetries, cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		snap, err = dex.FetchPairSnapshot(ctx, s.client, pair, block)
		return err
	})
	if err != nil {
		return err
	}

	assetA, assetB := snap.Pool.Reserves.IDs()
	ex, err := s.exchangeFor(exchange.Definition{
		Name:           cfg.PoolName,
		AssetA:         assetA,
		AssetB:         assetB,
		LiquidityAsset: snap.LiquidityAsset,
	})
	if err != nil {
		return err
	}

	s.logger.Info("snapshot fetched",
		zap.String("chain_id", chainID.String()),
		zap.String("pair", pair.Hex()),
		zap.Uint64("block", cfg.Block),
		zap.Uint32("block_timestamp_last", snap.BlockTimestampLast),
	)

	if err := ex.Import(ctx, snap.Pool); err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), snap.Pool)
}
