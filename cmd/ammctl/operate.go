package main

import (
	"context"

	"github.com/spf13/cobra"

	"ammcore/internal/exchange"
	"ammcore/internal/model"
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Deposit both assets and mint liquidity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			minLiquidity, _ := cmd.Flags().GetUint64("min-liquidity")
			deadline, _ := cmd.Flags().GetUint64("deadline")
			amountA, _ := cmd.Flags().GetUint64("amount-a")
			amountB, _ := cmd.Flags().GetUint64("amount-b")
			return runPool(cmd, func(ctx context.Context, ex *exchange.Exchange) error {
				def := ex.Definition()
				params := model.LiquidityParameters{
					Deposits:  model.AssetPair{A: model.NewAsset(def.AssetA, amountA), B: model.NewAsset(def.AssetB, amountB)},
					Liquidity: minLiquidity,
					Deadline:  deadline,
				}
				info, err := ex.AddLiquidity(ctx, params)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), info)
			})
		},
	}
	cmd.Flags().Uint64("amount-a", 0, "amount of asset-a to deposit")
	cmd.Flags().Uint64("amount-b", 0, "amount of asset-b to deposit")
	cmd.Flags().Uint64("min-liquidity", 0, "minimum liquidity to mint")
	cmd.Flags().Uint64("deadline", ^uint64(0), "last block height the deposit may apply at")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Burn liquidity and withdraw both assets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			liquidity, _ := cmd.Flags().GetUint64("liquidity")
			deadline, _ := cmd.Flags().GetUint64("deadline")
			minA, _ := cmd.Flags().GetUint64("min-a")
			minB, _ := cmd.Flags().GetUint64("min-b")
			return runPool(cmd, func(ctx context.Context, ex *exchange.Exchange) error {
				def := ex.Definition()
				params := model.LiquidityParameters{
					Deposits:  model.AssetPair{A: model.NewAsset(def.AssetA, minA), B: model.NewAsset(def.AssetB, minB)},
					Liquidity: liquidity,
					Deadline:  deadline,
				}
				info, err := ex.RemoveLiquidity(ctx, params)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), info)
			})
		},
	}
	cmd.Flags().Uint64("liquidity", 0, "liquidity to burn")
	cmd.Flags().Uint64("min-a", 0, "minimum amount of asset-a to receive")
	cmd.Flags().Uint64("min-b", 0, "minimum amount of asset-b to receive")
	cmd.Flags().Uint64("deadline", ^uint64(0), "last block height the withdrawal may apply at")
	return cmd
}

func newSwapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Swap one reserve asset for the other",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asset, err := assetFlag(cmd, "asset", "amount")
			if err != nil {
				return err
			}
			exactOutput, _ := cmd.Flags().GetBool("exact-output")
			limit, _ := cmd.Flags().GetUint64("limit")
			deadline, _ := cmd.Flags().GetUint64("deadline")
			if exactOutput && !cmd.Flags().Changed("limit") {
				limit = ^uint64(0)
			}
			return runPool(cmd, func(ctx context.Context, ex *exchange.Exchange) error {
				var info model.SwapInfo
				if exactOutput {
					info, err = ex.SwapExactOutput(ctx, asset, limit, deadline)
				} else {
					info, err = ex.SwapExactInput(ctx, asset, limit, deadline)
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), info)
			})
		},
	}
	cmd.Flags().String("asset", "", "input asset id, or output asset id with --exact-output")
	cmd.Flags().Uint64("amount", 0, "asset amount")
	cmd.Flags().Bool("exact-output", false, "buy exactly amount of asset")
	cmd.Flags().Uint64("limit", 0, "minimum output, or maximum input with --exact-output")
	cmd.Flags().Uint64("deadline", ^uint64(0), "last block height the swap may apply at")
	return cmd
}
