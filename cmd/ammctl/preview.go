package main

import (
	"context"

	"github.com/spf13/cobra"

	"ammcore/internal/exchange"
	"ammcore/internal/model"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current pool state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPool(cmd, func(ctx context.Context, ex *exchange.Exchange) error {
				info, err := ex.Pool(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), struct {
					Definition exchange.Definition `json:"definition"`
					Pool       model.PoolInfo      `json:"pool"`
				}{ex.Definition(), info})
			})
		},
	}
}

func newPreviewAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview-add",
		Short: "Preview a single-sided deposit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			deposit, err := assetFlag(cmd, "asset", "amount")
			if err != nil {
				return err
			}
			return runPool(cmd, func(ctx context.Context, ex *exchange.Exchange) error {
				info, err := ex.PreviewAddLiquidity(ctx, deposit)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), info)
			})
		},
	}
	cmd.Flags().String("asset", "", "deposited asset id")
	cmd.Flags().Uint64("amount", 0, "deposited amount")
	return cmd
}

func newPreviewSwapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview-swap",
		Short: "Preview a swap",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asset, err := assetFlag(cmd, "asset", "amount")
			if err != nil {
				return err
			}
			exactOutput, _ := cmd.Flags().GetBool("exact-output")
			return runPool(cmd, func(ctx context.Context, ex *exchange.Exchange) error {
				var info model.PreviewSwapInfo
				if exactOutput {
					info, err = ex.PreviewSwapExactOutput(ctx, asset)
				} else {
					info, err = ex.PreviewSwapExactInput(ctx, asset)
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
	cmd.Flags().Bool("exact-output", false, "treat asset as the exact amount to receive")
	return cmd
}

func newPreviewRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview-remove",
		Short: "Preview burning liquidity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			liquidity, _ := cmd.Flags().GetUint64("liquidity")
			return runPool(cmd, func(ctx context.Context, ex *exchange.Exchange) error {
				info, err := ex.PreviewRemoveLiquidity(ctx, liquidity)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), info)
			})
		},
	}
	cmd.Flags().Uint64("liquidity", 0, "liquidity to burn")
	return cmd
}

func assetFlag(cmd *cobra.Command, idFlag, amountFlag string) (model.Asset, error) {
	raw, _ := cmd.Flags().GetString(idFlag)
	id, err := model.ParseAssetID(raw)
	if err != nil {
		return model.Asset{}, err
	}
	amount, _ := cmd.Flags().GetUint64(amountFlag)
	return model.NewAsset(id, amount), nil
}
