// Package pricing computes pool quotes from a PoolInfo snapshot. It never
// touches state; the exchange package decides what to apply.
package pricing

import (
	"ammcore/internal/model"
)

// Quoter is the pricing capability pool operations depend on.
type Quoter interface {
	// QuoteAddLiquidity forecasts a single-sided deposit against the pool ratio.
	QuoteAddLiquidity(pool model.PoolInfo, deposit model.Asset, liquidityID model.AssetID) (model.PreviewAddLiquidityInfo, error)
	// QuoteSwapExactInput returns the output bought by spending input.
	QuoteSwapExactInput(pool model.PoolInfo, input model.Asset) (model.PreviewSwapInfo, error)
	// QuoteSwapExactOutput returns the input needed to buy output.
	QuoteSwapExactOutput(pool model.PoolInfo, output model.Asset) (model.PreviewSwapInfo, error)
	// QuoteRemoveLiquidity returns the reserve share released by burning burn.
	QuoteRemoveLiquidity(pool model.PoolInfo, burn model.Asset) (model.RemoveLiquidityInfo, error)
	// MintLiquidity settles a two-sided deposit: the amounts taken, the
	// excess refunded and the liquidity minted.
	MintLiquidity(pool model.PoolInfo, deposits model.AssetPair, liquidityID model.AssetID) (model.AddLiquidityInfo, error)
}
