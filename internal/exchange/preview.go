package exchange

import (
	"context"

	"ammcore/internal/model"
)

// PreviewAddLiquidity forecasts a single-sided deposit without touching state.
func (e *Exchange) PreviewAddLiquidity(ctx context.Context, deposit model.Asset) (model.PreviewAddLiquidityInfo, error) {
	pool, err := e.Pool(ctx)
	if err != nil {
		return model.PreviewAddLiquidityInfo{}, err
	}
	return e.quoter.QuoteAddLiquidity(pool, deposit, e.def.LiquidityAsset)
}

func (e *Exchange) PreviewSwapExactInput(ctx context.Context, input model.Asset) (model.PreviewSwapInfo, error) {
	pool, err := e.Pool(ctx)
	if err != nil {
		return model.PreviewSwapInfo{}, err
	}
	return e.quoter.QuoteSwapExactInput(pool, input)
}

func (e *Exchange) PreviewSwapExactOutput(ctx context.Context, output model.Asset) (model.PreviewSwapInfo, error) {
	pool, err := e.Pool(ctx)
	if err != nil {
		return model.PreviewSwapInfo{}, err
	}
	return e.quoter.QuoteSwapExactOutput(pool, output)
}

// PreviewRemoveLiquidity forecasts burning liquidity units of the pool token.
func (e *Exchange) PreviewRemoveLiquidity(ctx context.Context, liquidity uint64) (model.RemoveLiquidityInfo, error) {
	pool, err := e.Pool(ctx)
	if err != nil {
		return model.RemoveLiquidityInfo{}, err
	}
	return e.quoter.QuoteRemoveLiquidity(pool, model.NewAsset(e.def.LiquidityAsset, liquidity))
}
