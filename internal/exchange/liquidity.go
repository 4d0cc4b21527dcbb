package exchange

import (
	"context"

	"ammcore/internal/model"
)

// AddLiquidity deposits params.Deposits, in either orientation. The excess
// over the pool ratio is refunded and at least params.Liquidity must be
// minted.
func (e *Exchange) AddLiquidity(ctx context.Context, params model.LiquidityParameters) (info model.AddLiquidityInfo, err error) {
	started := e.now()
	defer func() { e.finish(model.OpAddLiquidity, started, err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	height, err := e.height(ctx)
	if err != nil {
		return model.AddLiquidityInfo{}, err
	}
	if err := params.CheckDeadline(height); err != nil {
		return model.AddLiquidityInfo{}, err
	}
	before, stored, err := e.load(ctx)
	if err != nil {
		return model.AddLiquidityInfo{}, err
	}

	info, err = e.quoter.MintLiquidity(before, params.Deposits, e.def.LiquidityAsset)
	if err != nil {
		return model.AddLiquidityInfo{}, err
	}
	if info.MintedLiquidity.Amount < params.Liquidity {
		return model.AddLiquidityInfo{}, model.ErrSlippageExceeded.Wrapf("minted %d below minimum %d", info.MintedLiquidity.Amount, params.Liquidity)
	}

	reserves, err := before.Reserves.Add(info.Deposited)
	if err != nil {
		return model.AddLiquidityInfo{}, err
	}
	liquidity, err := addLiquidity(before.Liquidity, info.MintedLiquidity.Amount)
	if err != nil {
		return model.AddLiquidityInfo{}, err
	}

	err = e.commit(ctx, stored, model.Receipt{
		Op:        model.OpAddLiquidity,
		Height:    height,
		Before:    before,
		After:     model.PoolInfo{Reserves: reserves, Liquidity: liquidity},
		Input:     info.Deposited,
		Output:    info.Refunded,
		Liquidity: info.MintedLiquidity,
	})
	if err != nil {
		return model.AddLiquidityInfo{}, err
	}
	return info, nil
}

// RemoveLiquidity burns params.Liquidity. Non-empty params.Deposits are the
// minimum amounts to receive, in either orientation.
func (e *Exchange) RemoveLiquidity(ctx context.Context, params model.LiquidityParameters) (info model.RemoveLiquidityInfo, err error) {
	started := e.now()
	defer func() { e.finish(model.OpRemoveLiquidity, started, err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	height, err := e.height(ctx)
	if err != nil {
		return model.RemoveLiquidityInfo{}, err
	}
	if err := params.CheckDeadline(height); err != nil {
		return model.RemoveLiquidityInfo{}, err
	}
	before, stored, err := e.load(ctx)
	if err != nil {
		return model.RemoveLiquidityInfo{}, err
	}

	info, err = e.quoter.QuoteRemoveLiquidity(before, model.NewAsset(e.def.LiquidityAsset, params.Liquidity))
	if err != nil {
		return model.RemoveLiquidityInfo{}, err
	}
	if err := checkMinimums(info.RemovedAmounts, params.Deposits); err != nil {
		return model.RemoveLiquidityInfo{}, err
	}

	reserves, err := before.Reserves.Subtract(info.RemovedAmounts)
	if err != nil {
		return model.RemoveLiquidityInfo{}, err
	}

	err = e.commit(ctx, stored, model.Receipt{
		Op:        model.OpRemoveLiquidity,
		Height:    height,
		Before:    before,
		After:     model.PoolInfo{Reserves: reserves, Liquidity: before.Liquidity - params.Liquidity},
		Input:     before.Reserves.Zero(),
		Output:    info.RemovedAmounts,
		Liquidity: info.BurnedLiquidity,
	})
	if err != nil {
		return model.RemoveLiquidityInfo{}, err
	}
	return info, nil
}

func checkMinimums(removed, minimums model.AssetPair) error {
	if minimums == (model.AssetPair{}) {
		return nil
	}
	sorted, err := minimums.Sort(removed)
	if err != nil {
		return err
	}
	if !sorted.Aligned(removed) {
		return model.ErrAssetMismatch.Wrapf("minimums %s for %s", sorted, removed)
	}
	gotA, gotB := removed.Amounts()
	minA, minB := sorted.Amounts()
	if gotA < minA || gotB < minB {
		return model.ErrSlippageExceeded.Wrapf("removed %s below minimum %s", removed, sorted)
	}
	return nil
}
