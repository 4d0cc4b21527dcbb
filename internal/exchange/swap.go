package exchange

import (
	"context"

	"ammcore/internal/model"
)

// SwapExactInput sells input for at least minOutput of the other asset.
func (e *Exchange) SwapExactInput(ctx context.Context, input model.Asset, minOutput, deadline uint64) (info model.SwapInfo, err error) {
	started := e.now()
	defer func() { e.finish(model.OpSwapExactInput, started, err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	height, before, stored, err := e.prepareSwap(ctx, deadline)
	if err != nil {
		return model.SwapInfo{}, err
	}
	preview, err := e.quoter.QuoteSwapExactInput(before, input)
	if err != nil {
		return model.SwapInfo{}, err
	}
	if err := preview.Err(); err != nil {
		return model.SwapInfo{}, err
	}
	if preview.OtherAsset.Amount == 0 {
		return model.SwapInfo{}, model.ErrZeroAmount.Wrapf("input %s buys nothing", input)
	}
	if preview.OtherAsset.Amount < minOutput {
		return model.SwapInfo{}, model.ErrSlippageExceeded.Wrapf("output %d below minimum %d", preview.OtherAsset.Amount, minOutput)
	}

	info = model.SwapInfo{Input: input, Output: preview.OtherAsset}
	if err := e.applySwap(ctx, model.OpSwapExactInput, height, before, stored, info); err != nil {
		return model.SwapInfo{}, err
	}
	return info, nil
}

// SwapExactOutput buys output for at most maxInput of the other asset.
func (e *Exchange) SwapExactOutput(ctx context.Context, output model.Asset, maxInput, deadline uint64) (info model.SwapInfo, err error) {
	started := e.now()
	defer func() { e.finish(model.OpSwapExactOutput, started, err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	height, before, stored, err := e.prepareSwap(ctx, deadline)
	if err != nil {
		return model.SwapInfo{}, err
	}
	preview, err := e.quoter.QuoteSwapExactOutput(before, output)
	if err != nil {
		return model.SwapInfo{}, err
	}
	if err := preview.Err(); err != nil {
		return model.SwapInfo{}, err
	}
	if preview.OtherAsset.Amount > maxInput {
		return model.SwapInfo{}, model.ErrSlippageExceeded.Wrapf("input %d above maximum %d", preview.OtherAsset.Amount, maxInput)
	}

	info = model.SwapInfo{Input: preview.OtherAsset, Output: output}
	if err := e.applySwap(ctx, model.OpSwapExactOutput, height, before, stored, info); err != nil {
		return model.SwapInfo{}, err
	}
	return info, nil
}

func (e *Exchange) prepareSwap(ctx context.Context, deadline uint64) (uint64, model.PoolInfo, bool, error) {
	height, err := e.height(ctx)
	if err != nil {
		return 0, model.PoolInfo{}, false, err
	}
	if err := model.CheckDeadline(deadline, height); err != nil {
		return 0, model.PoolInfo{}, false, err
	}
	before, stored, err := e.load(ctx)
	if err != nil {
		return 0, model.PoolInfo{}, false, err
	}
	return height, before, stored, nil
}

func (e *Exchange) applySwap(ctx context.Context, op string, height uint64, before model.PoolInfo, stored bool, info model.SwapInfo) error {
	in, err := before.Reserves.Delta(info.Input)
	if err != nil {
		return err
	}
	out, err := before.Reserves.Delta(info.Output)
	if err != nil {
		return err
	}
	reserves, err := before.Reserves.Add(in)
	if err != nil {
		return err
	}
	reserves, err = reserves.Subtract(out)
	if err != nil {
		return err
	}

	err = e.commit(ctx, stored, model.Receipt{
		Op:        op,
		Height:    height,
		Before:    before,
		After:     model.PoolInfo{Reserves: reserves, Liquidity: before.Liquidity},
		Input:     in,
		Output:    out,
		Liquidity: model.NewAsset(e.def.LiquidityAsset, 0),
	})
	if err != nil {
		return err
	}
	e.metrics.ObserveSwap(e.def.Name, info.Input)
	return nil
}
