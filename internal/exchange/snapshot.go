package exchange

import (
	"context"

	"ammcore/internal/model"
)

// Import replaces the stored pool with an externally observed snapshot, such
// as the state of an on-chain pair.
func (e *Exchange) Import(ctx context.Context, info model.PoolInfo) (err error) {
	started := e.now()
	defer func() { e.finish(model.OpSnapshot, started, err) }()

	if err := info.Validate(); err != nil {
		return err
	}
	if !e.def.accepts(info) {
		return model.ErrAssetMismatch.Wrapf("snapshot reserves %s for pool %s", info.Reserves, e.def.Name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	height, err := e.height(ctx)
	if err != nil {
		return err
	}
	before, stored, err := e.load(ctx)
	if err != nil {
		return err
	}
	after, err := info.Reserves.Sort(before.Reserves)
	if err != nil {
		return err
	}

	return e.commit(ctx, stored, model.Receipt{
		Op:        model.OpSnapshot,
		Height:    height,
		Before:    before,
		After:     model.PoolInfo{Reserves: after, Liquidity: info.Liquidity},
		Input:     after,
		Output:    before.Reserves,
		Liquidity: model.NewAsset(e.def.LiquidityAsset, info.Liquidity),
	})
}
