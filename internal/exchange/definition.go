package exchange

import (
	"fmt"

	"ammcore/internal/model"
)

// Definition names a pool and the three assets it accounts for.
type Definition struct {
	Name           string        `json:"name"`
	AssetA         model.AssetID `json:"asset_a"`
	AssetB         model.AssetID `json:"asset_b"`
	LiquidityAsset model.AssetID `json:"liquidity_asset"`
}

func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("pool name is required")
	}
	if d.AssetA.IsZero() || d.AssetB.IsZero() || d.LiquidityAsset.IsZero() {
		return fmt.Errorf("pool %s: asset ids are required", d.Name)
	}
	if d.AssetA == d.AssetB {
		return model.ErrInvalidPair.Wrapf("pool %s: both sides are %s", d.Name, d.AssetA)
	}
	if d.LiquidityAsset == d.AssetA || d.LiquidityAsset == d.AssetB {
		return model.ErrInvalidPair.Wrapf("pool %s: liquidity asset %s is a reserve asset", d.Name, d.LiquidityAsset)
	}
	return nil
}

// accepts reports whether a stored snapshot belongs to this pool.
func (d Definition) accepts(info model.PoolInfo) bool {
	return info.Reserves.Contains(d.AssetA) && info.Reserves.Contains(d.AssetB)
}
