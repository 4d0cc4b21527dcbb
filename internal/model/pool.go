package model

// PoolInfo is the exchange state: current reserves and outstanding liquidity
// token supply. It is replaced, never mutated, when reserves change.
type PoolInfo struct {
	Reserves  AssetPair `json:"reserves"`
	Liquidity uint64    `json:"liquidity,string"`
}

// NewPoolInfo builds a snapshot and checks its invariants.
func NewPoolInfo(reserves AssetPair, liquidity uint64) (PoolInfo, error) {
	info := PoolInfo{Reserves: reserves, Liquidity: liquidity}
	if err := info.Validate(); err != nil {
		return PoolInfo{}, err
	}
	return info, nil
}

// EmptyPool is the zero-liquidity, zero-reserve state for a pair of assets.
func EmptyPool(a, b AssetID) (PoolInfo, error) {
	reserves, err := NewAssetPair(NewAsset(a, 0), NewAsset(b, 0))
	if err != nil {
		return PoolInfo{}, err
	}
	return PoolInfo{Reserves: reserves}, nil
}

// Validate enforces that outstanding liquidity is always backed by both
// reserves, and that the only zero-liquidity pool is the all-zero one.
func (p PoolInfo) Validate() error {
	if err := p.Reserves.Validate(); err != nil {
		return err
	}
	reserveA, reserveB := p.Reserves.Amounts()
	if p.Liquidity > 0 && (reserveA == 0 || reserveB == 0) {
		return ErrInvalidPoolState.Wrapf("liquidity %d with reserves %d/%d", p.Liquidity, reserveA, reserveB)
	}
	if p.Liquidity == 0 && (reserveA != 0 || reserveB != 0) {
		return ErrInvalidPoolState.Wrapf("reserves %d/%d with zero liquidity", reserveA, reserveB)
	}
	return nil
}

func (p PoolInfo) IsEmpty() bool {
	return p.Liquidity == 0
}

// LiquidityParameters is a caller request to add or remove liquidity. For an
// add, Deposits are the offered amounts and Liquidity the minimum to mint.
// For a remove, Liquidity is the amount to burn and Deposits the minimum
// amounts to receive. Deadline is a block height.
type LiquidityParameters struct {
	Deposits  AssetPair `json:"deposits"`
	Liquidity uint64    `json:"liquidity,string"`
	Deadline  uint64    `json:"deadline"`
}

// CheckDeadline rejects the request once the chain is past its deadline.
func (p LiquidityParameters) CheckDeadline(height uint64) error {
	return CheckDeadline(p.Deadline, height)
}

// CheckDeadline fails with ErrDeadlineExceeded when height is past deadline.
func CheckDeadline(deadline, height uint64) error {
	if height > deadline {
		return ErrDeadlineExceeded.Wrapf("height %d past deadline %d", height, deadline)
	}
	return nil
}

// PreviewAddLiquidityInfo forecasts a deposit: how much of the other asset
// keeps the pool ratio and how much liquidity token would be minted.
type PreviewAddLiquidityInfo struct {
	OtherAssetToAdd         Asset `json:"other_asset_to_add"`
	LiquidityAssetToReceive Asset `json:"liquidity_asset_to_receive"`
}

// PreviewSwapInfo forecasts a swap. OtherAsset is the counter side: the
// output for an exact-input swap or the required input for an exact-output
// swap.
type PreviewSwapInfo struct {
	OtherAsset        Asset `json:"other_asset"`
	SufficientReserve bool  `json:"sufficient_reserve"`
}

// Err turns an unsatisfiable preview into a hard rejection.
func (p PreviewSwapInfo) Err() error {
	if !p.SufficientReserve {
		return ErrInsufficientReserve.Wrapf("counter asset %s", p.OtherAsset.ID)
	}
	return nil
}

// RemoveLiquidityInfo is the result of a withdrawal.
type RemoveLiquidityInfo struct {
	RemovedAmounts  AssetPair `json:"removed_amounts"`
	BurnedLiquidity Asset     `json:"burned_liquidity"`
}

// AddLiquidityInfo is the result of a deposit. Deposited is what entered the
// reserves, Refunded the excess of the offer over the pool ratio.
type AddLiquidityInfo struct {
	Deposited       AssetPair `json:"deposited"`
	Refunded        AssetPair `json:"refunded"`
	MintedLiquidity Asset     `json:"minted_liquidity"`
}

// SwapInfo is the result of an executed swap.
type SwapInfo struct {
	Input  Asset `json:"input"`
	Output Asset `json:"output"`
}
