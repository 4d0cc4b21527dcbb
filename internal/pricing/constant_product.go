package pricing

import (
	"fmt"

	"github.com/holiman/uint256"

	"ammcore/internal/model"
)

const (
	// BpsDenominator is the fee scale: 10_000 basis points is 100%.
	BpsDenominator uint64 = 10_000
	// DefaultFeeBps is the liquidity provider fee taken from every swap input.
	DefaultFeeBps uint64 = 30
)

// ConstantProduct quotes against the x*y=k invariant with an input fee.
type ConstantProduct struct {
	feeBps uint64
}

var _ Quoter = (*ConstantProduct)(nil)

func NewConstantProduct(feeBps uint64) (*ConstantProduct, error) {
	if feeBps >= BpsDenominator {
		return nil, fmt.Errorf("fee %d bps must be below %d", feeBps, BpsDenominator)
	}
	return &ConstantProduct{feeBps: feeBps}, nil
}

func (c *ConstantProduct) FeeBps() uint64 {
	return c.feeBps
}

// QuoteAddLiquidity rounds the other side up and the minted liquidity down so
// the pool never gives away value on a deposit. An empty pool has no ratio:
// the other side is reported as zero and liquidity as 1:1 with the deposit.
func (c *ConstantProduct) QuoteAddLiquidity(pool model.PoolInfo, deposit model.Asset, liquidityID model.AssetID) (model.PreviewAddLiquidityInfo, error) {
	if err := pool.Validate(); err != nil {
		return model.PreviewAddLiquidityInfo{}, err
	}
	this, err := pool.Reserves.ThisAsset(deposit.ID)
	if err != nil {
		return model.PreviewAddLiquidityInfo{}, err
	}
	other, err := pool.Reserves.OtherAsset(deposit.ID)
	if err != nil {
		return model.PreviewAddLiquidityInfo{}, err
	}

	if pool.Liquidity == 0 {
		return model.PreviewAddLiquidityInfo{
			OtherAssetToAdd:         other.WithAmount(0),
			LiquidityAssetToReceive: model.NewAsset(liquidityID, deposit.Amount),
		}, nil
	}

	otherAmount, err := mulDivUp(deposit.Amount, other.Amount, this.Amount, "other asset to add")
	if err != nil {
		return model.PreviewAddLiquidityInfo{}, err
	}
	minted, err := mulDiv(deposit.Amount, pool.Liquidity, this.Amount, "liquidity to mint")
	if err != nil {
		return model.PreviewAddLiquidityInfo{}, err
	}

	return model.PreviewAddLiquidityInfo{
		OtherAssetToAdd:         other.WithAmount(otherAmount),
		LiquidityAssetToReceive: model.NewAsset(liquidityID, minted),
	}, nil
}

// QuoteSwapExactInput: out = in*(1-fee)*rOut / (rIn + in*(1-fee)).
func (c *ConstantProduct) QuoteSwapExactInput(pool model.PoolInfo, input model.Asset) (model.PreviewSwapInfo, error) {
	if err := pool.Validate(); err != nil {
		return model.PreviewSwapInfo{}, err
	}
	reserveIn, err := pool.Reserves.ThisAsset(input.ID)
	if err != nil {
		return model.PreviewSwapInfo{}, err
	}
	reserveOut, err := pool.Reserves.OtherAsset(input.ID)
	if err != nil {
		return model.PreviewSwapInfo{}, err
	}
	if input.Amount == 0 {
		return model.PreviewSwapInfo{}, model.ErrZeroAmount.Wrap("swap input")
	}
	if reserveIn.Amount == 0 || reserveOut.Amount == 0 {
		return model.PreviewSwapInfo{OtherAsset: reserveOut.WithAmount(0)}, nil
	}

	inWithFee := new(uint256.Int).Mul(u256(input.Amount), u256(BpsDenominator-c.feeBps))
	numerator := new(uint256.Int).Mul(inWithFee, u256(reserveOut.Amount))
	denominator := new(uint256.Int).Mul(u256(reserveIn.Amount), u256(BpsDenominator))
	denominator.Add(denominator, inWithFee)

	out, err := toUint64(numerator.Div(numerator, denominator), "swap output")
	if err != nil {
		return model.PreviewSwapInfo{}, err
	}

	return model.PreviewSwapInfo{
		OtherAsset:        reserveOut.WithAmount(out),
		SufficientReserve: out < reserveOut.Amount,
	}, nil
}

// QuoteSwapExactOutput: in = ceil(rIn*out / ((rOut-out)*(1-fee))). Buying
// the whole reserve or more is never satisfiable.
func (c *ConstantProduct) QuoteSwapExactOutput(pool model.PoolInfo, output model.Asset) (model.PreviewSwapInfo, error) {
	if err := pool.Validate(); err != nil {
		return model.PreviewSwapInfo{}, err
	}
	reserveOut, err := pool.Reserves.ThisAsset(output.ID)
	if err != nil {
		return model.PreviewSwapInfo{}, err
	}
	reserveIn, err := pool.Reserves.OtherAsset(output.ID)
	if err != nil {
		return model.PreviewSwapInfo{}, err
	}
	if output.Amount == 0 {
		return model.PreviewSwapInfo{}, model.ErrZeroAmount.Wrap("swap output")
	}
	if reserveIn.Amount == 0 || output.Amount >= reserveOut.Amount {
		return model.PreviewSwapInfo{OtherAsset: reserveIn.WithAmount(0)}, nil
	}

	numerator := new(uint256.Int).Mul(u256(reserveIn.Amount), u256(output.Amount))
	numerator.Mul(numerator, u256(BpsDenominator))
	denominator := new(uint256.Int).Mul(u256(reserveOut.Amount-output.Amount), u256(BpsDenominator-c.feeBps))

	in, err := toUint64(divUp(numerator, denominator), "swap input")
	if err != nil {
		return model.PreviewSwapInfo{}, err
	}

	return model.PreviewSwapInfo{
		OtherAsset:        reserveIn.WithAmount(in),
		SufficientReserve: true,
	}, nil
}

// QuoteRemoveLiquidity releases floor(reserve*burn/liquidity) of each side. A
// burn too small to release anything is rejected.
func (c *ConstantProduct) QuoteRemoveLiquidity(pool model.PoolInfo, burn model.Asset) (model.RemoveLiquidityInfo, error) {
	if err := pool.Validate(); err != nil {
		return model.RemoveLiquidityInfo{}, err
	}
	if burn.Amount == 0 {
		return model.RemoveLiquidityInfo{}, model.ErrZeroAmount.Wrap("liquidity to burn")
	}
	if burn.Amount > pool.Liquidity {
		return model.RemoveLiquidityInfo{}, model.ErrInsufficientLiquidity.Wrapf("burn %d of %d", burn.Amount, pool.Liquidity)
	}

	reserveA, reserveB := pool.Reserves.Amounts()
	removedA, err := mulDiv(reserveA, burn.Amount, pool.Liquidity, "removed amount")
	if err != nil {
		return model.RemoveLiquidityInfo{}, err
	}
	removedB, err := mulDiv(reserveB, burn.Amount, pool.Liquidity, "removed amount")
	if err != nil {
		return model.RemoveLiquidityInfo{}, err
	}
	if removedA == 0 && removedB == 0 {
		return model.RemoveLiquidityInfo{}, model.ErrZeroAmount.Wrapf("burning %d of %d releases nothing", burn.Amount, pool.Liquidity)
	}

	return model.RemoveLiquidityInfo{
		RemovedAmounts:  pool.Reserves.WithAmounts(removedA, removedB),
		BurnedLiquidity: burn,
	}, nil
}

// MintLiquidity takes the largest deposit that keeps the pool ratio and
// refunds the rest. The first deposit sets the ratio and mints the geometric
// mean of both sides.
func (c *ConstantProduct) MintLiquidity(pool model.PoolInfo, deposits model.AssetPair, liquidityID model.AssetID) (model.AddLiquidityInfo, error) {
	if err := pool.Validate(); err != nil {
		return model.AddLiquidityInfo{}, err
	}
	sorted, err := deposits.Sort(pool.Reserves)
	if err != nil {
		return model.AddLiquidityInfo{}, err
	}
	if !sorted.Aligned(pool.Reserves) {
		return model.AddLiquidityInfo{}, model.ErrAssetMismatch.Wrapf("deposit %s for pool %s", sorted, pool.Reserves)
	}
	depositA, depositB := sorted.Amounts()
	if depositA == 0 || depositB == 0 {
		return model.AddLiquidityInfo{}, model.ErrZeroAmount.Wrap("both deposits must be positive")
	}

	var usedA, usedB, minted uint64
	if pool.Liquidity == 0 {
		usedA, usedB = depositA, depositB
		minted = sqrtProduct(depositA, depositB)
	} else {
		reserveA, reserveB := pool.Reserves.Amounts()
		optimalB, err := mulDivUp(depositA, reserveB, reserveA, "optimal deposit")
		if err != nil {
			return model.AddLiquidityInfo{}, err
		}
		if optimalB <= depositB {
			usedA, usedB = depositA, optimalB
		} else {
			optimalA, err := mulDiv(depositB, reserveA, reserveB, "optimal deposit")
			if err != nil {
				return model.AddLiquidityInfo{}, err
			}
			usedA, usedB = optimalA, depositB
		}

		mintedA, err := mulDiv(usedA, pool.Liquidity, reserveA, "liquidity to mint")
		if err != nil {
			return model.AddLiquidityInfo{}, err
		}
		mintedB, err := mulDiv(usedB, pool.Liquidity, reserveB, "liquidity to mint")
		if err != nil {
			return model.AddLiquidityInfo{}, err
		}
		minted = min(mintedA, mintedB)
	}
	if minted == 0 {
		return model.AddLiquidityInfo{}, model.ErrInsufficientLiquidity.Wrap("deposit too small to mint liquidity")
	}

	used := pool.Reserves.WithAmounts(usedA, usedB)
	refunded, err := sorted.Subtract(used)
	if err != nil {
		return model.AddLiquidityInfo{}, err
	}

	return model.AddLiquidityInfo{
		Deposited:       used,
		Refunded:        refunded,
		MintedLiquidity: model.NewAsset(liquidityID, minted),
	}, nil
}
