package pricing

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"ammcore/internal/model"
)

var (
	idX = model.AssetIDFromAddress(common.HexToAddress("0x1111111111111111111111111111111111111111"))
	idY = model.AssetIDFromAddress(common.HexToAddress("0x2222222222222222222222222222222222222222"))
	idZ = model.AssetIDFromAddress(common.HexToAddress("0x3333333333333333333333333333333333333333"))
	idL = model.AssetIDFromAddress(common.HexToAddress("0x4444444444444444444444444444444444444444"))
)

func newQuoter(t *testing.T) *ConstantProduct {
	t.Helper()
	q, err := NewConstantProduct(DefaultFeeBps)
	if err != nil {
		t.Fatalf("quoter: %v", err)
	}
	return q
}

func pool(reserveX, reserveY, liquidity uint64) model.PoolInfo {
	return model.PoolInfo{
		Reserves:  model.AssetPair{A: model.NewAsset(idX, reserveX), B: model.NewAsset(idY, reserveY)},
		Liquidity: liquidity,
	}
}

func TestNewConstantProductRejectsFullFee(t *testing.T) {
	if _, err := NewConstantProduct(BpsDenominator); err == nil {
		t.Fatalf("expected error for 100%% fee")
	}
}

func TestQuoteAddLiquidityEmptyPool(t *testing.T) {
	q := newQuoter(t)

	got, err := q.QuoteAddLiquidity(pool(0, 0, 0), model.NewAsset(idX, 100), idL)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	want := model.PreviewAddLiquidityInfo{
		OtherAssetToAdd:         model.NewAsset(idY, 0),
		LiquidityAssetToReceive: model.NewAsset(idL, 100),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("preview mismatch: %+v != %+v", got, want)
	}
}

func TestQuoteAddLiquidityProportional(t *testing.T) {
	q := newQuoter(t)

	got, err := q.QuoteAddLiquidity(pool(1000, 2000, 100), model.NewAsset(idY, 301), idL)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	// 301*1000/2000 = 150.5 rounds up, 301*100/2000 = 15.05 rounds down
	want := model.PreviewAddLiquidityInfo{
		OtherAssetToAdd:         model.NewAsset(idX, 151),
		LiquidityAssetToReceive: model.NewAsset(idL, 15),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("preview mismatch: %+v != %+v", got, want)
	}
}

func TestQuoteAddLiquidityForeignAsset(t *testing.T) {
	q := newQuoter(t)
	if _, err := q.QuoteAddLiquidity(pool(1000, 2000, 100), model.NewAsset(idZ, 1), idL); !errors.Is(err, model.ErrAssetNotInPair) {
		t.Fatalf("expected ErrAssetNotInPair, got %v", err)
	}
}

func TestQuoteSwapExactInput(t *testing.T) {
	q := newQuoter(t)

	got, err := q.QuoteSwapExactInput(pool(1_000_000, 1_000_000, 1_000_000), model.NewAsset(idX, 1000))
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if got.OtherAsset != model.NewAsset(idY, 996) {
		t.Fatalf("output mismatch: %+v", got.OtherAsset)
	}
	if !got.SufficientReserve {
		t.Fatalf("expected sufficient reserve")
	}
}

func TestQuoteSwapExactInputEmptyPool(t *testing.T) {
	q := newQuoter(t)

	got, err := q.QuoteSwapExactInput(pool(0, 0, 0), model.NewAsset(idY, 10))
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if got.SufficientReserve {
		t.Fatalf("empty pool must not satisfy a swap")
	}
	if got.OtherAsset != model.NewAsset(idX, 0) {
		t.Fatalf("output mismatch: %+v", got.OtherAsset)
	}
	if err := got.Err(); !errors.Is(err, model.ErrInsufficientReserve) {
		t.Fatalf("expected ErrInsufficientReserve, got %v", err)
	}
}

func TestQuoteSwapExactInputZero(t *testing.T) {
	q := newQuoter(t)
	if _, err := q.QuoteSwapExactInput(pool(10, 10, 10), model.NewAsset(idX, 0)); !errors.Is(err, model.ErrZeroAmount) {
		t.Fatalf("expected ErrZeroAmount, got %v", err)
	}
}

func TestQuoteSwapExactOutput(t *testing.T) {
	q := newQuoter(t)
	p := pool(1000, 2000, 100)

	got, err := q.QuoteSwapExactOutput(p, model.NewAsset(idY, 1000))
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if got.OtherAsset != model.NewAsset(idX, 1004) || !got.SufficientReserve {
		t.Fatalf("unexpected preview: %+v", got)
	}

	// paying the quoted input must buy at least the requested output
	back, err := q.QuoteSwapExactInput(p, got.OtherAsset)
	if err != nil {
		t.Fatalf("quote back: %v", err)
	}
	if back.OtherAsset.Amount < 1000 {
		t.Fatalf("quoted input buys only %d", back.OtherAsset.Amount)
	}
}

func TestQuoteSwapExactOutputExhaustsReserve(t *testing.T) {
	q := newQuoter(t)

	got, err := q.QuoteSwapExactOutput(pool(1000, 2000, 100), model.NewAsset(idY, 2000))
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if got.SufficientReserve {
		t.Fatalf("buying the whole reserve must be insufficient")
	}
	if got.OtherAsset != model.NewAsset(idX, 0) {
		t.Fatalf("unexpected counter asset: %+v", got.OtherAsset)
	}
}

func TestQuoteSwapExactOutputOverflow(t *testing.T) {
	q := newQuoter(t)

	_, err := q.QuoteSwapExactOutput(pool(math.MaxUint64, 2, 1), model.NewAsset(idY, 1))
	if !errors.Is(err, model.ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}

func TestQuoteRemoveLiquidity(t *testing.T) {
	q := newQuoter(t)

	got, err := q.QuoteRemoveLiquidity(pool(1000, 2000, 100), model.NewAsset(idL, 10))
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	want := model.RemoveLiquidityInfo{
		RemovedAmounts:  model.AssetPair{A: model.NewAsset(idX, 100), B: model.NewAsset(idY, 200)},
		BurnedLiquidity: model.NewAsset(idL, 10),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("remove mismatch: %+v != %+v", got, want)
	}
}

func TestQuoteRemoveLiquidityAll(t *testing.T) {
	q := newQuoter(t)
	p := pool(1000, 2000, 100)

	got, err := q.QuoteRemoveLiquidity(p, model.NewAsset(idL, 100))
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if !reflect.DeepEqual(got.RemovedAmounts, p.Reserves) {
		t.Fatalf("burning all liquidity must release all reserves: %s", got.RemovedAmounts)
	}
}

func TestQuoteRemoveLiquidityErrors(t *testing.T) {
	q := newQuoter(t)

	if _, err := q.QuoteRemoveLiquidity(pool(1000, 2000, 100), model.NewAsset(idL, 101)); !errors.Is(err, model.ErrInsufficientLiquidity) {
		t.Fatalf("expected ErrInsufficientLiquidity, got %v", err)
	}
	if _, err := q.QuoteRemoveLiquidity(pool(0, 0, 0), model.NewAsset(idL, 1)); !errors.Is(err, model.ErrInsufficientLiquidity) {
		t.Fatalf("expected ErrInsufficientLiquidity on empty pool, got %v", err)
	}
	if _, err := q.QuoteRemoveLiquidity(pool(1000, 2000, 100), model.NewAsset(idL, 0)); !errors.Is(err, model.ErrZeroAmount) {
		t.Fatalf("expected ErrZeroAmount, got %v", err)
	}
	if _, err := q.QuoteRemoveLiquidity(pool(1000, 2000, 1_000_000), model.NewAsset(idL, 1)); !errors.Is(err, model.ErrZeroAmount) {
		t.Fatalf("expected ErrZeroAmount for dust burn, got %v", err)
	}
}

func TestMintLiquidityFirstDeposit(t *testing.T) {
	q := newQuoter(t)
	deposits := model.AssetPair{A: model.NewAsset(idY, 400), B: model.NewAsset(idX, 100)}

	got, err := q.MintLiquidity(pool(0, 0, 0), deposits, idL)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if got.MintedLiquidity != model.NewAsset(idL, 200) {
		t.Fatalf("minted mismatch: %+v", got.MintedLiquidity)
	}
	if a, b := got.Deposited.Amounts(); a != 100 || b != 400 {
		t.Fatalf("deposited must be sorted to reserves: %s", got.Deposited)
	}
	if a, b := got.Refunded.Amounts(); a != 0 || b != 0 {
		t.Fatalf("first deposit refunds nothing: %s", got.Refunded)
	}
}

func TestMintLiquidityRefundsExcess(t *testing.T) {
	q := newQuoter(t)
	deposits := model.AssetPair{A: model.NewAsset(idY, 500), B: model.NewAsset(idX, 300)}

	got, err := q.MintLiquidity(pool(1000, 2000, 100), deposits, idL)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	want := model.AddLiquidityInfo{
		Deposited:       model.AssetPair{A: model.NewAsset(idX, 250), B: model.NewAsset(idY, 500)},
		Refunded:        model.AssetPair{A: model.NewAsset(idX, 50), B: model.NewAsset(idY, 0)},
		MintedLiquidity: model.NewAsset(idL, 25),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("mint mismatch: %+v != %+v", got, want)
	}
}

func TestMintLiquidityErrors(t *testing.T) {
	q := newQuoter(t)

	zero := model.AssetPair{A: model.NewAsset(idX, 0), B: model.NewAsset(idY, 10)}
	if _, err := q.MintLiquidity(pool(0, 0, 0), zero, idL); !errors.Is(err, model.ErrZeroAmount) {
		t.Fatalf("expected ErrZeroAmount, got %v", err)
	}

	foreign := model.AssetPair{A: model.NewAsset(idX, 10), B: model.NewAsset(idZ, 10)}
	if _, err := q.MintLiquidity(pool(1000, 2000, 100), foreign, idL); !errors.Is(err, model.ErrAssetMismatch) {
		t.Fatalf("expected ErrAssetMismatch, got %v", err)
	}

	unrelated := model.AssetPair{A: model.NewAsset(idZ, 10), B: model.NewAsset(idL, 10)}
	if _, err := q.MintLiquidity(pool(1000, 2000, 100), unrelated, idL); !errors.Is(err, model.ErrOrientationMismatch) {
		t.Fatalf("expected ErrOrientationMismatch, got %v", err)
	}

	dust := model.AssetPair{A: model.NewAsset(idX, 1), B: model.NewAsset(idY, 1)}
	if _, err := q.MintLiquidity(pool(1000, 2000, 100), dust, idL); !errors.Is(err, model.ErrInsufficientLiquidity) {
		t.Fatalf("expected ErrInsufficientLiquidity, got %v", err)
	}
}

func TestQuoteRemoveLiquidityOneSidedDust(t *testing.T) {
	q := newQuoter(t)

	// 1*1000/1000 = 1 on X while Y rounds to zero: still a real withdrawal
	got, err := q.QuoteRemoveLiquidity(pool(1000, 10, 1000), model.NewAsset(idL, 1))
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if a, b := got.RemovedAmounts.Amounts(); a != 1 || b != 0 {
		t.Fatalf("removed mismatch: %s", got.RemovedAmounts)
	}
}
