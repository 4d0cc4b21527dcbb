package dex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"ammcore/internal/model"
)

type fakePair struct {
	token0, token1     common.Address
	reserve0, reserve1 *big.Int
	lastTs             uint32
	supply             *big.Int
	calls              int
}

func (f *fakePair) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.calls++
	pairABI, err := V2PairABI()
	if err != nil {
		return nil, err
	}
	for name, method := range pairABI.Methods {
		if !bytes.Equal(msg.Data[:4], method.ID) {
			continue
		}
		switch name {
		case "token0":
			return method.Outputs.Pack(f.token0)
		case "token1":
			return method.Outputs.Pack(f.token1)
		case "getReserves":
			return method.Outputs.Pack(f.reserve0, f.reserve1, f.lastTs)
		case "totalSupply":
			return method.Outputs.Pack(f.supply)
		}
	}
	return nil, fmt.Errorf("unexpected selector %x", msg.Data[:4])
}

var (
	pairAddr = common.HexToAddress("0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc")
	usdc     = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	weth     = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
)

func TestFetchPairSnapshot(t *testing.T) {
	caller := &fakePair{
		token0:   usdc,
		token1:   weth,
		reserve0: big.NewInt(1_000_000),
		reserve1: big.NewInt(2_000_000),
		lastTs:   1700000000,
		supply:   big.NewInt(1_414_213),
	}

	snap, err := FetchPairSnapshot(context.Background(), caller, pairAddr, nil)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if caller.calls != 4 {
		t.Fatalf("expected 4 calls, got %d", caller.calls)
	}
	if snap.LiquidityAsset != model.AssetIDFromAddress(pairAddr) {
		t.Fatalf("liquidity asset mismatch: %s", snap.LiquidityAsset)
	}
	wantReserves := model.AssetPair{
		A: model.NewAsset(model.AssetIDFromAddress(usdc), 1_000_000),
		B: model.NewAsset(model.AssetIDFromAddress(weth), 2_000_000),
	}
	if snap.Pool.Reserves != wantReserves {
		t.Fatalf("reserves mismatch: %s", snap.Pool.Reserves)
	}
	if snap.Pool.Liquidity != 1_414_213 {
		t.Fatalf("liquidity mismatch: %d", snap.Pool.Liquidity)
	}
	if snap.BlockTimestampLast != 1700000000 {
		t.Fatalf("timestamp mismatch: %d", snap.BlockTimestampLast)
	}
}

func TestFetchPairSnapshotReserveOverflow(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 70)
	caller := &fakePair{
		token0:   usdc,
		token1:   weth,
		reserve0: huge,
		reserve1: big.NewInt(1),
		supply:   big.NewInt(1),
	}

	_, err := FetchPairSnapshot(context.Background(), caller, pairAddr, nil)
	if !errors.Is(err, model.ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}

func TestFetchPairSnapshotInconsistentState(t *testing.T) {
	caller := &fakePair{
		token0:   usdc,
		token1:   weth,
		reserve0: big.NewInt(0),
		reserve1: big.NewInt(10),
		supply:   big.NewInt(5),
	}

	_, err := FetchPairSnapshot(context.Background(), caller, pairAddr, nil)
	if !errors.Is(err, model.ErrInvalidPoolState) {
		t.Fatalf("expected ErrInvalidPoolState, got %v", err)
	}
}

func TestFetchPairSnapshotCallError(t *testing.T) {
	_, err := FetchPairSnapshot(context.Background(), nil, pairAddr, nil)
	if err == nil {
		t.Fatalf("expected error for nil caller")
	}
}
