package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"ammcore/internal/model"
)

// ContractCaller is the eth_call subset the snapshot reader needs.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// PairSnapshot is the on-chain state of a constant-product pair expressed in
// pool accounting terms. The pair contract is itself the liquidity token.
type PairSnapshot struct {
	Pair               common.Address
	LiquidityAsset     model.AssetID
	Pool               model.PoolInfo
	BlockTimestampLast uint32
}

// FetchPairSnapshot reads token0/token1, reserves and LP supply of a
// UniswapV2-style pair. A nil block reads the latest state.
func FetchPairSnapshot(ctx context.Context, caller ContractCaller, pair common.Address, block *big.Int) (PairSnapshot, error) {
	if caller == nil {
		return PairSnapshot{}, fmt.Errorf("contract caller is nil")
	}
	pairABI, err := V2PairABI()
	if err != nil {
		return PairSnapshot{}, fmt.Errorf("parse pair abi: %w", err)
	}

	values, err := callPairMethod(ctx, caller, pair, pairABI, "token0", block)
	if err != nil {
		return PairSnapshot{}, err
	}
	token0, err := asAddress(values[0])
	if err != nil {
		return PairSnapshot{}, fmt.Errorf("token0: %w", err)
	}

	values, err = callPairMethod(ctx, caller, pair, pairABI, "token1", block)
	if err != nil {
		return PairSnapshot{}, err
	}
	token1, err := asAddress(values[0])
	if err != nil {
		return PairSnapshot{}, fmt.Errorf("token1: %w", err)
	}

	values, err = callPairMethod(ctx, caller, pair, pairABI, "getReserves", block)
	if err != nil {
		return PairSnapshot{}, err
	}
	if len(values) < 3 {
		return PairSnapshot{}, fmt.Errorf("getReserves return size %d", len(values))
	}
	reserve0, err := asUint64(values[0], "reserve0")
	if err != nil {
		return PairSnapshot{}, err
	}
	reserve1, err := asUint64(values[1], "reserve1")
	if err != nil {
		return PairSnapshot{}, err
	}
	lastTs, ok := values[2].(uint32)
	if !ok {
		return PairSnapshot{}, fmt.Errorf("blockTimestampLast unexpected type %T", values[2])
	}

	values, err = callPairMethod(ctx, caller, pair, pairABI, "totalSupply", block)
	if err != nil {
		return PairSnapshot{}, err
	}
	supply, err := asUint64(values[0], "totalSupply")
	if err != nil {
		return PairSnapshot{}, err
	}

	reserves, err := model.NewAssetPair(
		model.NewAsset(model.AssetIDFromAddress(token0), reserve0),
		model.NewAsset(model.AssetIDFromAddress(token1), reserve1),
	)
	if err != nil {
		return PairSnapshot{}, err
	}
	info, err := model.NewPoolInfo(reserves, supply)
	if err != nil {
		return PairSnapshot{}, fmt.Errorf("pair %s: %w", pair.Hex(), err)
	}

	return PairSnapshot{
		Pair:               pair,
		LiquidityAsset:     model.AssetIDFromAddress(pair),
		Pool:               info,
		BlockTimestampLast: lastTs,
	}, nil
}

func callPairMethod(ctx context.Context, caller ContractCaller, pair common.Address, pairABI abi.ABI, method string, block *big.Int) ([]interface{}, error) {
	data, err := pairABI.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &pair, Data: data}
	resp, err := caller.CallContract(ctx, msg, block)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := pairABI.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s returned nothing", method)
	}
	return values, nil
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}

func asUint64(value interface{}, what string) (uint64, error) {
	switch v := value.(type) {
	case *big.Int:
		if v.Sign() < 0 {
			return 0, fmt.Errorf("%s is negative: %s", what, v.String())
		}
		if !v.IsUint64() {
			return 0, model.ErrOverflow.Wrapf("%s %s exceeds uint64", what, v.String())
		}
		return v.Uint64(), nil
	case uint64:
		return v, nil
	case uint32:
		return uint64(v), nil
	default:
		return 0, fmt.Errorf("%s unsupported int type %T", what, value)
	}
}
