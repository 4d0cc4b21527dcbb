// Package exchange applies liquidity and swap operations to one persisted
// pool. Every mutation is all-or-nothing: the new snapshot is validated and
// saved before a receipt is journaled, and nothing is saved on failure.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	"go.uber.org/zap"

	"ammcore/internal/chain"
	"ammcore/internal/metrics"
	"ammcore/internal/model"
	"ammcore/internal/pricing"
	"ammcore/internal/storage"
)

// Exchange serializes operations on a single pool.
type Exchange struct {
	def     Definition
	quoter  pricing.Quoter
	store   storage.PoolStore
	journal storage.Journal
	heights chain.HeightSource
	metrics *metrics.PoolMetrics
	logger  *zap.Logger
	now     func() time.Time

	mu sync.Mutex
}

// New binds a pool definition to its pricing and storage. journal, m and
// logger may be nil.
func New(def Definition, quoter pricing.Quoter, store storage.PoolStore, journal storage.Journal, heights chain.HeightSource, m *metrics.PoolMetrics, logger *zap.Logger) (*Exchange, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if quoter == nil {
		return nil, fmt.Errorf("quoter is required")
	}
	if store == nil {
		return nil, fmt.Errorf("pool store is required")
	}
	if heights == nil {
		return nil, fmt.Errorf("height source is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exchange{
		def:     def,
		quoter:  quoter,
		store:   store,
		journal: journal,
		heights: heights,
		metrics: m,
		logger:  logger.With(zap.String("pool", def.Name)),
		now:     time.Now,
	}, nil
}

func (e *Exchange) Definition() Definition {
	return e.def
}

// Pool returns the current snapshot, or the empty pool if nothing is stored.
func (e *Exchange) Pool(ctx context.Context) (model.PoolInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	info, _, err := e.load(ctx)
	if err != nil {
		return model.PoolInfo{}, err
	}
	e.metrics.SetPool(e.def.Name, info)
	return info, nil
}

// load also reports whether the snapshot came from the store, which commit
// needs to make its write conditional.
func (e *Exchange) load(ctx context.Context) (model.PoolInfo, bool, error) {
	info, ok, err := e.store.LoadPool(ctx)
	if err != nil {
		return model.PoolInfo{}, false, fmt.Errorf("load pool %s: %w", e.def.Name, err)
	}
	if !ok {
		empty, err := model.EmptyPool(e.def.AssetA, e.def.AssetB)
		return empty, false, err
	}
	if err := info.Validate(); err != nil {
		return model.PoolInfo{}, false, err
	}
	if !e.def.accepts(info) {
		return model.PoolInfo{}, false, model.ErrInvalidPoolState.Wrapf("stored reserves %s do not belong to pool %s", info.Reserves, e.def.Name)
	}
	return info, true, nil
}

// commit validates receipt.After and saves it only if the store still holds
// receipt.Before, so a concurrent writer on the same store fails with
// model.ErrStateConflict instead of being overwritten. Stores that can
// journal in the same transaction do; otherwise a journal failure after the
// save is logged but does not undo the saved state.
func (e *Exchange) commit(ctx context.Context, stored bool, receipt model.Receipt) error {
	if err := receipt.After.Validate(); err != nil {
		return err
	}
	var expected *model.PoolInfo
	if stored {
		expected = &receipt.Before
	}
	receipt.Pool = e.def.Name
	receipt.AppliedAt = e.now().UTC().Format(time.RFC3339Nano)

	journaled, inTx := e.store.(storage.JournaledStore)
	var err error
	if inTx {
		err = journaled.SavePoolWithReceipts(ctx, expected, receipt.After, []model.Receipt{receipt})
	} else {
		err = e.store.SavePool(ctx, expected, receipt.After)
	}
	if err != nil {
		if errors.Is(err, model.ErrStateConflict) {
			return err
		}
		return fmt.Errorf("save pool %s: %w", e.def.Name, err)
	}
	e.metrics.SetPool(e.def.Name, receipt.After)

	if !inTx && e.journal != nil {
		if err := e.journal.PutReceipts(ctx, []model.Receipt{receipt}); err != nil {
			e.logger.Error("journal receipt", zap.String("op", receipt.Op), zap.Error(err))
		}
	}

	reserveA, reserveB := receipt.After.Reserves.Amounts()
	e.logger.Info("pool updated",
		zap.String("op", receipt.Op),
		zap.Uint64("height", receipt.Height),
		zap.Uint64("reserve_a", reserveA),
		zap.Uint64("reserve_b", reserveB),
		zap.Uint64("liquidity", receipt.After.Liquidity),
	)
	return nil
}

// finish records the outcome of an operation. Errors from the model
// taxonomy are rejections of the request; anything else is a failure.
func (e *Exchange) finish(op string, started time.Time, err error) {
	status := metrics.StatusOK
	if err != nil {
		status = metrics.StatusFailed
		if codespace, _, _ := errorsmod.ABCIInfo(err, false); codespace == model.Codespace {
			status = metrics.StatusRejected
		}
		if status == metrics.StatusRejected {
			e.logger.Warn("operation rejected", zap.String("op", op), zap.Error(err))
		} else {
			e.logger.Error("operation failed", zap.String("op", op), zap.Error(err))
		}
	}
	e.metrics.ObserveOperation(e.def.Name, op, status, started)
}

func (e *Exchange) height(ctx context.Context) (uint64, error) {
	height, err := e.heights.BlockHeight(ctx)
	if err != nil {
		return 0, fmt.Errorf("block height: %w", err)
	}
	return height, nil
}

func addLiquidity(supply, minted uint64) (uint64, error) {
	sum, carry := bits.Add64(supply, minted, 0)
	if carry != 0 {
		return 0, model.ErrOverflow.Wrapf("liquidity %d + %d", supply, minted)
	}
	return sum, nil
}
