package storage

import (
	"context"

	"ammcore/internal/model"
)

// PoolStore persists the current PoolInfo of one pool.
type PoolStore interface {
	// LoadPool returns the stored snapshot and whether one exists.
	LoadPool(ctx context.Context) (model.PoolInfo, bool, error)
	// SavePool replaces the stored snapshot only if it still equals
	// expected; nil expected means nothing may be stored yet. Otherwise it
	// writes nothing and fails with model.ErrStateConflict.
	SavePool(ctx context.Context, expected *model.PoolInfo, info model.PoolInfo) error
}

// Journal is a sink for applied pool mutations.
type Journal interface {
	PutReceipts(ctx context.Context, receipts []model.Receipt) error
}

// JournaledStore saves a snapshot and its receipts in one transaction.
type JournaledStore interface {
	PoolStore
	SavePoolWithReceipts(ctx context.Context, expected *model.PoolInfo, info model.PoolInfo, receipts []model.Receipt) error
}

// checkExpected compares the stored state against what the caller loaded.
func checkExpected(expected *model.PoolInfo, current model.PoolInfo, stored bool) error {
	switch {
	case expected == nil && stored:
		return model.ErrStateConflict.Wrapf("pool already stored as %s", current.Reserves)
	case expected != nil && !stored:
		return model.ErrStateConflict.Wrap("pool no longer stored")
	case expected != nil && *expected != current:
		return model.ErrStateConflict.Wrapf("expected %s/%d, found %s/%d",
			expected.Reserves, expected.Liquidity, current.Reserves, current.Liquidity)
	}
	return nil
}
