package chain

import (
	"context"
	"time"
)

// HeightSource reports the current block height.
type HeightSource interface {
	BlockHeight(ctx context.Context) (uint64, error)
}

// FixedHeight is a HeightSource pinned to one height, for offline use.
type FixedHeight uint64

func (h FixedHeight) BlockHeight(context.Context) (uint64, error) {
	return uint64(h), nil
}

// RetryingHeight retries a flaky HeightSource with exponential backoff.
type RetryingHeight struct {
	Source     HeightSource
	MaxRetries int
	Backoff    time.Duration
}

func (r RetryingHeight) BlockHeight(ctx context.Context) (uint64, error) {
	var height uint64
	err := WithRetry(ctx, r.MaxRetries, r.Backoff, func(ctx context.Context) error {
		var err error
		height, err = r.Source.BlockHeight(ctx)
		return err
	})
	return height, err
}
