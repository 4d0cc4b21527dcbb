package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ammcore/internal/chain"
	"ammcore/internal/config"
	"ammcore/internal/exchange"
	"ammcore/internal/metrics"
	"ammcore/internal/pricing"
	"ammcore/internal/storage"
	"ammcore/internal/storage/postgres"
)

// session owns everything a command opens for one pool.
type session struct {
	cfg      config.PoolConfig
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.PoolMetrics
	client   *chain.Client
	pg       *postgres.Store
	store    storage.PoolStore
	journal  storage.Journal
	heights  chain.HeightSource
	quoter   pricing.Quoter
}

func openSession(ctx context.Context, cfg config.PoolConfig) (*session, error) {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	rt := &session{cfg: cfg, logger: logger, registry: prometheus.NewRegistry()}
	rt.metrics = metrics.NewPoolMetrics(rt.registry)

	quoter, err := pricing.NewConstantProduct(cfg.FeeBps)
	if err != nil {
		rt.close()
		return nil, err
	}
	rt.quoter = quoter

	if cfg.RPCURL != "" {
		rt.client, err = chain.NewClient(ctx, cfg.RPCURL)
		if err != nil {
			rt.close()
			return nil, fmt.Errorf("connect rpc: %w", err)
		}
	}
	switch {
	case cfg.Height > 0:
		rt.heights = chain.FixedHeight(cfg.Height)
	case rt.client != nil:
		rt.heights = chain.RetryingHeight{Source: rt.client, MaxRetries: cfg.MaxRetries, Backoff: cfg.RetryBackoff}
	default:
		rt.heights = chain.FixedHeight(0)
	}

	if cfg.PGDSN != "" {
		rt.pg, err = postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			rt.close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := rt.pg.EnsureSchema(ctx); err != nil {
			rt.close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		rt.store = &postgres.PoolState{Store: rt.pg, Name: cfg.PoolName}
		// receipts are inserted in the same transaction as the pool row
	} else {
		if cfg.StateFile == "" {
			rt.close()
			return nil, fmt.Errorf("state file or pg dsn is required")
		}
		rt.store = storage.NewFileStore(cfg.StateFile)
		if cfg.Journal != "" {
			rt.journal = storage.NewJsonlJournal(cfg.Journal)
		}
	}

	logger.Debug("session open",
		zap.String("pool", cfg.PoolName),
		zap.String("state_file", cfg.StateFile),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.String("rpc", cfg.RPCURL),
		zap.Uint64("fee_bps", quoter.FeeBps()),
	)
	return rt, nil
}

// exchange binds the session to a pool definition taken from config.
func (rt *session) exchange() (*exchange.Exchange, error) {
	a, b, liquidity, err := rt.cfg.Assets()
	if err != nil {
		return nil, err
	}
	return rt.exchangeFor(exchange.Definition{Name: rt.cfg.PoolName, AssetA: a, AssetB: b, LiquidityAsset: liquidity})
}

func (rt *session) exchangeFor(def exchange.Definition) (*exchange.Exchange, error) {
	return exchange.New(def, rt.quoter, rt.store, rt.journal, rt.heights, rt.metrics, rt.logger)
}

func (rt *session) close() {
	if rt.cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(rt.cfg.MetricsFile, rt.registry); err != nil {
			rt.logger.Warn("write metrics", zap.String("path", rt.cfg.MetricsFile), zap.Error(err))
		}
	}
	if rt.pg != nil {
		rt.pg.Close()
	}
	if rt.client != nil {
		rt.client.Close()
	}
	_ = rt.logger.Sync()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
