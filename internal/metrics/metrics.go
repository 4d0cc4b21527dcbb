// Package metrics exposes Prometheus instrumentation for pool operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"ammcore/internal/model"
)

const (
	StatusOK       = "ok"
	StatusRejected = "rejected"
	StatusFailed   = "failed"
)

// PoolMetrics holds all Prometheus metrics for pool operations.
type PoolMetrics struct {
	OperationsTotal  *prometheus.CounterVec
	OperationLatency *prometheus.HistogramVec
	SwapVolume       *prometheus.CounterVec
	PoolReserves     *prometheus.GaugeVec
	LPTokenSupply    *prometheus.GaugeVec
}

// NewPoolMetrics creates the metrics and registers them with reg. A nil reg
// leaves them unregistered, which is what tests that only read values want.
func NewPoolMetrics(reg prometheus.Registerer) *PoolMetrics {
	factory := promauto.With(reg)
	return &PoolMetrics{
		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "amm",
				Subsystem: "pool",
				Name:      "operations_total",
				Help:      "Total number of pool operations by outcome",
			},
			[]string{"pool", "op", "status"},
		),
		OperationLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "amm",
				Subsystem: "pool",
				Name:      "operation_duration_seconds",
				Help:      "Time spent applying a pool operation",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"op"},
		),
		SwapVolume: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "amm",
				Subsystem: "pool",
				Name:      "swap_volume_total",
				Help:      "Total swap input volume in base units",
			},
			[]string{"pool", "asset_in"},
		),
		PoolReserves: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "amm",
				Subsystem: "pool",
				Name:      "reserves",
				Help:      "Current pool reserves in base units",
			},
			[]string{"pool", "asset"},
		),
		LPTokenSupply: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "amm",
				Subsystem: "pool",
				Name:      "lp_token_supply",
				Help:      "Outstanding liquidity token supply",
			},
			[]string{"pool"},
		),
	}
}

// ObserveOperation counts one operation and records how long it took.
func (m *PoolMetrics) ObserveOperation(pool, op, status string, started time.Time) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(pool, op, status).Inc()
	m.OperationLatency.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

// ObserveSwap adds a swap input to the volume counter.
func (m *PoolMetrics) ObserveSwap(pool string, input model.Asset) {
	if m == nil {
		return
	}
	m.SwapVolume.WithLabelValues(pool, input.ID.String()).Add(float64(input.Amount))
}

// SetPool publishes the reserves and liquidity of a snapshot.
func (m *PoolMetrics) SetPool(pool string, info model.PoolInfo) {
	if m == nil {
		return
	}
	m.PoolReserves.WithLabelValues(pool, info.Reserves.A.ID.String()).Set(float64(info.Reserves.A.Amount))
	m.PoolReserves.WithLabelValues(pool, info.Reserves.B.ID.String()).Set(float64(info.Reserves.B.Amount))
	m.LPTokenSupply.WithLabelValues(pool).Set(float64(info.Liquidity))
}
