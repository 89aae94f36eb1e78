package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dancingmadman2/raydium-bot/internal/model"
)

// Recorder exposes bot counters and gauges via Prometheus.
type Recorder struct {
	cyclesTotal   prometheus.Counter
	tradesTotal   *prometheus.CounterVec
	failuresTotal *prometheus.CounterVec
	volumeSol     prometheus.Gauge
	baseFee       prometheus.Gauge
	swapDuration  prometheus.Histogram
}

// New creates a Prometheus metrics recorder registered on the default registry.
func New() *Recorder {
	return &Recorder{
		cyclesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bot_cycles_total",
			Help: "Total number of trading cycles executed",
		}),
		tradesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bot_trades_total",
				Help: "Total number of confirmed trades by side",
			},
			[]string{"side"},
		),
		failuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bot_failures_total",
				Help: "Total number of failed operations",
			},
			[]string{"type"},
		),
		volumeSol: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "bot_accumulated_volume_sol",
			Help: "Accumulated trade volume in SOL",
		}),
		baseFee: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "bot_base_fee_micro_lamports",
			Help: "Current adaptive priority fee base",
		}),
		swapDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bot_swap_duration_seconds",
			Help:    "Duration of swap submissions in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// RecordCycle records a completed trading cycle.
func (r *Recorder) RecordCycle() {
	r.cyclesTotal.Inc()
}

// RecordTrade records a confirmed trade on the given side.
func (r *Recorder) RecordTrade(side model.TradeSide) {
	r.tradesTotal.WithLabelValues(string(side)).Inc()
}

// RecordFailure records a failed operation by kind ("swap", "rpc", "journal").
func (r *Recorder) RecordFailure(kind string) {
	r.failuresTotal.WithLabelValues(kind).Inc()
}

// RecordVolume records the accumulated volume in SOL.
func (r *Recorder) RecordVolume(lamports int64) {
	r.volumeSol.Set(float64(lamports) / float64(model.LamportsPerSol))
}

// RecordBaseFee records the fee controller's current base.
func (r *Recorder) RecordBaseFee(microLamports int64) {
	r.baseFee.Set(float64(microLamports))
}

// RecordSwapDuration records how long a swap submission took.
func (r *Recorder) RecordSwapDuration(seconds float64) {
	r.swapDuration.Observe(seconds)
}
