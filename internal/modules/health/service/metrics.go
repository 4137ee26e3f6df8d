package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics — счётчики пайплайна. Регистрируются один раз на процесс.
type Metrics struct {
	WSReconnects    prometheus.Counter
	CandlesBuffered prometheus.Counter
	Ticks           prometheus.Counter
	DrainSize       prometheus.Histogram
	Signals         *prometheus.CounterVec // side
	Orders          *prometheus.CounterVec // outcome: placed|guarded|rejected|failed
	LevelFailures   prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		WSReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "breakout_ws_reconnects_total",
			Help: "Stream shard reconnects.",
		}),
		CandlesBuffered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "breakout_candles_buffered_total",
			Help: "Confirmed candles written to the staging buffer.",
		}),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "breakout_engine_ticks_total",
			Help: "Engine polling ticks.",
		}),
		DrainSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "breakout_drain_size",
			Help:    "Candles per buffer drain.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		Signals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "breakout_signals_total",
			Help: "Breakout signals by side.",
		}, []string{"side"}),
		Orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "breakout_orders_total",
			Help: "Order executor outcomes.",
		}, []string{"outcome"}),
		LevelFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "breakout_level_failures_total",
			Help: "Instruments dropped from a daily level computation cycle.",
		}),
	}

	prometheus.MustRegister(
		m.WSReconnects, m.CandlesBuffered, m.Ticks, m.DrainSize,
		m.Signals, m.Orders, m.LevelFailures,
	)
	return m
}
