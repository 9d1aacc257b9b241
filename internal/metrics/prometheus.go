package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every Prometheus series the OMS exposes: order lifecycle
// counters, the active-strategy gauge, the strategy-tick duration
// histogram, and the logger's batch/flush counters.
type Metrics struct {
	SystemInfo *prometheus.GaugeVec
	UpTime     prometheus.Gauge

	OrdersSubmitted *prometheus.CounterVec
	OrdersFilled    *prometheus.CounterVec
	OrdersCancelled *prometheus.CounterVec
	OrdersRejected  *prometheus.CounterVec
	OrderNotional   *prometheus.CounterVec

	ActiveStrategies prometheus.Gauge
	StrategySignals  *prometheus.CounterVec
	StrategyTickTime prometheus.Histogram

	RiskEvents *prometheus.CounterVec

	LoggerBatchesFlushed  prometheus.Counter
	LoggerMessagesDropped prometheus.Counter
	LoggerFlushErrors     prometheus.Counter

	registry *prometheus.Registry
}

// New creates a new metrics instance with every series registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		SystemInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "oms_system_info",
				Help: "Build information",
			},
			[]string{"version", "go_version"},
		),
		UpTime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "oms_uptime_seconds",
				Help: "Process uptime in seconds",
			},
		),

		OrdersSubmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oms_orders_submitted_total",
				Help: "Total number of orders submitted to the venue",
			},
			[]string{"symbol", "side", "strategy"},
		),
		OrdersFilled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oms_orders_filled_total",
				Help: "Total number of orders that reached FILLED",
			},
			[]string{"symbol", "side"},
		),
		OrdersCancelled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oms_orders_cancelled_total",
				Help: "Total number of orders that reached CANCELED",
			},
			[]string{"symbol"},
		),
		OrdersRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oms_orders_rejected_total",
				Help: "Total number of orders that reached REJECTED",
			},
			[]string{"symbol", "reason"},
		),
		OrderNotional: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oms_order_notional_total",
				Help: "Cumulative notional value of submitted orders",
			},
			[]string{"symbol"},
		),

		ActiveStrategies: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "oms_active_strategies",
				Help: "Current number of non-completed execution strategies",
			},
		),
		StrategySignals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oms_strategy_signals_total",
				Help: "Total number of non-None strategy actions emitted",
			},
			[]string{"kind"},
		),
		StrategyTickTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "oms_strategy_tick_duration_microseconds",
				Help:    "Duration of one OnTimer sweep over active strategies",
				Buckets: prometheus.ExponentialBuckets(1, 2, 15),
			},
		),

		RiskEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oms_risk_events_total",
				Help: "Total number of margin/risk rejections",
			},
			[]string{"reason"},
		),

		LoggerBatchesFlushed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "oms_logger_batches_flushed_total",
				Help: "Total number of log batches successfully flushed",
			},
		),
		LoggerMessagesDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "oms_logger_messages_dropped_total",
				Help: "Total number of log messages dropped (channel full)",
			},
		),
		LoggerFlushErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "oms_logger_flush_errors_total",
				Help: "Total number of failed sink flushes",
			},
		),
	}

	registry.MustRegister(
		m.SystemInfo,
		m.UpTime,
		m.OrdersSubmitted,
		m.OrdersFilled,
		m.OrdersCancelled,
		m.OrdersRejected,
		m.OrderNotional,
		m.ActiveStrategies,
		m.StrategySignals,
		m.StrategyTickTime,
		m.RiskEvents,
		m.LoggerBatchesFlushed,
		m.LoggerMessagesDropped,
		m.LoggerFlushErrors,
	)

	m.SystemInfo.WithLabelValues("1.0.0", "1.23").Set(1)
	m.UpTime.SetToCurrentTime()

	return m
}

// GetRegistry returns the Prometheus registry backing these metrics.
func (m *Metrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordOrderSubmitted(symbol, side, strategy string) {
	m.OrdersSubmitted.WithLabelValues(symbol, side, strategy).Inc()
}

func (m *Metrics) RecordOrderNotional(symbol string, notional float64) {
	m.OrderNotional.WithLabelValues(symbol).Add(notional)
}

func (m *Metrics) RecordOrderFilled(symbol, side string) {
	m.OrdersFilled.WithLabelValues(symbol, side).Inc()
}

func (m *Metrics) RecordOrderCancelled(symbol string) {
	m.OrdersCancelled.WithLabelValues(symbol).Inc()
}

func (m *Metrics) RecordOrderRejected(symbol, reason string) {
	m.OrdersRejected.WithLabelValues(symbol, reason).Inc()
}

func (m *Metrics) SetActiveStrategies(n int) {
	m.ActiveStrategies.Set(float64(n))
}

func (m *Metrics) RecordStrategySignal(kind string) {
	m.StrategySignals.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordStrategyTick(d time.Duration) {
	m.StrategyTickTime.Observe(float64(d.Microseconds()))
}

func (m *Metrics) RecordRiskEvent(reason string) {
	m.RiskEvents.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordLoggerBatchFlushed() {
	m.LoggerBatchesFlushed.Inc()
}

func (m *Metrics) RecordLoggerMessageDropped() {
	m.LoggerMessagesDropped.Inc()
}

func (m *Metrics) RecordLoggerFlushError() {
	m.LoggerFlushErrors.Inc()
}

func (m *Metrics) UpdateUptime() {
	m.UpTime.SetToCurrentTime()
}
