package metrics

import "time"

// Wrapper gates every Record call behind an enabled flag, so the engine can
// hold a Wrapper unconditionally and metrics collection becomes a no-op
// when disabled rather than a nil check at every call site.
type Wrapper struct {
	metrics *Metrics
	enabled bool
}

// NewWrapper creates a new metrics wrapper.
func NewWrapper(metrics *Metrics, enabled bool) *Wrapper {
	return &Wrapper{metrics: metrics, enabled: enabled}
}

func (w *Wrapper) RecordOrderSubmitted(symbol, side, strategy string) {
	if w.enabled {
		w.metrics.RecordOrderSubmitted(symbol, side, strategy)
	}
}

func (w *Wrapper) RecordOrderNotional(symbol string, notional float64) {
	if w.enabled {
		w.metrics.RecordOrderNotional(symbol, notional)
	}
}

func (w *Wrapper) RecordOrderFilled(symbol, side string) {
	if w.enabled {
		w.metrics.RecordOrderFilled(symbol, side)
	}
}

func (w *Wrapper) RecordOrderCancelled(symbol string) {
	if w.enabled {
		w.metrics.RecordOrderCancelled(symbol)
	}
}

func (w *Wrapper) RecordOrderRejected(symbol, reason string) {
	if w.enabled {
		w.metrics.RecordOrderRejected(symbol, reason)
	}
}

func (w *Wrapper) SetActiveStrategies(n int) {
	if w.enabled {
		w.metrics.SetActiveStrategies(n)
	}
}

func (w *Wrapper) RecordStrategySignal(kind string) {
	if w.enabled {
		w.metrics.RecordStrategySignal(kind)
	}
}

func (w *Wrapper) RecordStrategyTick(d time.Duration) {
	if w.enabled {
		w.metrics.RecordStrategyTick(d)
	}
}

func (w *Wrapper) RecordRiskEvent(reason string) {
	if w.enabled {
		w.metrics.RecordRiskEvent(reason)
	}
}

func (w *Wrapper) RecordLoggerBatchFlushed() {
	if w.enabled {
		w.metrics.RecordLoggerBatchFlushed()
	}
}

func (w *Wrapper) RecordLoggerMessageDropped() {
	if w.enabled {
		w.metrics.RecordLoggerMessageDropped()
	}
}

func (w *Wrapper) RecordLoggerFlushError() {
	if w.enabled {
		w.metrics.RecordLoggerFlushError()
	}
}

func (w *Wrapper) UpdateUptime() {
	if w.enabled {
		w.metrics.UpdateUptime()
	}
}
