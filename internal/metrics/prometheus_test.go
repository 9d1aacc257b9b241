package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersAllSeries(t *testing.T) {
	m := New()
	require.NotNil(t, m.GetRegistry())

	families, err := m.GetRegistry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestRecordOrderSubmittedIncrementsCounter(t *testing.T) {
	m := New()
	m.RecordOrderSubmitted("BTC-USD", "BUY", "LIMIT")
	m.RecordOrderSubmitted("BTC-USD", "BUY", "LIMIT")

	got := testutil.ToFloat64(m.OrdersSubmitted.WithLabelValues("BTC-USD", "BUY", "LIMIT"))
	assert.Equal(t, float64(2), got)
}

func TestRecordOrderNotionalAccumulates(t *testing.T) {
	m := New()
	m.RecordOrderNotional("BTC-USD", 100.5)
	m.RecordOrderNotional("BTC-USD", 50.25)

	got := testutil.ToFloat64(m.OrderNotional.WithLabelValues("BTC-USD"))
	assert.InDelta(t, 150.75, got, 0.001)
}

func TestSetActiveStrategiesOverwritesGauge(t *testing.T) {
	m := New()
	m.SetActiveStrategies(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.ActiveStrategies))

	m.SetActiveStrategies(1)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ActiveStrategies))
}

func TestRecordStrategyTickObservesHistogram(t *testing.T) {
	m := New()
	m.RecordStrategyTick(5 * time.Microsecond)

	assert.Equal(t, 1, testutil.CollectAndCount(m.StrategyTickTime))
}

func TestRecordRiskEventIncrementsByReason(t *testing.T) {
	m := New()
	m.RecordRiskEvent("insufficient_funds")
	m.RecordRiskEvent("insufficient_funds")
	m.RecordRiskEvent("illegal_transition")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.RiskEvents.WithLabelValues("insufficient_funds")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RiskEvents.WithLabelValues("illegal_transition")))
}

func TestLoggerCountersIncrement(t *testing.T) {
	m := New()
	m.RecordLoggerBatchFlushed()
	m.RecordLoggerBatchFlushed()
	m.RecordLoggerMessageDropped()
	m.RecordLoggerFlushError()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.LoggerBatchesFlushed))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LoggerMessagesDropped))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LoggerFlushErrors))
}

func TestWrapperNoOpWhenDisabled(t *testing.T) {
	m := New()
	w := NewWrapper(m, false)

	w.RecordOrderSubmitted("BTC-USD", "BUY", "LIMIT")
	w.RecordRiskEvent("insufficient_funds")
	w.SetActiveStrategies(5)

	assert.Equal(t, float64(0), testutil.ToFloat64(m.OrdersSubmitted.WithLabelValues("BTC-USD", "BUY", "LIMIT")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.RiskEvents.WithLabelValues("insufficient_funds")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ActiveStrategies))
}

func TestWrapperDelegatesWhenEnabled(t *testing.T) {
	m := New()
	w := NewWrapper(m, true)

	w.RecordOrderFilled("BTC-USD", "SELL")
	w.RecordOrderCancelled("BTC-USD")
	w.RecordOrderRejected("BTC-USD", "margin")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.OrdersFilled.WithLabelValues("BTC-USD", "SELL")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.OrdersCancelled.WithLabelValues("BTC-USD")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.OrdersRejected.WithLabelValues("BTC-USD", "margin")))
}
