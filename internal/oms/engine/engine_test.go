package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"velocimex/internal/adapter"
	"velocimex/internal/logger"
	"velocimex/internal/oms/order"
)

// fakeAdapter is an in-memory Adapter used only by this package's tests. It
// never runs network I/O; the test drives it by calling push directly on
// the monitor channel and asserting against submitted/canceled.
type fakeAdapter struct {
	mu        sync.Mutex
	monitor   chan<- adapter.IncomingMessage
	submitted []*order.Order
	canceled  []string
	submitErr error
}

func newFakeAdapter() *fakeAdapter { return &fakeAdapter{} }

func (f *fakeAdapter) Connect() error    { return nil }
func (f *fakeAdapter) Disconnect() error { return nil }
func (f *fakeAdapter) SetMonitor(ch chan<- adapter.IncomingMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.monitor = ch
}
func (f *fakeAdapter) SubscribeMarket([]string) error { return nil }
func (f *fakeAdapter) SetDebugMode(bool)              {}

func (f *fakeAdapter) SubmitOrder(o *order.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, o.Clone())
	return nil
}

func (f *fakeAdapter) CancelOrder(venueOrderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canceled = append(f.canceled, venueOrderID)
	return nil
}

func (f *fakeAdapter) push(m adapter.IncomingMessage) {
	f.monitor <- m
}

func (f *fakeAdapter) submittedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submitted)
}

func (f *fakeAdapter) lastSubmitted() *order.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.submitted) == 0 {
		return nil
	}
	return f.submitted[len(f.submitted)-1]
}

func newTestEngine(t *testing.T, opts ...func(*Engine)) (*Engine, *fakeAdapter) {
	t.Helper()
	fa := newFakeAdapter()
	lg, err := logger.New(logger.Config{
		Destination:          logger.Destination{Kind: logger.DestinationConsole},
		FlushIntervalSeconds: 60,
		BatchSize:            1000,
		ChannelBufferSize:    1000,
	})
	require.NoError(t, err)
	lg.Start()
	t.Cleanup(lg.Stop)

	e := New(fa, decimal.NewFromFloat(0.1), lg)
	e.SeedBalance(decimal.NewFromInt(100000))
	for _, opt := range opts {
		opt(e)
	}
	require.NoError(t, e.Start())
	t.Cleanup(func() { _ = e.Stop() })
	return e, fa
}

func withTickInterval(d time.Duration) func(*Engine) {
	return func(e *Engine) { e.tickInterval = d }
}

func TestLimitOrderHappyPath(t *testing.T) {
	e, fa := newTestEngine(t)

	o, err := e.SendOrder(NewOrderRequest{
		Symbol: "BTC-USD", Side: order.Buy, OrderType: order.Limit,
		Quantity: 1, Price: decimal.NewFromInt(100), HasPrice: true,
		Strategy: order.StrategyLimit,
	})
	require.NoError(t, err)
	assert.Equal(t, order.Submitted, o.State)

	fa.push(adapter.OrderAck{ClientOID: o.ClientOID, VenueID: "V1"})
	fa.push(adapter.OrderFill{ClientOID: o.ClientOID, FillQty: 1, FillPrice: decimal.NewFromInt(100)})

	require.Eventually(t, func() bool {
		got, ok := e.GetOrder(o.ClientOID)
		return ok && got.State == order.Filled
	}, time.Second, 5*time.Millisecond)

	got, _ := e.GetOrder(o.ClientOID)
	assert.Equal(t, int64(1), got.FilledQuantity)
	assert.True(t, got.AvgFillPrice.Equal(decimal.NewFromInt(100)))

	require.Eventually(t, func() bool {
		return len(e.GetActiveStrategyOrderIDs()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestCancelPath(t *testing.T) {
	e, fa := newTestEngine(t)

	o, err := e.SendOrder(NewOrderRequest{
		Symbol: "BTC-USD", Side: order.Buy, OrderType: order.Limit,
		Quantity: 1, Price: decimal.NewFromInt(100), HasPrice: true,
		Strategy: order.StrategyLimit,
	})
	require.NoError(t, err)

	fa.push(adapter.OrderAck{ClientOID: o.ClientOID, VenueID: "V1"})
	require.Eventually(t, func() bool {
		got, ok := e.GetOrder(o.ClientOID)
		return ok && got.State == order.Ack
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, e.CancelOrder(o.ClientOID))
	got, _ := e.GetOrder(o.ClientOID)
	assert.Equal(t, order.PendingCancel, got.State)

	fa.push(adapter.OrderCanceled{ClientOID: o.ClientOID})
	require.Eventually(t, func() bool {
		got, ok := e.GetOrder(o.ClientOID)
		return ok && got.State == order.Canceled
	}, time.Second, 5*time.Millisecond)

	// A second cancel on a terminal order is refused.
	assert.Error(t, e.CancelOrder(o.ClientOID))
}

func TestInsufficientFundsRejected(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SeedBalance(decimal.NewFromInt(1))

	_, err := e.SendOrder(NewOrderRequest{
		Symbol: "BTC-USD", Side: order.Buy, OrderType: order.Limit,
		Quantity: 100, Price: decimal.NewFromInt(100), HasPrice: true,
		Strategy: order.StrategyLimit,
	})
	assert.Error(t, err)
}

func TestMarketOrderMarginCheckUsesBestAsk(t *testing.T) {
	e, fa := newTestEngine(t)
	e.SeedBalance(decimal.NewFromInt(1))

	fa.push(adapter.OrderBookSnapshot{
		Symbol: "BTC-USD",
		Asks:   []adapter.Level{{Price: decimal.NewFromInt(100), Qty: decimal.NewFromInt(5)}},
		Ts:     time.Now(),
	})
	require.Eventually(t, func() bool {
		_, _, ok := e.GetOrderBook("BTC-USD").BestAsk()
		return ok
	}, time.Second, 5*time.Millisecond)

	_, err := e.SendOrder(NewOrderRequest{
		Symbol: "BTC-USD", Side: order.Buy, OrderType: order.Market,
		Quantity: 10, Strategy: order.StrategyLimit,
	})
	assert.Error(t, err, "market order notional priced off best ask should still be margin-checked")
}

func TestMarketOrderMarginCheckPassesWithSufficientFunds(t *testing.T) {
	e, fa := newTestEngine(t)

	fa.push(adapter.OrderBookSnapshot{
		Symbol: "BTC-USD",
		Asks:   []adapter.Level{{Price: decimal.NewFromInt(100), Qty: decimal.NewFromInt(5)}},
		Ts:     time.Now(),
	})
	require.Eventually(t, func() bool {
		_, _, ok := e.GetOrderBook("BTC-USD").BestAsk()
		return ok
	}, time.Second, 5*time.Millisecond)

	o, err := e.SendOrder(NewOrderRequest{
		Symbol: "BTC-USD", Side: order.Buy, OrderType: order.Market,
		Quantity: 1, Strategy: order.StrategyLimit,
	})
	require.NoError(t, err)
	assert.Equal(t, order.Submitted, o.State)
}

func TestChainTriggersOnPrice(t *testing.T) {
	e, fa := newTestEngine(t)

	chained := &order.Order{
		Symbol: "BTC-USD", Side: order.Sell, OrderType: order.Limit,
		Quantity: 1, Price: decimal.NewFromInt(120), Strategy: order.StrategyLimit,
	}
	o, err := e.SendOrder(NewOrderRequest{
		Symbol: "BTC-USD", Side: order.Buy, OrderType: order.Limit,
		Quantity: 1, Price: decimal.NewFromInt(100), HasPrice: true,
		Strategy: order.StrategyChain,
		Chain: &ChainRequest{
			TriggerSide:  order.Buy,
			TriggerPrice: decimal.NewFromInt(110),
			ChainedOrder: chained,
		},
	})
	require.NoError(t, err)

	fa.push(adapter.OrderBookSnapshot{
		Symbol: "BTC-USD",
		Bids:   []adapter.Level{{Price: decimal.NewFromInt(111), Qty: decimal.NewFromInt(5)}},
		Ts:     time.Now(),
	})

	require.Eventually(t, func() bool { return fa.submittedCount() >= 2 }, time.Second, 5*time.Millisecond)

	got, _ := e.GetOrder(o.ClientOID)
	assert.Equal(t, order.PendingCancel, got.State)

	follow := fa.lastSubmitted()
	require.NotNil(t, follow)
	assert.Equal(t, "BTC-USD", follow.Symbol)
	assert.Equal(t, order.Sell, follow.Side)
	assert.True(t, follow.Price.Equal(decimal.NewFromInt(120)))
}

func TestChainTriggersOnTimeout(t *testing.T) {
	e, fa := newTestEngine(t, withTickInterval(10*time.Millisecond))

	chained := &order.Order{
		Symbol: "BTC-USD", Side: order.Sell, OrderType: order.Limit,
		Quantity: 1, Price: decimal.NewFromInt(120), Strategy: order.StrategyLimit,
	}
	_, err := e.SendOrder(NewOrderRequest{
		Symbol: "BTC-USD", Side: order.Buy, OrderType: order.Limit,
		Quantity: 1, Price: decimal.NewFromInt(100), HasPrice: true,
		Strategy: order.StrategyChain,
		Chain: &ChainRequest{
			TriggerSide:      order.Buy,
			TriggerPrice:     decimal.NewFromInt(9999999),
			TriggerTimestamp: 1, // already elapsed (epoch second 1)
			ChainedOrder:     chained,
		},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return fa.submittedCount() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestStopModifiesPriceOnTrigger(t *testing.T) {
	e, fa := newTestEngine(t)

	o, err := e.SendOrder(NewOrderRequest{
		Symbol: "BTC-USD", Side: order.Sell, OrderType: order.Limit,
		Quantity: 1, Price: decimal.NewFromInt(100), HasPrice: true,
		Strategy: order.StrategyStop,
		Stop: &StopRequest{
			TriggerPrice:      decimal.NewFromInt(95),
			StopLimitPrice:    decimal.NewFromInt(90),
			HasStopLimitPrice: true,
		},
	})
	require.NoError(t, err)

	fa.push(adapter.OrderBookSnapshot{
		Symbol: "BTC-USD",
		Asks:   []adapter.Level{{Price: decimal.NewFromInt(94), Qty: decimal.NewFromInt(5)}},
		Ts:     time.Now(),
	})

	require.Eventually(t, func() bool { return fa.submittedCount() >= 2 }, time.Second, 5*time.Millisecond)

	got, _ := e.GetOrder(o.ClientOID)
	assert.Equal(t, order.PendingCancel, got.State)

	replacement := fa.lastSubmitted()
	require.NotNil(t, replacement)
	assert.True(t, replacement.Price.Equal(decimal.NewFromInt(90)))
	assert.NotEqual(t, o.ClientOID, replacement.ClientOID)

	// Confirm the replacement's lineage is now tracked: filling it retires
	// the strategy.
	fa.push(adapter.OrderAck{ClientOID: replacement.ClientOID, VenueID: "V2"})
	fa.push(adapter.OrderFill{ClientOID: replacement.ClientOID, FillQty: 1, FillPrice: decimal.NewFromInt(90)})

	require.Eventually(t, func() bool {
		return len(e.GetActiveStrategyOrderIDs()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestBestBidLessThanBestAskInvariantHoldsAfterCross(t *testing.T) {
	e, fa := newTestEngine(t)

	fa.push(adapter.OrderBookSnapshot{
		Symbol: "ETH-USD",
		Bids:   []adapter.Level{{Price: decimal.NewFromInt(101), Qty: decimal.NewFromInt(1)}},
		Asks:   []adapter.Level{{Price: decimal.NewFromInt(100), Qty: decimal.NewFromInt(1)}},
		Ts:     time.Now(),
	})

	require.Eventually(t, func() bool {
		book := e.GetOrderBook("ETH-USD")
		_, _, bidOK := book.BestBid()
		_, _, askOK := book.BestAsk()
		return !bidOK && !askOK
	}, time.Second, 5*time.Millisecond)
}
