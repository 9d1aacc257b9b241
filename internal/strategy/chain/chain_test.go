package chain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"velocimex/internal/oms/order"
	"velocimex/internal/orderbook"
	"velocimex/internal/strategy"
)

func TestFiresOnPriceTrigger(t *testing.T) {
	chained := &order.Order{ClientOID: "chained", Symbol: "BTC-USD", Side: order.Buy, OrderType: order.Limit, Quantity: 1, Price: decimal.NewFromInt(105)}
	s := New("orig", order.Buy, decimal.NewFromInt(101), 0, chained)

	book := orderbook.New("BTC-USD")
	book.ApplySnapshot(
		[]orderbook.Level{{Price: decimal.NewFromInt(102), Qty: decimal.NewFromInt(1)}},
		nil,
		time.Now(),
	)

	actions := s.OnOrderBookUpdate(book)
	assert.Len(t, actions, 2)
	assert.Equal(t, strategy.KindCancelOrder, actions[0].Kind)
	assert.Equal(t, "orig", actions[0].OrderID)
	assert.Equal(t, strategy.KindPlaceOrder, actions[1].Kind)
	assert.True(t, actions[1].Order.Price.Equal(decimal.NewFromInt(105)))
	assert.Equal(t, order.Created, actions[1].Order.State)
	assert.True(t, s.IsCompleted())

	// Firing is exactly-once: a further book update is a no-op.
	actions = s.OnOrderBookUpdate(book)
	assert.Equal(t, []strategy.Action{strategy.None}, actions)
}

func TestFiresOnTimeout(t *testing.T) {
	chained := &order.Order{ClientOID: "chained", Symbol: "BTC-USD", Side: order.Buy, OrderType: order.Limit, Quantity: 1, Price: decimal.NewFromInt(105)}
	past := strategy.NowEpochSeconds() - 1
	s := New("orig", order.Buy, decimal.NewFromInt(1_000_000), past, chained)

	actions := s.OnTimer()
	assert.Len(t, actions, 2)
	assert.True(t, s.IsCompleted())
}

func TestDoesNotFireBeforeTrigger(t *testing.T) {
	chained := &order.Order{ClientOID: "chained", Symbol: "BTC-USD", Side: order.Buy, OrderType: order.Limit, Quantity: 1, Price: decimal.NewFromInt(105)}
	future := strategy.NowEpochSeconds() + 1e9
	s := New("orig", order.Buy, decimal.NewFromInt(101), future, chained)

	book := orderbook.New("BTC-USD")
	book.ApplySnapshot(
		[]orderbook.Level{{Price: decimal.NewFromInt(100), Qty: decimal.NewFromInt(1)}},
		nil,
		time.Now(),
	)

	actions := s.OnOrderBookUpdate(book)
	assert.Equal(t, []strategy.Action{strategy.None}, actions)
	assert.False(t, s.IsCompleted())
}
