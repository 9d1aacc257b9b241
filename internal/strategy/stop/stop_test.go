package stop

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"velocimex/internal/oms/order"
	"velocimex/internal/orderbook"
	"velocimex/internal/strategy"
)

func TestModifyPriceOnTriggerThenSilent(t *testing.T) {
	s := New("orig", "BTC-USD", order.Buy, 1, decimal.NewFromInt(101), 0, decimal.NewFromInt(110), true)

	book := orderbook.New("BTC-USD")
	book.ApplySnapshot(
		[]orderbook.Level{{Price: decimal.NewFromInt(101), Qty: decimal.NewFromInt(1)}},
		nil,
		time.Now(),
	)

	actions := s.OnOrderBookUpdate(book)
	assert.Len(t, actions, 1)
	assert.Equal(t, strategy.KindModifyPrice, actions[0].Kind)
	assert.Equal(t, "orig", actions[0].OrderID)
	assert.True(t, actions[0].NewPrice.Equal(decimal.NewFromInt(110)))

	// Second update after trigger: no second modify.
	actions = s.OnOrderBookUpdate(book)
	assert.Equal(t, []strategy.Action{strategy.None}, actions)
}

func TestUpdateOrderIDRebindsLineage(t *testing.T) {
	s := New("orig", "BTC-USD", order.Buy, 1, decimal.NewFromInt(101), 0, decimal.NewFromInt(110), true)
	s.UpdateOrderID("replacement")

	o := &order.Order{ClientOID: "replacement", State: order.Filled}
	actions := s.OnOrderStatusUpdate(o)
	assert.Len(t, actions, 1)
	assert.Equal(t, strategy.KindRemoveOrder, actions[0].Kind)
	assert.True(t, s.IsCompleted())
}

func TestCanceledLineageWarnsAndFinishes(t *testing.T) {
	var warned string
	s := New("orig", "BTC-USD", order.Buy, 1, decimal.NewFromInt(101), 0, decimal.NewFromInt(110), true)
	s.Warn = func(msg string) { warned = msg }

	o := &order.Order{ClientOID: "orig", State: order.Canceled}
	actions := s.OnOrderStatusUpdate(o)
	assert.Equal(t, strategy.KindRemoveOrder, actions[0].Kind)
	assert.True(t, s.IsCompleted())
	assert.NotEmpty(t, warned)
}
