// Package chain implements strategy.Strategy for CHAIN: an order that,
// once a price or timeout trigger fires, is replaced by a fully different
// follow-up order. Ported from
// original_source/didius/src/strategy/chain.rs, generalized to the Go
// Strategy contract and to spec.md's resolution of the CHAIN open question:
// firing emits an explicit CancelOrder(original) alongside PlaceOrder(chained)
// rather than relying on the engine to infer the cancel.
package chain

import (
	"github.com/shopspring/decimal"
	"velocimex/internal/oms/order"
	"velocimex/internal/orderbook"
	"velocimex/internal/strategy"
)

// Strategy fires at most once: on fire it marks itself finished and returns
// the compound [CancelOrder(original), PlaceOrder(chained)] action.
type Strategy struct {
	strategy.Base

	OriginalOrderID  string
	TriggerPriceSide order.Side
	TriggerPrice     decimal.Decimal
	TriggerTimestamp float64 // epoch seconds; <= 0 disables the time trigger
	ChainedOrder     *order.Order

	finished bool
}

var _ strategy.Strategy = (*Strategy)(nil)

// New creates a ChainStrategy bound to originalOrderID, which fires when the
// book crosses triggerPrice on triggerPriceSide or when triggerTimestamp
// elapses, replacing originalOrderID with chainedOrder.
func New(originalOrderID string, triggerPriceSide order.Side, triggerPrice decimal.Decimal, triggerTimestamp float64, chainedOrder *order.Order) *Strategy {
	return &Strategy{
		OriginalOrderID:  originalOrderID,
		TriggerPriceSide: triggerPriceSide,
		TriggerPrice:     triggerPrice,
		TriggerTimestamp: triggerTimestamp,
		ChainedOrder:     chainedOrder,
	}
}

func (s *Strategy) checkTrigger(book *orderbook.Book) bool {
	if s.TriggerTimestamp > 0 && strategy.NowEpochSeconds() >= s.TriggerTimestamp {
		return true
	}
	if book == nil {
		return false
	}
	switch s.TriggerPriceSide {
	case order.Buy:
		if bid, _, ok := book.BestBid(); ok && bid.GreaterThanOrEqual(s.TriggerPrice) {
			return true
		}
	case order.Sell:
		if ask, _, ok := book.BestAsk(); ok && ask.LessThanOrEqual(s.TriggerPrice) {
			return true
		}
	}
	return false
}

func (s *Strategy) fire() []strategy.Action {
	s.finished = true
	chained := s.ChainedOrder.Clone()
	chained.State = order.Created
	return []strategy.Action{
		strategy.CancelOrder(s.OriginalOrderID),
		strategy.PlaceOrder(chained),
	}
}

func (s *Strategy) OnOrderBookUpdate(book *orderbook.Book) []strategy.Action {
	if s.finished {
		return []strategy.Action{strategy.None}
	}
	if s.checkTrigger(book) {
		return s.fire()
	}
	return []strategy.Action{strategy.None}
}

func (s *Strategy) OnTradeUpdate(decimal.Decimal) []strategy.Action {
	return []strategy.Action{strategy.None}
}

func (s *Strategy) OnTimer() []strategy.Action {
	if s.finished {
		return []strategy.Action{strategy.None}
	}
	if s.checkTrigger(nil) {
		return s.fire()
	}
	return []strategy.Action{strategy.None}
}

func (s *Strategy) IsCompleted() bool { return s.finished }

func (s *Strategy) GetOriginOrderID() (string, bool) { return s.OriginalOrderID, true }
