// Package stop implements strategy.Strategy for STOP: a resting order whose
// price is replaced once a trigger fires, then tracked through to its own
// terminal state. Ported from original_source/src/strategy/stop.rs.
package stop

import (
	"github.com/shopspring/decimal"
	"velocimex/internal/oms/order"
	"velocimex/internal/orderbook"
	"velocimex/internal/strategy"
)

// Strategy triggers at most once (book- or timer-driven) and returns
// ModifyPrice(original, stopLimitPrice); subsequent book/timer events are
// None. Once the (possibly rebound) lineage order reaches a terminal state
// it emits RemoveOrder and finishes.
type Strategy struct {
	strategy.Base

	OriginalOrderID string
	OriginalSymbol  string
	OriginalSide    order.Side
	OriginalQty     int64

	TriggerPrice     decimal.Decimal
	TriggerTimestamp float64 // epoch seconds; <= 0 disables the time trigger

	StopLimitPrice    decimal.Decimal
	HasStopLimitPrice bool // false => replacement is a market order

	// Warn is called once if the lineage order is externally canceled or
	// rejected rather than filled, matching the original's stderr warning —
	// routed through the engine's logger instead of stderr directly.
	Warn func(msg string)

	triggered bool
	finished  bool
}

var _ strategy.Strategy = (*Strategy)(nil)

// New creates a StopStrategy bound to originalOrderID.
func New(originalOrderID, originalSymbol string, originalSide order.Side, originalQty int64, triggerPrice decimal.Decimal, triggerTimestamp float64, stopLimitPrice decimal.Decimal, hasStopLimitPrice bool) *Strategy {
	return &Strategy{
		OriginalOrderID:   originalOrderID,
		OriginalSymbol:    originalSymbol,
		OriginalSide:      originalSide,
		OriginalQty:       originalQty,
		TriggerPrice:      triggerPrice,
		TriggerTimestamp:  triggerTimestamp,
		StopLimitPrice:    stopLimitPrice,
		HasStopLimitPrice: hasStopLimitPrice,
	}
}

func (s *Strategy) checkTrigger(book *orderbook.Book) bool {
	if s.TriggerTimestamp > 0 && strategy.NowEpochSeconds() >= s.TriggerTimestamp {
		return true
	}
	if book == nil {
		return false
	}
	switch s.OriginalSide {
	case order.Sell:
		if ask, _, ok := book.BestAsk(); ok && ask.LessThanOrEqual(s.TriggerPrice) {
			return true
		}
	case order.Buy:
		if bid, _, ok := book.BestBid(); ok && bid.GreaterThanOrEqual(s.TriggerPrice) {
			return true
		}
	}
	return false
}

func (s *Strategy) fire() []strategy.Action {
	s.triggered = true
	return []strategy.Action{strategy.ModifyPrice(s.OriginalOrderID, s.StopLimitPrice, s.HasStopLimitPrice)}
}

func (s *Strategy) OnOrderBookUpdate(book *orderbook.Book) []strategy.Action {
	if s.triggered || s.finished {
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
	if s.triggered || s.finished {
		return []strategy.Action{strategy.None}
	}
	if s.checkTrigger(nil) {
		return s.fire()
	}
	return []strategy.Action{strategy.None}
}

func (s *Strategy) OnOrderStatusUpdate(o *order.Order) []strategy.Action {
	if o.ClientOID != s.OriginalOrderID {
		return []strategy.Action{strategy.None}
	}

	switch o.State {
	case order.Filled:
		s.finished = true
		return []strategy.Action{strategy.RemoveOrder(s.OriginalOrderID)}
	case order.Canceled, order.Rejected:
		if s.Warn != nil {
			s.Warn("StopStrategy: order " + s.OriginalOrderID + " canceled/rejected; removing from OMS")
		}
		s.finished = true
		return []strategy.Action{strategy.RemoveOrder(s.OriginalOrderID)}
	}
	return []strategy.Action{strategy.None}
}

func (s *Strategy) IsCompleted() bool { return s.finished }

func (s *Strategy) GetOriginOrderID() (string, bool) { return s.OriginalOrderID, true }

func (s *Strategy) UpdateOrderID(newID string) { s.OriginalOrderID = newID }
