// Package limit implements strategy.Strategy for a plain LIMIT (or
// NONE-tagged) order: it produces no market-driven action and simply
// finishes once its origin order reaches a terminal state. Ported from
// original_source/src/strategy/limit.rs.
package limit

import (
	"github.com/shopspring/decimal"
	"velocimex/internal/oms/order"
	"velocimex/internal/orderbook"
	"velocimex/internal/strategy"
)

// Strategy owns the order it was created for and finishes when that order
// reaches FILLED, CANCELED or REJECTED.
type Strategy struct {
	strategy.Base

	OriginalOrderID string
	Symbol          string
	Side            order.Side
	Quantity        int64
	Price           decimal.Decimal

	finished bool
}

var _ strategy.Strategy = (*Strategy)(nil)

// New creates a LimitStrategy bound to originalOrderID.
func New(originalOrderID, symbol string, side order.Side, qty int64, price decimal.Decimal) *Strategy {
	return &Strategy{
		OriginalOrderID: originalOrderID,
		Symbol:          symbol,
		Side:            side,
		Quantity:        qty,
		Price:           price,
	}
}

func (s *Strategy) OnOrderBookUpdate(*orderbook.Book) []strategy.Action {
	return []strategy.Action{strategy.None}
}

func (s *Strategy) OnTradeUpdate(decimal.Decimal) []strategy.Action {
	return []strategy.Action{strategy.None}
}

func (s *Strategy) OnOrderStatusUpdate(o *order.Order) []strategy.Action {
	if o.ClientOID == s.OriginalOrderID {
		switch o.State {
		case order.Filled, order.Canceled, order.Rejected:
			s.finished = true
		}
	}
	return []strategy.Action{strategy.None}
}

func (s *Strategy) IsCompleted() bool { return s.finished }

func (s *Strategy) GetOriginOrderID() (string, bool) { return s.OriginalOrderID, true }

func (s *Strategy) UpdateOrderID(newID string) { s.OriginalOrderID = newID }
