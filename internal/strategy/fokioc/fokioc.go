// Package fokioc provides the FOK/IOC extension slots spec.md reserves in
// ExecutionStrategy. The core's Non-goals exclude matching-engine behaviour,
// so immediate-or-cancel/fill-or-kill semantics (which only the venue's
// matching engine can actually enforce) are not modeled here — this
// strategy behaves like limit.Strategy, finishing once its origin order
// reaches a terminal state, and exists so ExecutionStrategyFOK/IOC tags
// resolve to a concrete Strategy object rather than an engine error.
package fokioc

import (
	"github.com/shopspring/decimal"
	"velocimex/internal/oms/order"
	"velocimex/internal/orderbook"
	"velocimex/internal/strategy"
)

// Strategy is the FOK/IOC placeholder strategy.
type Strategy struct {
	strategy.Base

	OriginalOrderID string
	finished        bool
}

var _ strategy.Strategy = (*Strategy)(nil)

// New creates a placeholder FOK/IOC strategy bound to originalOrderID.
func New(originalOrderID string) *Strategy {
	return &Strategy{OriginalOrderID: originalOrderID}
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
