package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"velocimex/internal/logger"
	"velocimex/internal/oms/order"
	"velocimex/internal/strategy"
)

// runHook applies the actions a strategy hook returned, then prunes the
// record if the strategy is now complete. Every strategy.Strategy hook call
// in this package flows through runHook so the active-strategy invariant
// never lapses between dispatches.
func (e *Engine) runHook(rec *strategyRecord, actions []strategy.Action) {
	for _, a := range actions {
		e.applyAction(rec, a)
	}
	if rec.strat.IsCompleted() {
		e.pruneCompleted()
	}
}

func (e *Engine) applyAction(rec *strategyRecord, a strategy.Action) {
	switch a.Kind {
	case strategy.KindNone:
		return

	case strategy.KindPlaceOrder:
		e.applyPlaceOrder(a.Order)

	case strategy.KindCancelOrder:
		if err := e.CancelOrder(a.OrderID); err != nil {
			e.log.LogDiagnostic(fmt.Sprintf("strategy cancel action failed for %s: %v", a.OrderID, err))
		}

	case strategy.KindModifyPrice:
		e.applyModifyPrice(rec, a)

	case strategy.KindRemoveOrder:
		// The origin order is already terminal; nothing further to do at
		// the venue. Pruning happens in runHook once IsCompleted is true.
	}

	if a.Kind != strategy.KindNone {
		e.log.LogStrategySignal(logger.StrategySignalRecord{OrderID: a.OrderID, Kind: fmt.Sprintf("%d", a.Kind)})
	}
}

// applyPlaceOrder submits a brand-new order on a strategy's behalf (CHAIN's
// follow-up order). The new order gets its own client_oid and its own
// strategy record, built from the order's own Strategy tag; CHAIN's
// follow-up is never itself chained.
func (e *Engine) applyPlaceOrder(o *order.Order) {
	o.ClientOID = uuid.New().String()
	o.State = order.Created
	o.CreatedAt = time.Now()
	o.UpdatedAt = time.Now()
	if o.StrategyParams == nil {
		o.StrategyParams = make(map[string]string)
	}

	if err := e.checkMargin(o); err != nil {
		e.log.LogDiagnostic(fmt.Sprintf("chained order rejected by margin check: %v", err))
		return
	}

	strat, err := e.instantiate(o, NewOrderRequest{Strategy: o.Strategy})
	if err != nil {
		// No CHAIN/STOP parameters travel with the follow-up order (those are
		// only attached at SendOrder time), so this fails for a CHAIN or STOP
		// tag as well as for an unrecognized one; the follow-up is dropped.
		e.log.LogDiagnostic(fmt.Sprintf("chained order strategy instantiation failed: %v", err))
		return
	}

	o.State = order.Submitted
	o.UpdatedAt = time.Now()

	e.ordersMu.Lock()
	e.orders[o.ClientOID] = o
	e.ordersMu.Unlock()

	e.account.AddOpenOrder(o.ClientOID)
	e.register(o.ClientOID, o.Symbol, strat)

	if err := e.adapter.SubmitOrder(o); err != nil {
		e.log.LogDiagnostic(fmt.Sprintf("chained order submit failed for %s: %v", o.ClientOID, err))
		return
	}
	e.log.LogOrder(logger.OrderRecord{ClientOID: o.ClientOID, Symbol: o.Symbol, State: string(o.State)})
}

// applyModifyPrice implements STOP's cancel-then-replace-with-rebind flow:
// the original order is canceled at the venue, a replacement is submitted
// at the new price (or as a market order when a.HasNewPrice is false), and
// the strategy's lineage is rebound to the replacement's client_oid so
// later OnOrderStatusUpdate calls land on the right order.
func (e *Engine) applyModifyPrice(rec *strategyRecord, a strategy.Action) {
	e.ordersMu.Lock()
	original, ok := e.orders[a.OrderID]
	if !ok {
		e.ordersMu.Unlock()
		e.log.LogDiagnostic(fmt.Sprintf("modify-price action referenced unknown order %s", a.OrderID))
		return
	}
	replacement := original.Clone()
	e.ordersMu.Unlock()

	if err := e.CancelOrder(a.OrderID); err != nil {
		e.log.LogDiagnostic(fmt.Sprintf("modify-price cancel failed for %s: %v", a.OrderID, err))
	}

	replacement.ClientOID = uuid.New().String()
	replacement.State = order.Created
	replacement.FilledQuantity = 0
	replacement.CreatedAt = time.Now()
	replacement.UpdatedAt = time.Now()
	if a.HasNewPrice {
		replacement.Price = a.NewPrice
		replacement.OrderType = order.Limit
	} else {
		replacement.OrderType = order.Market
	}

	if err := e.checkMargin(replacement); err != nil {
		e.log.LogDiagnostic(fmt.Sprintf("stop replacement order rejected by margin check: %v", err))
		return
	}

	replacement.State = order.Submitted
	replacement.UpdatedAt = time.Now()

	e.ordersMu.Lock()
	e.orders[replacement.ClientOID] = replacement
	e.ordersMu.Unlock()

	e.account.AddOpenOrder(replacement.ClientOID)
	e.rebind(a.OrderID, replacement.ClientOID)
	rec.strat.UpdateOrderID(replacement.ClientOID)

	if err := e.adapter.SubmitOrder(replacement); err != nil {
		e.log.LogDiagnostic(fmt.Sprintf("stop replacement submit failed for %s: %v", replacement.ClientOID, err))
		return
	}
	e.log.LogOrder(logger.OrderRecord{ClientOID: replacement.ClientOID, Symbol: replacement.Symbol, State: string(replacement.State)})
}
