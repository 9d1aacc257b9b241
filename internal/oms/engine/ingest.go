package engine

import (
	"fmt"
	"time"

	"velocimex/internal/adapter"
	"velocimex/internal/decimalutil"
	"velocimex/internal/logger"
	"velocimex/internal/oms/order"
	"velocimex/internal/orderbook"
)

// dispatch is the single entry point for everything the adapter produces.
// It is only ever called from the listen goroutine, so messages are applied
// strictly in receive order.
func (e *Engine) dispatch(msg adapter.IncomingMessage) {
	switch m := msg.(type) {
	case adapter.OrderBookSnapshot:
		e.onBookSnapshot(m)
	case adapter.OrderBookDelta:
		e.onBookDelta(m)
	case adapter.Trade:
		e.onTrade(m)
	case adapter.OrderAck:
		e.onOrderAck(m)
	case adapter.OrderFill:
		e.onOrderFill(m)
	case adapter.OrderCanceled:
		e.onOrderCanceled(m)
	case adapter.OrderRejected:
		e.onOrderRejected(m)
	case adapter.AccountUpdate:
		e.onAccountUpdate(m)
	}
}

func toLevels(src []adapter.Level) []orderbook.Level {
	out := make([]orderbook.Level, len(src))
	for i, l := range src {
		out[i] = orderbook.Level{Price: l.Price, Qty: l.Qty}
	}
	return out
}

func (e *Engine) onBookSnapshot(m adapter.OrderBookSnapshot) {
	book := e.books.GetOrderBook(m.Symbol)
	book.ApplySnapshot(toLevels(m.Bids), toLevels(m.Asks), m.Ts)
	e.broadcastBookUpdate(m.Symbol, book)
}

func (e *Engine) onBookDelta(m adapter.OrderBookDelta) {
	book := e.books.GetOrderBook(m.Symbol)
	side := orderbook.Bid
	if m.Side == adapter.SideAsk {
		side = orderbook.Ask
	}
	book.ApplyDelta(side, m.Price, m.Qty, m.Ts)
	e.broadcastBookUpdate(m.Symbol, book)
}

func (e *Engine) broadcastBookUpdate(symbol string, book *orderbook.Book) {
	for _, rec := range e.recordsForSymbol(symbol) {
		e.runHook(rec, rec.strat.OnOrderBookUpdate(book))
	}
}

func (e *Engine) onTrade(m adapter.Trade) {
	for _, rec := range e.recordsForSymbol(m.Symbol) {
		e.runHook(rec, rec.strat.OnTradeUpdate(m.Price))
	}
	e.log.LogTrade(m.Symbol, m.Price.String())
}

// transition moves o to next if legal, logging and refusing otherwise.
// Caller must hold e.ordersMu.
func (e *Engine) transition(o *order.Order, next order.State) bool {
	if !order.CanTransition(o.State, next) {
		e.log.LogDiagnostic(fmt.Sprintf("refused illegal transition for %s: %s -> %s", o.ClientOID, o.State, next))
		return false
	}
	o.State = next
	o.UpdatedAt = time.Now()
	return true
}

func (e *Engine) onOrderAck(m adapter.OrderAck) {
	e.ordersMu.Lock()
	o, ok := e.orders[m.ClientOID]
	if !ok {
		e.ordersMu.Unlock()
		e.log.LogDiagnostic(fmt.Sprintf("ack for unknown order %s", m.ClientOID))
		return
	}
	venueID := m.VenueID
	o.OrderID = &venueID
	e.transition(o, order.Ack)
	snapshot := o.Clone()
	e.ordersMu.Unlock()

	e.log.LogOrder(logger.OrderRecord{ClientOID: snapshot.ClientOID, OrderID: venueID, Symbol: snapshot.Symbol, State: string(snapshot.State)})
	e.notifyOrderStatus(snapshot)
}

func (e *Engine) onOrderFill(m adapter.OrderFill) {
	e.ordersMu.Lock()
	o, ok := e.orders[m.ClientOID]
	if !ok {
		e.ordersMu.Unlock()
		e.log.LogDiagnostic(fmt.Sprintf("fill for unknown order %s", m.ClientOID))
		return
	}

	o.AvgFillPrice = decimalutil.VWAP(o.FilledQuantity, o.AvgFillPrice, m.FillQty, m.FillPrice)
	o.FilledQuantity += m.FillQty

	next := order.Partial
	if o.FilledQuantity >= o.Quantity {
		next = order.Filled
	}
	e.transition(o, next)
	if next == order.Filled {
		e.account.RemoveOpenOrder(o.ClientOID)
	}
	snapshot := o.Clone()
	e.ordersMu.Unlock()

	e.log.LogOrder(logger.OrderRecord{ClientOID: snapshot.ClientOID, Symbol: snapshot.Symbol, State: string(snapshot.State)})
	e.notifyOrderStatus(snapshot)
}

func (e *Engine) onOrderCanceled(m adapter.OrderCanceled) {
	e.ordersMu.Lock()
	o, ok := e.orders[m.ClientOID]
	if !ok {
		e.ordersMu.Unlock()
		e.log.LogDiagnostic(fmt.Sprintf("cancel confirmation for unknown order %s", m.ClientOID))
		return
	}
	e.transition(o, order.Canceled)
	e.account.RemoveOpenOrder(o.ClientOID)
	snapshot := o.Clone()
	e.ordersMu.Unlock()

	e.log.LogOrder(logger.OrderRecord{ClientOID: snapshot.ClientOID, Symbol: snapshot.Symbol, State: string(snapshot.State)})
	e.notifyOrderStatus(snapshot)
}

func (e *Engine) onOrderRejected(m adapter.OrderRejected) {
	e.ordersMu.Lock()
	o, ok := e.orders[m.ClientOID]
	if !ok {
		e.ordersMu.Unlock()
		e.log.LogDiagnostic(fmt.Sprintf("rejection for unknown order %s", m.ClientOID))
		return
	}
	o.ErrorMessage = m.Reason
	e.transition(o, order.Rejected)
	e.account.RemoveOpenOrder(o.ClientOID)
	snapshot := o.Clone()
	e.ordersMu.Unlock()

	e.log.LogOrder(logger.OrderRecord{ClientOID: snapshot.ClientOID, Symbol: snapshot.Symbol, State: string(snapshot.State)})
	e.notifyOrderStatus(snapshot)
}

func (e *Engine) onAccountUpdate(m adapter.AccountUpdate) {
	if m.HasBalance {
		e.account.SetBalance(m.Balance)
	}
	for symbol, delta := range m.PositionDelta {
		e.account.ApplyPositionDelta(symbol, delta)
	}
}

// notifyOrderStatus routes an order state transition to the strategy that
// owns it, if any, and applies whatever actions it returns.
func (e *Engine) notifyOrderStatus(o *order.Order) {
	rec, ok := e.recordFor(o.ClientOID)
	if !ok {
		return
	}
	e.runHook(rec, rec.strat.OnOrderStatusUpdate(o))
}
