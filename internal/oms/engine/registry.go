package engine

import "velocimex/internal/strategy"

// strategyRecord pairs a live strategy instance with the symbol it watches,
// so book/trade events can be routed only to the strategies that care about
// them. Records are removed the moment their strategy reports IsCompleted,
// which is the invariant behind GetActiveStrategyOrderIDs: after every
// engine tick, the registry holds exactly the non-completed strategies.
type strategyRecord struct {
	id     string
	symbol string
	strat  strategy.Strategy
}

// register adds strat to the registry under a fresh record id and points
// clientOID at it. Returns the record id.
func (e *Engine) register(clientOID, symbol string, strat strategy.Strategy) string {
	e.stratMu.Lock()
	defer e.stratMu.Unlock()

	id := clientOID
	e.strategies[id] = &strategyRecord{id: id, symbol: symbol, strat: strat}
	e.orderOwner[clientOID] = id
	return id
}

// recordFor returns the strategy record owning clientOID, if any.
func (e *Engine) recordFor(clientOID string) (*strategyRecord, bool) {
	e.stratMu.RLock()
	defer e.stratMu.RUnlock()

	id, ok := e.orderOwner[clientOID]
	if !ok {
		return nil, false
	}
	rec, ok := e.strategies[id]
	return rec, ok
}

// rebind moves ownership of a strategy record from oldClientOID to
// newClientOID, used by the ModifyPrice cancel-then-replace flow so the
// strategy's lineage follows the replacement order.
func (e *Engine) rebind(oldClientOID, newClientOID string) {
	e.stratMu.Lock()
	defer e.stratMu.Unlock()

	id, ok := e.orderOwner[oldClientOID]
	if !ok {
		return
	}
	delete(e.orderOwner, oldClientOID)
	e.orderOwner[newClientOID] = id
	if rec, ok := e.strategies[id]; ok {
		rec.id = newClientOID
	}
}

// recordsForSymbol returns every active record watching symbol.
func (e *Engine) recordsForSymbol(symbol string) []*strategyRecord {
	e.stratMu.RLock()
	defer e.stratMu.RUnlock()

	out := make([]*strategyRecord, 0, len(e.strategies))
	for _, rec := range e.strategies {
		if rec.symbol == symbol {
			out = append(out, rec)
		}
	}
	return out
}

// allRecords returns every active record, used for the periodic timer tick.
func (e *Engine) allRecords() []*strategyRecord {
	e.stratMu.RLock()
	defer e.stratMu.RUnlock()

	out := make([]*strategyRecord, 0, len(e.strategies))
	for _, rec := range e.strategies {
		out = append(out, rec)
	}
	return out
}

// pruneCompleted removes every record whose strategy reports IsCompleted,
// along with its orderOwner entries. Called after any hook dispatch that
// leaves its strategy completed, so the active-strategy invariant holds
// continuously, not just on a timer.
func (e *Engine) pruneCompleted() {
	e.stratMu.Lock()
	defer e.stratMu.Unlock()

	for id, rec := range e.strategies {
		if rec.strat.IsCompleted() {
			delete(e.strategies, id)
			for cid, owner := range e.orderOwner {
				if owner == id {
					delete(e.orderOwner, cid)
				}
			}
		}
	}
}

// activeStrategyOrderIDs returns the origin order id of every active
// strategy, used by GetActiveStrategyOrderIDs and by tests asserting the
// active-strategy-set invariant.
func (e *Engine) activeStrategyOrderIDs() []string {
	e.stratMu.RLock()
	defer e.stratMu.RUnlock()

	out := make([]string, 0, len(e.strategies))
	for _, rec := range e.strategies {
		if id, ok := rec.strat.GetOriginOrderID(); ok {
			out = append(out, id)
		}
	}
	return out
}
