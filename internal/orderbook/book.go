// Package orderbook maintains a per-symbol L2 projection: two decimal-keyed
// price ladders (bid/ask), the timestamp of the last update, and the
// best-bid/best-ask/top-N read operations the strategy framework and engine
// consult on every book event.
package orderbook

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Side identifies which ladder of the book an update applies to.
type Side string

const (
	Bid Side = "BID"
	Ask Side = "ASK"
)

// Level is a single price/quantity pair.
type Level struct {
	Price decimal.Decimal
	Qty   decimal.Decimal
}

// Book is a per-symbol order book. Every key in bids/asks has qty > 0;
// zero-qty levels are removed on update. Timestamp increases monotonically
// per symbol — updates older than the last applied timestamp are discarded.
type Book struct {
	Symbol string

	mu        sync.RWMutex
	bids      map[string]decimal.Decimal // price.String() -> qty
	asks      map[string]decimal.Decimal
	bidPrices map[string]decimal.Decimal // price.String() -> price, for sorting
	askPrices map[string]decimal.Decimal
	timestamp time.Time
}

// New creates an empty order book for symbol.
func New(symbol string) *Book {
	return &Book{
		Symbol:    symbol,
		bids:      make(map[string]decimal.Decimal),
		asks:      make(map[string]decimal.Decimal),
		bidPrices: make(map[string]decimal.Decimal),
		askPrices: make(map[string]decimal.Decimal),
	}
}

// ApplySnapshot atomically replaces the book with bids/asks as of ts. A
// snapshot older than the book's current timestamp is discarded.
func (b *Book) ApplySnapshot(bids, asks []Level, ts time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.timestamp.IsZero() && ts.Before(b.timestamp) {
		return
	}

	b.bids = make(map[string]decimal.Decimal, len(bids))
	b.bidPrices = make(map[string]decimal.Decimal, len(bids))
	for _, lvl := range bids {
		if lvl.Qty.IsZero() || lvl.Qty.IsNegative() {
			continue
		}
		key := lvl.Price.String()
		b.bids[key] = lvl.Qty
		b.bidPrices[key] = lvl.Price
	}

	b.asks = make(map[string]decimal.Decimal, len(asks))
	b.askPrices = make(map[string]decimal.Decimal, len(asks))
	for _, lvl := range asks {
		if lvl.Qty.IsZero() || lvl.Qty.IsNegative() {
			continue
		}
		key := lvl.Price.String()
		b.asks[key] = lvl.Qty
		b.askPrices[key] = lvl.Price
	}

	b.timestamp = ts
	b.resolveCross()
}

// ApplyDelta upserts or removes a single level. qty == 0 removes the level.
// A delta older than the book's current timestamp is discarded.
func (b *Book) ApplyDelta(side Side, price, qty decimal.Decimal, ts time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.timestamp.IsZero() && ts.Before(b.timestamp) {
		return
	}

	key := price.String()
	levels, prices := b.bids, b.bidPrices
	if side == Ask {
		levels, prices = b.asks, b.askPrices
	}

	if qty.IsZero() || qty.IsNegative() {
		delete(levels, key)
		delete(prices, key)
	} else {
		levels[key] = qty
		prices[key] = price
	}

	b.timestamp = ts
	b.resolveCross()
}

// resolveCross enforces best_bid < best_ask: a crossed book (best bid >=
// best ask) collapses to "no best" for both sides until corrected, per spec.
// Caller must hold b.mu.
func (b *Book) resolveCross() {
	bid, bidOK := b.bestLocked(b.bidPrices, true)
	ask, askOK := b.bestLocked(b.askPrices, false)
	if bidOK && askOK && !bid.LessThan(ask) {
		b.bids = make(map[string]decimal.Decimal)
		b.bidPrices = make(map[string]decimal.Decimal)
		b.asks = make(map[string]decimal.Decimal)
		b.askPrices = make(map[string]decimal.Decimal)
	}
}

func (b *Book) bestLocked(prices map[string]decimal.Decimal, highest bool) (decimal.Decimal, bool) {
	var best decimal.Decimal
	found := false
	for _, p := range prices {
		if !found {
			best = p
			found = true
			continue
		}
		if highest && p.GreaterThan(best) {
			best = p
		} else if !highest && p.LessThan(best) {
			best = p
		}
	}
	return best, found
}

// BestBid returns the highest bid price and its quantity, if any.
func (b *Book) BestBid() (decimal.Decimal, decimal.Decimal, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	price, ok := b.bestLocked(b.bidPrices, true)
	if !ok {
		return decimal.Zero, decimal.Zero, false
	}
	return price, b.bids[price.String()], true
}

// BestAsk returns the lowest ask price and its quantity, if any.
func (b *Book) BestAsk() (decimal.Decimal, decimal.Decimal, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	price, ok := b.bestLocked(b.askPrices, false)
	if !ok {
		return decimal.Zero, decimal.Zero, false
	}
	return price, b.asks[price.String()], true
}

// TopN returns the top n levels on the given side, best price first.
func (b *Book) TopN(side Side, n int) []Level {
	b.mu.RLock()
	defer b.mu.RUnlock()

	levels, prices, highest := b.bids, b.bidPrices, true
	if side == Ask {
		levels, prices, highest = b.asks, b.askPrices, false
	}

	sorted := make([]decimal.Decimal, 0, len(prices))
	for _, p := range prices {
		sorted = append(sorted, p)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if highest {
			return sorted[i].GreaterThan(sorted[j])
		}
		return sorted[i].LessThan(sorted[j])
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]Level, 0, n)
	for _, p := range sorted[:n] {
		out = append(out, Level{Price: p, Qty: levels[p.String()]})
	}
	return out
}

// Timestamp returns the timestamp of the last applied update.
func (b *Book) Timestamp() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.timestamp
}
