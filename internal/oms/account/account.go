// Package account holds the OMS's account/position projection: balance,
// signed positions per symbol, and the set of open order ids, updated from
// venue AccountUpdate messages and consulted by the engine's margin check.
package account

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Account is guarded by a single RWMutex, per the engine's shared-resource
// policy: reads clone out, writes are read-modify-write under the lock.
type Account struct {
	mu         sync.RWMutex
	balance    decimal.Decimal
	positions  map[string]decimal.Decimal
	openOrders map[string]struct{}
}

// New returns an Account seeded with the given starting balance.
func New(startingBalance decimal.Decimal) *Account {
	return &Account{
		balance:    startingBalance,
		positions:  make(map[string]decimal.Decimal),
		openOrders: make(map[string]struct{}),
	}
}

// Snapshot is a read-only copy of account state, safe to hand to callers
// concurrently with ingest.
type Snapshot struct {
	Balance    decimal.Decimal
	Positions  map[string]decimal.Decimal
	OpenOrders []string
}

// Snapshot returns a cloned view of the account.
func (a *Account) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	positions := make(map[string]decimal.Decimal, len(a.positions))
	for sym, qty := range a.positions {
		positions[sym] = qty
	}
	openOrders := make([]string, 0, len(a.openOrders))
	for id := range a.openOrders {
		openOrders = append(openOrders, id)
	}
	return Snapshot{
		Balance:    a.balance,
		Positions:  positions,
		OpenOrders: openOrders,
	}
}

// AvailableBalance returns the balance available for new margin checks.
func (a *Account) AvailableBalance() decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.balance
}

// AddOpenOrder records clientOID as an open order.
func (a *Account) AddOpenOrder(clientOID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.openOrders[clientOID] = struct{}{}
}

// RemoveOpenOrder removes clientOID from the open-order set.
func (a *Account) RemoveOpenOrder(clientOID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.openOrders, clientOID)
}

// ApplyBalanceDelta adjusts the balance by delta (may be negative).
func (a *Account) ApplyBalanceDelta(delta decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balance = a.balance.Add(delta)
}

// SetBalance replaces the balance outright, used for full AccountUpdate
// messages from the venue.
func (a *Account) SetBalance(balance decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balance = balance
}

// ApplyPositionDelta adjusts a symbol's signed position by delta.
func (a *Account) ApplyPositionDelta(symbol string, delta decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.positions[symbol] = a.positions[symbol].Add(delta)
}
