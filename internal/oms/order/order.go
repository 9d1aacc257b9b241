// Package order holds the OMS's order data model: identity, the state
// machine, and execution-strategy tags. It intentionally has no dependency on
// the engine or on any concrete strategy so that both can import it freely.
package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the side of an order.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Type is the order type.
type Type string

const (
	Limit  Type = "LIMIT"
	Market Type = "MARKET"
)

// State is the order lifecycle state. See State machine in package doc.
type State string

const (
	Created       State = "CREATED"
	Submitted     State = "SUBMITTED"
	Ack           State = "ACK"
	Partial       State = "PARTIAL"
	Filled        State = "FILLED"
	Rejected      State = "REJECTED"
	PendingCancel State = "PENDING_CANCEL"
	Canceled      State = "CANCELED"
)

// IsTerminal reports whether s is a terminal state.
func (s State) IsTerminal() bool {
	switch s {
	case Filled, Rejected, Canceled:
		return true
	default:
		return false
	}
}

// ExecutionStrategy tags which concrete strategy object the engine
// instantiates on submission.
type ExecutionStrategy string

const (
	StrategyNone  ExecutionStrategy = "NONE"
	StrategyLimit ExecutionStrategy = "LIMIT"
	StrategyChain ExecutionStrategy = "CHAIN"
	StrategyStop  ExecutionStrategy = "STOP"
	StrategyFOK   ExecutionStrategy = "FOK"
	StrategyIOC   ExecutionStrategy = "IOC"
	StrategyOther ExecutionStrategy = "OTHER"
)

// Order is the OMS's canonical order record. Identity is ClientOID
// (engine-assigned, globally unique); OrderID is assigned by the venue after
// acknowledgement and is nil until then.
type Order struct {
	ClientOID      string
	OrderID        *string
	Symbol         string
	Side           Side
	OrderType      Type
	Quantity       int64
	Price          decimal.Decimal
	FilledQuantity int64
	AvgFillPrice   decimal.Decimal
	State          State
	Strategy       ExecutionStrategy
	StrategyParams map[string]string
	ErrorMessage   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Clone returns a deep-enough copy of o suitable for cancel-replace or
// CHAIN/STOP replacement orders: a fresh ClientOID is the caller's
// responsibility, but StrategyParams is copied so the clone may be mutated
// independently.
func (o *Order) Clone() *Order {
	c := *o
	c.OrderID = nil
	c.StrategyParams = make(map[string]string, len(o.StrategyParams))
	for k, v := range o.StrategyParams {
		c.StrategyParams[k] = v
	}
	return &c
}

// Remaining returns Quantity - FilledQuantity.
func (o *Order) Remaining() int64 {
	return o.Quantity - o.FilledQuantity
}

// legalTransitions enumerates the state machine from spec: CREATED ->
// SUBMITTED -> ACK -> {PARTIAL <-> PARTIAL} -> FILLED; CREATED -> SUBMITTED ->
// REJECTED; {SUBMITTED|ACK|PARTIAL} -> PENDING_CANCEL -> CANCELED.
var legalTransitions = map[State]map[State]bool{
	Created:       {Submitted: true},
	Submitted:     {Ack: true, Rejected: true, PendingCancel: true},
	Ack:           {Partial: true, Filled: true, PendingCancel: true},
	Partial:       {Partial: true, Filled: true, PendingCancel: true},
	PendingCancel: {Canceled: true},
}

// CanTransition reports whether moving from 'from' to 'to' is legal.
func CanTransition(from, to State) bool {
	if from == to {
		return true
	}
	next, ok := legalTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}
