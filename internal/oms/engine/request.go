package engine

import (
	"github.com/shopspring/decimal"
	"velocimex/internal/oms/order"
)

// NewOrderRequest is the caller-facing intent passed to SendOrder. A CHAIN
// tag requires Chain and a STOP tag requires Stop; a missing one is a
// validation error. Chain/Stop are ignored for any other tag.
type NewOrderRequest struct {
	Symbol    string
	Side      order.Side
	OrderType order.Type
	Quantity  int64
	Price     decimal.Decimal
	HasPrice  bool

	Strategy order.ExecutionStrategy
	Chain    *ChainRequest
	Stop     *StopRequest
}

// ChainRequest carries the CHAIN strategy's trigger and follow-up order.
// ChainedOrder.Strategy tags what the follow-up order becomes once placed;
// the follow-up order itself is never further chained.
type ChainRequest struct {
	TriggerSide      order.Side
	TriggerPrice     decimal.Decimal
	TriggerTimestamp float64
	ChainedOrder     *order.Order
}

// StopRequest carries the STOP strategy's trigger and replacement price.
type StopRequest struct {
	TriggerPrice      decimal.Decimal
	TriggerTimestamp  float64
	StopLimitPrice    decimal.Decimal
	HasStopLimitPrice bool
}
