// Package strategy defines the uniform contract every execution strategy
// honours (Strategy) and the algebra of follow-up effects a strategy can ask
// the engine to perform (Action). Concrete strategies — LimitStrategy,
// ChainStrategy, StopStrategy — live in the limit, chain and stop
// subpackages; this package has no knowledge of any one of them, matching
// the "no inheritance hierarchy, capability set" design note.
package strategy

import (
	"time"

	"github.com/shopspring/decimal"
	"velocimex/internal/oms/order"
	"velocimex/internal/orderbook"
)

// Kind tags the algebraic variant of an Action.
type Kind int

const (
	KindNone Kind = iota
	KindPlaceOrder
	KindCancelOrder
	KindModifyPrice
	KindRemoveOrder
)

// Action is StrategyAction = PlaceOrder(Order) | CancelOrder(id) |
// ModifyPrice(id, price?) | RemoveOrder(id) | None. Only the fields
// meaningful to Kind are populated.
type Action struct {
	Kind        Kind
	Order       *order.Order    // KindPlaceOrder
	OrderID     string          // KindCancelOrder, KindModifyPrice, KindRemoveOrder
	NewPrice    decimal.Decimal // KindModifyPrice
	HasNewPrice bool            // KindModifyPrice: false means market (no limit price)
}

// None is the no-op action.
var None = Action{Kind: KindNone}

// PlaceOrder builds a PlaceOrder action.
func PlaceOrder(o *order.Order) Action {
	return Action{Kind: KindPlaceOrder, Order: o}
}

// CancelOrder builds a CancelOrder action.
func CancelOrder(id string) Action {
	return Action{Kind: KindCancelOrder, OrderID: id}
}

// ModifyPrice builds a ModifyPrice action. When newPrice is absent the
// replacement order is a market order.
func ModifyPrice(id string, newPrice decimal.Decimal, hasPrice bool) Action {
	return Action{Kind: KindModifyPrice, OrderID: id, NewPrice: newPrice, HasNewPrice: hasPrice}
}

// RemoveOrder builds a RemoveOrder action: mark the strategy finished with no
// venue action.
func RemoveOrder(id string) Action {
	return Action{Kind: KindRemoveOrder, OrderID: id}
}

// Strategy is the capability set every execution strategy implements.
// Default (no-op) behaviour for the optional hooks is provided by Base,
// which concrete strategies embed.
type Strategy interface {
	OnOrderBookUpdate(book *orderbook.Book) []Action
	OnTradeUpdate(lastPrice decimal.Decimal) []Action
	OnOrderStatusUpdate(o *order.Order) []Action
	OnTimer() []Action
	IsCompleted() bool
	GetOriginOrderID() (string, bool)
	UpdateOrderID(newID string)
}

// Base provides the spec's default hook bodies (on_order_status_update and
// on_timer both default to None) so concrete strategies only implement the
// hooks where they actually react.
type Base struct{}

func (Base) OnOrderStatusUpdate(*order.Order) []Action   { return []Action{None} }
func (Base) OnTimer() []Action                           { return []Action{None} }
func (Base) GetOriginOrderID() (string, bool)            { return "", false }
func (Base) UpdateOrderID(string)                        {}

// NowEpochSeconds returns the current wall-clock time as epoch seconds with
// sub-second precision, matching the original implementation's
// `timestamp_millis() as f64 / 1000.0` convention for trigger_timestamp.
func NowEpochSeconds() float64 {
	return float64(time.Now().UnixMilli()) / 1000.0
}
