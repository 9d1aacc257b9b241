// Package adapter defines the boundary between the OMS core and a
// venue-specific implementation (authentication, websocket framing, REST
// order submission) — deliberately out of scope for the core itself, per
// spec.md §1. The core only depends on the Adapter interface and the
// IncomingMessage closed set below.
package adapter

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"velocimex/internal/oms/order"
)

// ErrConnect is returned by Connect when the venue connection cannot be
// established; fatal to the engine's start sequence.
var ErrConnect = errors.New("adapter: connect failed")

// ErrSubmit is returned by SubmitOrder when the venue rejects a submit
// request.
var ErrSubmit = errors.New("adapter: submit failed")

// Adapter is the abstract boundary the core consumes. A concrete
// implementation (e.g. internal/adapter/wsadapter) owns the actual
// connection, authentication, and wire framing.
type Adapter interface {
	// Connect starts ingest; idempotent; fails with ErrConnect.
	Connect() error
	// Disconnect terminates ingest threads and drains.
	Disconnect() error
	// SetMonitor installs the channel down which IncomingMessages are
	// produced.
	SetMonitor(ch chan<- IncomingMessage)
	// SubscribeMarket enables book/trade feeds for the listed symbols.
	SubscribeMarket(symbols []string) error
	// SubmitOrder fires a venue submit; may fail with ErrSubmit. Expected to
	// be non-blocking: it enqueues into the adapter's own outbound queue.
	SubmitOrder(o *order.Order) error
	// CancelOrder fires a venue cancel for the given venue order id.
	CancelOrder(venueOrderID string) error
	// SetDebugMode toggles verbose diagnostic logging.
	SetDebugMode(enabled bool)
}

// IncomingMessage is the closed set of messages the adapter produces into
// its monitor channel. isIncomingMessage is unexported so only this package
// can add variants.
type IncomingMessage interface {
	isIncomingMessage()
}

// OrderBookSnapshot replaces a symbol's book atomically.
type OrderBookSnapshot struct {
	Symbol string
	Bids   []Level
	Asks   []Level
	Ts     time.Time
}

// OrderBookDelta upserts or removes a single level; Qty == 0 removes it.
type OrderBookDelta struct {
	Symbol string
	Side   BookSide
	Price  decimal.Decimal
	Qty    decimal.Decimal
	Ts     time.Time
}

// Trade carries the last traded price for a symbol.
type Trade struct {
	Symbol string
	Price  decimal.Decimal
	Ts     time.Time
}

// OrderAck attaches the venue order id and moves the order to ACK.
type OrderAck struct {
	ClientOID string
	VenueID   string
}

// OrderFill carries a partial or full fill.
type OrderFill struct {
	ClientOID string
	FillQty   int64
	FillPrice decimal.Decimal
}

// OrderCanceled confirms a cancel.
type OrderCanceled struct {
	ClientOID string
}

// OrderRejected confirms a rejection with a reason.
type OrderRejected struct {
	ClientOID string
	Reason    string
}

// AccountUpdate merges into the account projection.
type AccountUpdate struct {
	Balance       decimal.Decimal
	HasBalance    bool
	PositionDelta map[string]decimal.Decimal
}

func (OrderBookSnapshot) isIncomingMessage() {}
func (OrderBookDelta) isIncomingMessage()    {}
func (Trade) isIncomingMessage()             {}
func (OrderAck) isIncomingMessage()          {}
func (OrderFill) isIncomingMessage()         {}
func (OrderCanceled) isIncomingMessage()     {}
func (OrderRejected) isIncomingMessage()     {}
func (AccountUpdate) isIncomingMessage()     {}

// BookSide mirrors orderbook.Side at the adapter boundary so this package
// does not need to import orderbook for a two-value enum.
type BookSide string

const (
	SideBid BookSide = "BID"
	SideAsk BookSide = "ASK"
)

// Level is a single price/quantity pair as produced by the venue.
type Level struct {
	Price decimal.Decimal
	Qty   decimal.Decimal
}
