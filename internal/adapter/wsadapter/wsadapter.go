// Package wsadapter is a reference venue Adapter over a JSON WebSocket feed,
// grounded on the teacher's internal/feeds Kraken/Binance dial-and-read
// loop. It is never imported by the engine — the engine only depends on
// the adapter.Adapter interface — but demonstrates how a real venue
// integration plugs into the OMS core.
package wsadapter

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"velocimex/internal/adapter"
	"velocimex/internal/oms/order"
)

// Config carries the venue endpoint and credentials. The reference adapter
// never ships real authentication; concrete venues replace this with their
// own signed-request scheme.
type Config struct {
	URL       string
	APIKey    string
	APISecret string
}

// Adapter is a reference adapter.Adapter implementation.
type Adapter struct {
	cfg Config

	mu      sync.Mutex
	conn    *websocket.Conn
	monitor chan<- adapter.IncomingMessage
	done    chan struct{}
	debug   bool
}

var _ adapter.Adapter = (*Adapter)(nil)

// New creates an Adapter bound to cfg. Connect must be called before use.
func New(cfg Config) *Adapter {
	return &Adapter{cfg: cfg}
}

func (a *Adapter) SetMonitor(ch chan<- adapter.IncomingMessage) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.monitor = ch
}

func (a *Adapter) SetDebugMode(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.debug = enabled
}

// Connect dials the venue's WebSocket endpoint and starts the read loop.
func (a *Adapter) Connect() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn != nil {
		return nil
	}

	conn, _, err := websocket.DefaultDialer.Dial(a.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", adapter.ErrConnect, err)
	}
	a.conn = conn
	a.done = make(chan struct{})

	go a.readLoop(conn, a.done)
	return nil
}

// Disconnect closes the connection and stops the read loop.
func (a *Adapter) Disconnect() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn == nil {
		return nil
	}
	close(a.done)
	err := a.conn.Close()
	a.conn = nil
	return err
}

// SubscribeMarket sends a book subscription for the given symbols.
func (a *Adapter) SubscribeMarket(symbols []string) error {
	a.mu.Lock()
	conn := a.conn
	a.mu.Unlock()

	if conn == nil {
		return fmt.Errorf("%w: not connected", adapter.ErrConnect)
	}
	return conn.WriteJSON(subscribeMessage{Event: "subscribe", Symbols: symbols, Channel: "book"})
}

// SubmitOrder sends a new-order request over the wire. The venue's ack
// arrives asynchronously through the read loop as an OrderAck/OrderRejected
// IncomingMessage.
func (a *Adapter) SubmitOrder(o *order.Order) error {
	a.mu.Lock()
	conn := a.conn
	a.mu.Unlock()

	if conn == nil {
		return fmt.Errorf("%w: not connected", adapter.ErrSubmit)
	}
	req := newOrderMessage{
		Op:        "new_order",
		ClientOID: o.ClientOID,
		Symbol:    o.Symbol,
		Side:      string(o.Side),
		Type:      string(o.OrderType),
		Quantity:  o.Quantity,
		Price:     o.Price.String(),
	}
	if err := conn.WriteJSON(req); err != nil {
		return fmt.Errorf("%w: %v", adapter.ErrSubmit, err)
	}
	return nil
}

// CancelOrder sends a cancel request keyed on the venue order id.
func (a *Adapter) CancelOrder(venueOrderID string) error {
	a.mu.Lock()
	conn := a.conn
	a.mu.Unlock()

	if conn == nil {
		return fmt.Errorf("%w: not connected", adapter.ErrSubmit)
	}
	return conn.WriteJSON(cancelMessage{Op: "cancel_order", VenueOrderID: venueOrderID})
}

type subscribeMessage struct {
	Event   string   `json:"event"`
	Symbols []string `json:"symbols"`
	Channel string   `json:"channel"`
}

type newOrderMessage struct {
	Op        string `json:"op"`
	ClientOID string `json:"client_oid"`
	Symbol    string `json:"symbol"`
	Side      string `json:"side"`
	Type      string `json:"type"`
	Quantity  int64  `json:"quantity"`
	Price     string `json:"price"`
}

type cancelMessage struct {
	Op           string `json:"op"`
	VenueOrderID string `json:"venue_order_id"`
}

// wireMessage is the generic envelope the reference venue is assumed to
// send; op discriminates which IncomingMessage it decodes to.
type wireMessage struct {
	Op        string     `json:"op"`
	Symbol    string     `json:"symbol"`
	ClientOID string     `json:"client_oid"`
	VenueID   string     `json:"venue_id"`
	Side      string     `json:"side"`
	Price     string     `json:"price"`
	Quantity  string     `json:"quantity"`
	FillQty   int64      `json:"fill_qty"`
	FillPrice string     `json:"fill_price"`
	Reason    string     `json:"reason"`
	Balance   string     `json:"balance"`
	Bids      [][]string `json:"bids"`
	Asks      [][]string `json:"asks"`
}

func (a *Adapter) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("wsadapter: panic recovered: %v", r)
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
			_, raw, err := conn.ReadMessage()
			if err != nil {
				log.Printf("wsadapter: read error: %v", err)
				return
			}
			a.handle(raw)
		}
	}
}

func (a *Adapter) handle(raw []byte) {
	var msg wireMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("wsadapter: failed to unmarshal message: %v", err)
		return
	}

	a.mu.Lock()
	monitor := a.monitor
	debug := a.debug
	a.mu.Unlock()
	if monitor == nil {
		return
	}
	if debug {
		log.Printf("wsadapter: received op=%s", msg.Op)
	}

	switch msg.Op {
	case "book_snapshot":
		monitor <- adapter.OrderBookSnapshot{
			Symbol: msg.Symbol,
			Bids:   parseLevels(msg.Bids),
			Asks:   parseLevels(msg.Asks),
			Ts:     time.Now(),
		}
	case "book_delta":
		side := adapter.SideBid
		if msg.Side == "ASK" {
			side = adapter.SideAsk
		}
		price, _ := decimal.NewFromString(msg.Price)
		qty, _ := decimal.NewFromString(msg.Quantity)
		monitor <- adapter.OrderBookDelta{Symbol: msg.Symbol, Side: side, Price: price, Qty: qty, Ts: time.Now()}
	case "trade":
		price, _ := decimal.NewFromString(msg.Price)
		monitor <- adapter.Trade{Symbol: msg.Symbol, Price: price, Ts: time.Now()}
	case "ack":
		monitor <- adapter.OrderAck{ClientOID: msg.ClientOID, VenueID: msg.VenueID}
	case "fill":
		price, _ := decimal.NewFromString(msg.FillPrice)
		monitor <- adapter.OrderFill{ClientOID: msg.ClientOID, FillQty: msg.FillQty, FillPrice: price}
	case "canceled":
		monitor <- adapter.OrderCanceled{ClientOID: msg.ClientOID}
	case "rejected":
		monitor <- adapter.OrderRejected{ClientOID: msg.ClientOID, Reason: msg.Reason}
	case "account":
		balance, err := decimal.NewFromString(msg.Balance)
		monitor <- adapter.AccountUpdate{Balance: balance, HasBalance: err == nil}
	default:
		log.Printf("wsadapter: unrecognized op %q", msg.Op)
	}
}

func parseLevels(raw [][]string) []adapter.Level {
	out := make([]adapter.Level, 0, len(raw))
	for _, pair := range raw {
		if len(pair) < 2 {
			continue
		}
		price, err := decimal.NewFromString(pair[0])
		if err != nil {
			continue
		}
		qty, err := decimal.NewFromString(pair[1])
		if err != nil {
			continue
		}
		out = append(out, adapter.Level{Price: price, Qty: qty})
	}
	return out
}
