// Package engine is the OMS core: order lifecycle, per-symbol books,
// account margin, and the active execution-strategy registry, wired
// together behind a single Adapter boundary. Grounded on the teacher's
// gateway composition in cmd/velocimex/main.go, generalized to the
// venue-agnostic Adapter/IncomingMessage contract in internal/adapter.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"velocimex/internal/adapter"
	"velocimex/internal/decimalutil"
	"velocimex/internal/logger"
	"velocimex/internal/oms/account"
	"velocimex/internal/oms/omserr"
	"velocimex/internal/oms/order"
	"velocimex/internal/orderbook"
	"velocimex/internal/strategy"
	"velocimex/internal/strategy/chain"
	"velocimex/internal/strategy/fokioc"
	"velocimex/internal/strategy/limit"
	"velocimex/internal/strategy/stop"
)

// defaultTickInterval is the periodic OnTimer cadence for active strategies,
// per spec.md §4.2 (price-independent triggers such as CHAIN's timeout and
// STOP's timeout need a clock tick even when no book event arrives).
const defaultTickInterval = 100 * time.Millisecond

// Engine is the OMS core. One Engine owns one Adapter, one book manager, one
// account projection, and the active-strategy registry; everything is safe
// for concurrent use. Order, account and strategy state is written by the
// gateway listener goroutine, by the strategy-tick goroutine (the sole driver
// of OnTimer) when it applies strategy actions, and by SendOrder/CancelOrder
// callers; each map is guarded by its own lock.
type Engine struct {
	adapter           adapter.Adapter
	marginRequirement decimal.Decimal
	log               *logger.Logger

	books   *orderbook.Manager
	account *account.Account

	ordersMu sync.RWMutex
	orders   map[string]*order.Order

	stratMu    sync.RWMutex
	strategies map[string]*strategyRecord
	orderOwner map[string]string

	monitorCh chan adapter.IncomingMessage

	tickInterval time.Duration
	stopCh       chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// New wires an Engine around adapter, with marginRequirement as the
// fraction of notional that must be available balance for a submit to pass
// the margin check, and log as the engine's sole audit sink (threaded
// through at construction, never a package-level singleton).
func New(ad adapter.Adapter, marginRequirement decimal.Decimal, log *logger.Logger) *Engine {
	e := &Engine{
		adapter:           ad,
		marginRequirement: marginRequirement,
		log:               log,
		books:             orderbook.NewManager(),
		account:           account.New(decimal.Zero),
		orders:            make(map[string]*order.Order),
		strategies:        make(map[string]*strategyRecord),
		orderOwner:        make(map[string]string),
		monitorCh:         make(chan adapter.IncomingMessage, 1024),
		tickInterval:      defaultTickInterval,
		stopCh:            make(chan struct{}),
	}
	ad.SetMonitor(e.monitorCh)
	return e
}

// SeedBalance sets the account's starting balance. Intended for startup
// only, before Start is called.
func (e *Engine) SeedBalance(balance decimal.Decimal) {
	e.account.SetBalance(balance)
}

// SetTickInterval overrides the OnTimer sweep period. Intended for startup
// only, before Start is called; the ticker inside tick() is built once from
// this value.
func (e *Engine) SetTickInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	e.tickInterval = d
}

// Start connects the adapter, launches the gateway listener goroutine and
// the strategy-tick goroutine.
func (e *Engine) Start() error {
	if err := e.adapter.Connect(); err != nil {
		return fmt.Errorf("engine: adapter connect: %w", err)
	}

	e.wg.Add(2)
	go e.listen()
	go e.tick()
	return nil
}

// Stop signals both background goroutines to exit, disconnects the
// adapter, and blocks until shutdown completes. Safe to call once.
func (e *Engine) Stop() error {
	e.stopOnce.Do(func() {
		close(e.stopCh)
	})
	e.wg.Wait()
	return e.adapter.Disconnect()
}

// listen is the gateway listener goroutine: the sole writer of book state,
// consuming the adapter's IncomingMessage channel.
func (e *Engine) listen() {
	defer e.wg.Done()
	for {
		select {
		case msg := <-e.monitorCh:
			e.dispatch(msg)
		case <-e.stopCh:
			return
		}
	}
}

// tick drives OnTimer on every active strategy at a fixed cadence, so
// timestamp-based triggers (CHAIN/STOP timeouts) fire even without a book
// event.
func (e *Engine) tick() {
	defer e.wg.Done()
	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, rec := range e.allRecords() {
				e.runHook(rec, rec.strat.OnTimer())
			}
		case <-e.stopCh:
			return
		}
	}
}

// SendOrder validates req, runs the margin check, assigns a client_oid,
// instantiates the tagged execution strategy, and submits to the adapter.
// The returned Order reflects the SUBMITTED state on success.
func (e *Engine) SendOrder(req NewOrderRequest) (*order.Order, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", omserr.ErrValidation)
	}
	if req.OrderType == order.Limit && (!req.HasPrice || !req.Price.IsPositive()) {
		return nil, fmt.Errorf("%w: limit order requires a positive price", omserr.ErrValidation)
	}

	o := &order.Order{
		ClientOID:      uuid.New().String(),
		Symbol:         req.Symbol,
		Side:           req.Side,
		OrderType:      req.OrderType,
		Quantity:       req.Quantity,
		Price:          req.Price,
		State:          order.Created,
		Strategy:       req.Strategy,
		StrategyParams: make(map[string]string),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := e.checkMargin(o); err != nil {
		return nil, err
	}

	strat, err := e.instantiate(o, req)
	if err != nil {
		return nil, err
	}

	o.State = order.Submitted
	o.UpdatedAt = time.Now()

	e.ordersMu.Lock()
	e.orders[o.ClientOID] = o
	e.ordersMu.Unlock()

	e.account.AddOpenOrder(o.ClientOID)
	e.register(o.ClientOID, o.Symbol, strat)

	if err := e.adapter.SubmitOrder(o); err != nil {
		e.log.LogDiagnostic(fmt.Sprintf("submit failed for %s: %v", o.ClientOID, err))
		return nil, fmt.Errorf("%w: %v", omserr.ErrSubmit, err)
	}

	e.log.LogOrder(logger.OrderRecord{ClientOID: o.ClientOID, Symbol: o.Symbol, State: string(o.State)})
	return o.Clone(), nil
}

// CancelOrder requests a cancel for clientOID. Only legal from
// {SUBMITTED, ACK, PARTIAL}; a repeated cancel on an order already in
// PENDING_CANCEL or a terminal state returns ErrIllegalCancel and leaves the
// state unchanged.
func (e *Engine) CancelOrder(clientOID string) error {
	e.ordersMu.Lock()
	o, ok := e.orders[clientOID]
	if !ok {
		e.ordersMu.Unlock()
		return omserr.ErrOrderNotFound
	}
	if o.State == order.PendingCancel {
		e.ordersMu.Unlock()
		return fmt.Errorf("%w: order %s is already pending cancel", omserr.ErrIllegalCancel, clientOID)
	}
	if !order.CanTransition(o.State, order.PendingCancel) {
		e.ordersMu.Unlock()
		return fmt.Errorf("%w: order %s is in state %s", omserr.ErrIllegalCancel, clientOID, o.State)
	}
	o.State = order.PendingCancel
	o.UpdatedAt = time.Now()
	venueID := venueCancelID(o)
	e.ordersMu.Unlock()

	if err := e.adapter.CancelOrder(venueID); err != nil {
		return fmt.Errorf("%w: %v", omserr.ErrCancel, err)
	}
	return nil
}

// venueCancelID returns the venue order id if the order has been
// acknowledged, or the client_oid as a fallback for a cancel requested
// before ACK — the venue is expected to key on whichever id it last saw.
func venueCancelID(o *order.Order) string {
	if o.OrderID != nil {
		return *o.OrderID
	}
	return o.ClientOID
}

// checkMargin rejects o if the account's available balance cannot cover
// notional * marginRequirement, per spec.md §4.1: required = quantity *
// (price or best_ask) * margin_requirement. LIMIT orders price off their own
// limit price; MARKET orders (including a STOP replacement submitted as a
// market order) price off the symbol's current best ask. A MARKET order
// whose book has no best ask yet cannot be priced, so the check is skipped
// rather than rejecting on missing data.
func (e *Engine) checkMargin(o *order.Order) error {
	refPrice := o.Price
	if o.OrderType == order.Market {
		ask, _, ok := e.books.GetOrderBook(o.Symbol).BestAsk()
		if !ok {
			return nil
		}
		refPrice = ask
	}

	required := decimalutil.Notional(refPrice, o.Quantity).Mul(e.marginRequirement)
	available := e.account.AvailableBalance()
	if available.LessThan(required) {
		e.log.LogRiskEvent(o.ClientOID, "insufficient funds")
		return fmt.Errorf("%w: requires %s, available %s", omserr.ErrInsufficientFunds, required.String(), available.String())
	}
	return nil
}

// instantiate builds the concrete strategy tagged by req.Strategy.
func (e *Engine) instantiate(o *order.Order, req NewOrderRequest) (strategy.Strategy, error) {
	switch req.Strategy {
	case order.StrategyNone, order.StrategyLimit, order.StrategyOther:
		return limit.New(o.ClientOID, o.Symbol, o.Side, o.Quantity, o.Price), nil

	case order.StrategyFOK, order.StrategyIOC:
		return fokioc.New(o.ClientOID), nil

	case order.StrategyChain:
		if req.Chain == nil {
			return nil, fmt.Errorf("%w: CHAIN strategy requires chain parameters", omserr.ErrValidation)
		}
		return chain.New(o.ClientOID, req.Chain.TriggerSide, req.Chain.TriggerPrice, req.Chain.TriggerTimestamp, req.Chain.ChainedOrder), nil

	case order.StrategyStop:
		if req.Stop == nil {
			return nil, fmt.Errorf("%w: STOP strategy requires stop parameters", omserr.ErrValidation)
		}
		s := stop.New(o.ClientOID, o.Symbol, o.Side, o.Quantity, req.Stop.TriggerPrice, req.Stop.TriggerTimestamp, req.Stop.StopLimitPrice, req.Stop.HasStopLimitPrice)
		s.Warn = func(msg string) { e.log.LogDiagnostic(msg) }
		return s, nil

	default:
		return nil, fmt.Errorf("%w: unknown execution strategy %q", omserr.ErrValidation, req.Strategy)
	}
}

// GetOrder returns a clone of the order identified by clientOID.
func (e *Engine) GetOrder(clientOID string) (*order.Order, bool) {
	e.ordersMu.RLock()
	defer e.ordersMu.RUnlock()
	o, ok := e.orders[clientOID]
	if !ok {
		return nil, false
	}
	return o.Clone(), true
}

// GetOrders returns a clone of every known order.
func (e *Engine) GetOrders() []*order.Order {
	e.ordersMu.RLock()
	defer e.ordersMu.RUnlock()
	out := make([]*order.Order, 0, len(e.orders))
	for _, o := range e.orders {
		out = append(out, o.Clone())
	}
	return out
}

// GetOrderBook returns the live book for symbol (created lazily if absent).
func (e *Engine) GetOrderBook(symbol string) *orderbook.Book {
	return e.books.GetOrderBook(symbol)
}

// GetAccount returns a snapshot of the account projection.
func (e *Engine) GetAccount() account.Snapshot {
	return e.account.Snapshot()
}

// GetActiveStrategyOrderIDs returns the origin order id of every strategy
// still active, matching the invariant "active_strategies() = {r :
// !r.is_completed()}" continuously maintained by pruneCompleted.
func (e *Engine) GetActiveStrategyOrderIDs() []string {
	return e.activeStrategyOrderIDs()
}
