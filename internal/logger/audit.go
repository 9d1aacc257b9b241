package logger

// Typed convenience wrappers over Log/LogLazy. These are the audit surface
// the engine and strategies write through instead of calling Log directly
// with ad hoc log_type strings.

// TradeRecord is logged whenever the engine observes a trade tick.
type TradeRecord struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// LogTrade records a trade tick.
func (l *Logger) LogTrade(symbol, price string) {
	l.Log("trade", TradeRecord{Symbol: symbol, Price: price})
}

// OrderRecord is logged on every order state transition.
type OrderRecord struct {
	ClientOID string `json:"client_oid"`
	OrderID   string `json:"order_id,omitempty"`
	Symbol    string `json:"symbol"`
	State     string `json:"state"`
}

// LogOrder records an order state transition through LogLazy. rec is built
// by the caller; the worker goroutine takes it from the generator when it
// dequeues the message.
func (l *Logger) LogOrder(rec OrderRecord) {
	l.LogLazy("order", func() interface{} { return rec })
}

// RiskEventRecord is logged when a risk check (e.g. margin) rejects or
// flags an order.
type RiskEventRecord struct {
	ClientOID string `json:"client_oid"`
	Reason    string `json:"reason"`
}

// LogRiskEvent records a risk rejection.
func (l *Logger) LogRiskEvent(clientOID, reason string) {
	l.Log("risk_event", RiskEventRecord{ClientOID: clientOID, Reason: reason})
}

// StrategySignalRecord is logged whenever a strategy produces a non-None
// action.
type StrategySignalRecord struct {
	OrderID string `json:"order_id"`
	Kind    string `json:"kind"`
}

// LogStrategySignal records a strategy action.
func (l *Logger) LogStrategySignal(rec StrategySignalRecord) {
	l.Log("strategy_signal", rec)
}

// DiagnosticRecord carries free-form operational warnings: illegal state
// transitions the engine refused, strategy action errors, submit and
// metrics-server failures, and the StopStrategy's
// Warn callback (the Go equivalent of didius's eprintln on a canceled or
// rejected lineage).
type DiagnosticRecord struct {
	Message string `json:"message"`
}

// LogDiagnostic records an operational warning.
func (l *Logger) LogDiagnostic(msg string) {
	l.Log("diagnostic", DiagnosticRecord{Message: msg})
}
