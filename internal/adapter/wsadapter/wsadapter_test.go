package wsadapter

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"velocimex/internal/adapter"
)

func TestHandleDecodesBookSnapshot(t *testing.T) {
	a := New(Config{URL: "wss://example.invalid"})
	ch := make(chan adapter.IncomingMessage, 1)
	a.SetMonitor(ch)

	a.handle([]byte(`{"op":"book_snapshot","symbol":"BTC-USD","bids":[["100","2"]],"asks":[["101","3"]]}`))

	msg := <-ch
	snap, ok := msg.(adapter.OrderBookSnapshot)
	require.True(t, ok)
	assert.Equal(t, "BTC-USD", snap.Symbol)
	require.Len(t, snap.Bids, 1)
	assert.True(t, snap.Bids[0].Price.Equal(decimal.NewFromInt(100)))
}

func TestHandleDecodesFill(t *testing.T) {
	a := New(Config{URL: "wss://example.invalid"})
	ch := make(chan adapter.IncomingMessage, 1)
	a.SetMonitor(ch)

	a.handle([]byte(`{"op":"fill","client_oid":"abc","fill_qty":1,"fill_price":"100.5"}`))

	msg := <-ch
	fill, ok := msg.(adapter.OrderFill)
	require.True(t, ok)
	assert.Equal(t, "abc", fill.ClientOID)
	assert.Equal(t, int64(1), fill.FillQty)
}

func TestHandleIgnoresUnrecognizedOp(t *testing.T) {
	a := New(Config{URL: "wss://example.invalid"})
	ch := make(chan adapter.IncomingMessage, 1)
	a.SetMonitor(ch)

	a.handle([]byte(`{"op":"something_unknown"}`))

	select {
	case <-ch:
		t.Fatal("expected no message for unrecognized op")
	default:
	}
}
