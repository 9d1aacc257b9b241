package orderbook

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func TestApplySnapshotBestBidAsk(t *testing.T) {
	b := New("S1")
	ts := time.Now()
	b.ApplySnapshot(
		[]Level{{Price: d("100"), Qty: d("5")}, {Price: d("99"), Qty: d("10")}},
		[]Level{{Price: d("101"), Qty: d("3")}, {Price: d("102"), Qty: d("7")}},
		ts,
	)

	bid, qty, ok := b.BestBid()
	assert.True(t, ok)
	assert.True(t, bid.Equal(d("100")))
	assert.True(t, qty.Equal(d("5")))

	ask, qty, ok := b.BestAsk()
	assert.True(t, ok)
	assert.True(t, ask.Equal(d("101")))
	assert.True(t, qty.Equal(d("3")))
}

func TestApplyDeltaRemovesZeroQty(t *testing.T) {
	b := New("S1")
	ts := time.Now()
	b.ApplySnapshot([]Level{{Price: d("100"), Qty: d("5")}}, nil, ts)
	b.ApplyDelta(Bid, d("100"), decimal.Zero, ts.Add(time.Millisecond))

	_, _, ok := b.BestBid()
	assert.False(t, ok)
}

func TestCrossedBookCollapsesToNoBest(t *testing.T) {
	b := New("S1")
	ts := time.Now()
	// bid (100) >= ask (99) is crossed.
	b.ApplySnapshot(
		[]Level{{Price: d("100"), Qty: d("5")}},
		[]Level{{Price: d("99"), Qty: d("3")}},
		ts,
	)

	_, _, bidOK := b.BestBid()
	_, _, askOK := b.BestAsk()
	assert.False(t, bidOK)
	assert.False(t, askOK)
}

func TestOutOfOrderUpdateDiscarded(t *testing.T) {
	b := New("S1")
	now := time.Now()
	b.ApplySnapshot([]Level{{Price: d("100"), Qty: d("5")}}, nil, now)
	b.ApplyDelta(Bid, d("101"), d("1"), now.Add(-time.Second))

	bid, _, ok := b.BestBid()
	assert.True(t, ok)
	assert.True(t, bid.Equal(d("100")))
}

func TestTopN(t *testing.T) {
	b := New("S1")
	ts := time.Now()
	b.ApplySnapshot(
		[]Level{{Price: d("100"), Qty: d("1")}, {Price: d("99"), Qty: d("1")}, {Price: d("98"), Qty: d("1")}},
		nil,
		ts,
	)

	top := b.TopN(Bid, 2)
	assert.Len(t, top, 2)
	assert.True(t, top[0].Price.Equal(d("100")))
	assert.True(t, top[1].Price.Equal(d("99")))
}
