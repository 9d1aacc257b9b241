package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(Created, Submitted))
	assert.True(t, CanTransition(Submitted, Ack))
	assert.True(t, CanTransition(Submitted, Rejected))
	assert.True(t, CanTransition(Ack, Partial))
	assert.True(t, CanTransition(Partial, Partial))
	assert.True(t, CanTransition(Partial, Filled))
	assert.True(t, CanTransition(Ack, PendingCancel))
	assert.True(t, CanTransition(PendingCancel, Canceled))

	assert.False(t, CanTransition(Filled, Submitted))
	assert.False(t, CanTransition(Canceled, Ack))
	assert.False(t, CanTransition(Created, Filled))
	assert.False(t, CanTransition(Rejected, Ack))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, Filled.IsTerminal())
	assert.True(t, Rejected.IsTerminal())
	assert.True(t, Canceled.IsTerminal())
	assert.False(t, Submitted.IsTerminal())
	assert.False(t, PendingCancel.IsTerminal())
}

func TestCloneResetsIdentityAndCopiesParams(t *testing.T) {
	o := &Order{
		ClientOID:      "abc",
		Symbol:         "BTC-USD",
		Price:          decimal.NewFromInt(100),
		StrategyParams: map[string]string{"trigger_price": "101"},
	}
	venueID := "v1"
	o.OrderID = &venueID

	c := o.Clone()
	assert.Nil(t, c.OrderID)
	c.StrategyParams["trigger_price"] = "999"
	assert.Equal(t, "101", o.StrategyParams["trigger_price"])
}

func TestRemaining(t *testing.T) {
	o := &Order{Quantity: 10, FilledQuantity: 4}
	assert.Equal(t, int64(6), o.Remaining())
}
