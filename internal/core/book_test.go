package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huashen/exchange-core/internal/domain"
)

func newTestOrder(id string, side domain.Side, ot domain.OrderType, price, qty int64) *domain.Order {
	return &domain.Order{
		ID:       id,
		ClientID: "c1",
		Symbol:   "BTC-USD",
		Side:     side,
		Type:     ot,
		Price:    price,
		Quantity: qty,
	}
}

func TestGTCRestsWhenNoLiquidity(t *testing.T) {
	b := NewOrderBook("BTC-USD")

	res := b.Submit(newTestOrder("o1", domain.Buy, domain.OrderTypeGTC, 100, 7))

	require.Equal(t, domain.PartialRested, res.Outcome)
	assert.Empty(t, res.Trades)
	assert.Equal(t, int64(7), res.Remaining)

	top := b.BestBidAsk()
	require.True(t, top.HasBid)
	assert.Equal(t, int64(100), top.BestBid)
	assert.False(t, top.HasAsk)
}

func TestFullFillRemovesMaker(t *testing.T) {
	b := NewOrderBook("BTC-USD")
	b.Submit(newTestOrder("maker", domain.Sell, domain.OrderTypeGTC, 100, 1))

	res := b.Submit(newTestOrder("taker", domain.Buy, domain.OrderTypeGTC, 100, 1))

	require.Equal(t, domain.Filled, res.Outcome)
	require.Len(t, res.Trades, 1)
	assert.Equal(t, int64(100), res.Trades[0].Price)
	assert.Equal(t, "taker", res.Trades[0].TakerOrderID)
	assert.Equal(t, "maker", res.Trades[0].MakerOrderID)

	top := b.BestBidAsk()
	assert.False(t, top.HasBid)
	assert.False(t, top.HasAsk)
}

func TestTradePriceIsMakerPrice(t *testing.T) {
	b := NewOrderBook("BTC-USD")
	b.Submit(newTestOrder("maker", domain.Sell, domain.OrderTypeGTC, 95, 2))

	// taker willing to pay 100 still trades at the resting 95
	res := b.Submit(newTestOrder("taker", domain.Buy, domain.OrderTypeGTC, 100, 2))

	require.Equal(t, domain.Filled, res.Outcome)
	require.Len(t, res.Trades, 1)
	assert.Equal(t, int64(95), res.Trades[0].Price)
}

func TestPricePriority(t *testing.T) {
	b := NewOrderBook("BTC-USD")
	b.Submit(newTestOrder("a100", domain.Sell, domain.OrderTypeGTC, 100, 5))
	b.Submit(newTestOrder("a101", domain.Sell, domain.OrderTypeGTC, 101, 5))

	res := b.Submit(newTestOrder("taker", domain.Buy, domain.OrderTypeIOC, 101, 8))

	require.Equal(t, domain.Filled, res.Outcome)
	require.Len(t, res.Trades, 2)
	assert.Equal(t, int64(100), res.Trades[0].Price)
	assert.Equal(t, int64(5), res.Trades[0].Quantity)
	assert.Equal(t, int64(101), res.Trades[1].Price)
	assert.Equal(t, int64(3), res.Trades[1].Quantity)
}

func TestTimePriorityWithinLevel(t *testing.T) {
	b := NewOrderBook("BTC-USD")
	b.Submit(newTestOrder("first", domain.Buy, domain.OrderTypeGTC, 100, 3))
	b.Submit(newTestOrder("second", domain.Buy, domain.OrderTypeGTC, 100, 3))

	res := b.Submit(newTestOrder("taker", domain.Sell, domain.OrderTypeIOC, 100, 1))

	require.Len(t, res.Trades, 1)
	assert.Equal(t, "first", res.Trades[0].MakerOrderID)

	// first still has 2 left and keeps its slot
	res = b.Submit(newTestOrder("taker2", domain.Sell, domain.OrderTypeIOC, 100, 3))
	require.Len(t, res.Trades, 2)
	assert.Equal(t, "first", res.Trades[0].MakerOrderID)
	assert.Equal(t, int64(2), res.Trades[0].Quantity)
	assert.Equal(t, "second", res.Trades[1].MakerOrderID)
	assert.Equal(t, int64(1), res.Trades[1].Quantity)
}

func TestEmptyLevelsArePruned(t *testing.T) {
	b := NewOrderBook("BTC-USD")
	b.Submit(newTestOrder("a1", domain.Sell, domain.OrderTypeGTC, 100, 1))
	b.Submit(newTestOrder("a2", domain.Sell, domain.OrderTypeGTC, 105, 1))

	b.Submit(newTestOrder("t1", domain.Buy, domain.OrderTypeIOC, 100, 1))

	top := b.BestBidAsk()
	require.True(t, top.HasAsk)
	assert.Equal(t, int64(105), top.BestAsk, "exhausted level must not be reported")

	snap := b.Snapshot(10)
	require.Len(t, snap.Asks, 1)
	assert.Equal(t, int64(105), snap.Asks[0].Price)
}

func TestCancelReportsRemaining(t *testing.T) {
	b := NewOrderBook("BTC-USD")
	b.Submit(newTestOrder("bid", domain.Buy, domain.OrderTypeGTC, 100, 5))
	b.Submit(newTestOrder("taker", domain.Sell, domain.OrderTypeIOC, 100, 2))

	remaining, found := b.Cancel("bid")
	require.True(t, found)
	assert.Equal(t, int64(3), remaining)

	_, found = b.Cancel("bid")
	assert.False(t, found, "cancel must not find an already-cancelled order")

	top := b.BestBidAsk()
	assert.False(t, top.HasBid)
}

func TestCancelUnknownOrder(t *testing.T) {
	b := NewOrderBook("BTC-USD")
	_, found := b.Cancel("ghost")
	assert.False(t, found)
}

func TestSnapshotAggregatesLevels(t *testing.T) {
	b := NewOrderBook("BTC-USD")
	b.Submit(newTestOrder("b1", domain.Buy, domain.OrderTypeGTC, 99, 2))
	b.Submit(newTestOrder("b2", domain.Buy, domain.OrderTypeGTC, 99, 3))
	b.Submit(newTestOrder("b3", domain.Buy, domain.OrderTypeGTC, 98, 1))
	b.Submit(newTestOrder("a1", domain.Sell, domain.OrderTypeGTC, 101, 4))

	snap := b.Snapshot(10)
	require.Len(t, snap.Bids, 2)
	assert.Equal(t, domain.BookLevel{Price: 99, Quantity: 5}, snap.Bids[0])
	assert.Equal(t, domain.BookLevel{Price: 98, Quantity: 1}, snap.Bids[1])
	require.Len(t, snap.Asks, 1)
	assert.Equal(t, domain.BookLevel{Price: 101, Quantity: 4}, snap.Asks[0])
}

func TestRestoreKeepsTimePriority(t *testing.T) {
	b := NewOrderBook("BTC-USD")

	first := newTestOrder("first", domain.Buy, domain.OrderTypeGTC, 100, 2)
	first.Remaining = 2
	first.SeqID = 1
	second := newTestOrder("second", domain.Buy, domain.OrderTypeGTC, 100, 2)
	second.Remaining = 2
	second.SeqID = 2

	b.Restore(first)
	b.Restore(second)

	res := b.Submit(newTestOrder("taker", domain.Sell, domain.OrderTypeIOC, 100, 1))
	require.Len(t, res.Trades, 1)
	assert.Equal(t, "first", res.Trades[0].MakerOrderID)
}

func TestRestoreSkipsNonResting(t *testing.T) {
	b := NewOrderBook("BTC-USD")

	ioc := newTestOrder("ioc", domain.Buy, domain.OrderTypeIOC, 100, 2)
	ioc.Remaining = 2
	b.Restore(ioc)

	exhausted := newTestOrder("done", domain.Buy, domain.OrderTypeGTC, 100, 2)
	exhausted.Remaining = 0
	b.Restore(exhausted)

	top := b.BestBidAsk()
	assert.False(t, top.HasBid)
}
