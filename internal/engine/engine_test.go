package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huashen/exchange-core/internal/adapter/in_memory"
	"github.com/huashen/exchange-core/internal/domain"
)

type engineFixture struct {
	eng     *Engine
	journal *in_memory.Journal
	repo    *in_memory.MemoryRepo
	cache   *in_memory.Cache
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	f := &engineFixture{
		journal: in_memory.NewJournal(),
		repo:    in_memory.NewMemoryRepo(),
		cache:   in_memory.NewCache(),
	}
	f.eng = NewEngine(f.journal, f.repo, f.cache, 16, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	f.eng.Start(ctx)
	return f
}

func order(id string, side domain.Side, ot domain.OrderType, price, qty int64) *domain.Order {
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

func TestSubmitAssignsIDAndSequence(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	o := order("", domain.Buy, domain.OrderTypeGTC, 100, 1)
	res, err := f.eng.SubmitOrder(ctx, o)
	require.NoError(t, err)

	assert.Equal(t, domain.PartialRested, res.Outcome)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, uint64(1), o.SeqID)

	o2 := order("", domain.Buy, domain.OrderTypeGTC, 99, 1)
	_, err = f.eng.SubmitOrder(ctx, o2)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), o2.SeqID)
}

func TestJournalCalledExactlyOncePerSubmit(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	_, err := f.eng.SubmitOrder(ctx, order("o1", domain.Sell, domain.OrderTypeGTC, 100, 2))
	require.NoError(t, err)
	_, err = f.eng.SubmitOrder(ctx, order("o2", domain.Buy, domain.OrderTypeIOC, 100, 1))
	require.NoError(t, err)
	// rejected submits are journaled too
	_, err = f.eng.SubmitOrder(ctx, order("o3", domain.Buy, domain.OrderTypeIOC, 0, 1))
	require.NoError(t, err)

	entries := f.journal.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "o1", entries[0].Order.ID)
	assert.Equal(t, domain.PartialRested, entries[0].Result.Outcome)
	assert.Equal(t, "o2", entries[1].Order.ID)
	assert.Equal(t, domain.Filled, entries[1].Result.Outcome)
	assert.Equal(t, "o3", entries[2].Order.ID)
	assert.Equal(t, domain.Rejected, entries[2].Result.Outcome)
}

func TestIOCNeverPersists(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	_, err := f.eng.SubmitOrder(ctx, order("maker", domain.Sell, domain.OrderTypeGTC, 100, 1))
	require.NoError(t, err)

	res, err := f.eng.SubmitOrder(ctx, order("ioc", domain.Buy, domain.OrderTypeIOC, 100, 5))
	require.NoError(t, err)
	require.Equal(t, domain.PartialCancelled, res.Outcome)

	// after submit returns, no remainder is ever found by cancel
	_, found, err := f.eng.CancelOrder(ctx, "BTC-USD", "ioc")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCancelRestingOrder(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	_, err := f.eng.SubmitOrder(ctx, order("gtc", domain.Buy, domain.OrderTypeGTC, 100, 5))
	require.NoError(t, err)

	remaining, found, err := f.eng.CancelOrder(ctx, "BTC-USD", "gtc")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(5), remaining)

	top, err := f.eng.TopOfBook(ctx, "BTC-USD")
	require.NoError(t, err)
	assert.False(t, top.HasBid)
}

func TestTradesArePersisted(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	_, err := f.eng.SubmitOrder(ctx, order("maker", domain.Sell, domain.OrderTypeGTC, 100, 2))
	require.NoError(t, err)
	_, err = f.eng.SubmitOrder(ctx, order("taker", domain.Buy, domain.OrderTypeIOC, 100, 2))
	require.NoError(t, err)

	trades, err := f.eng.TradesForOrder(ctx, "maker")
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "taker", trades[0].TakerOrderID)
	assert.Equal(t, int64(2), trades[0].Quantity)
}

func TestCacheTracksTopOfBook(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	_, err := f.eng.SubmitOrder(ctx, order("bid", domain.Buy, domain.OrderTypeGTC, 100, 1))
	require.NoError(t, err)

	top, err := f.cache.GetTopOfBook(ctx, "BTC-USD")
	require.NoError(t, err)
	require.NotNil(t, top)
	assert.True(t, top.HasBid)
	assert.Equal(t, int64(100), top.BestBid)
}

func TestSymbolsMatchIndependently(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		symbol := fmt.Sprintf("SYM-%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				o := order("", domain.Buy, domain.OrderTypeGTC, int64(100+j), 1)
				o.Symbol = symbol
				_, err := f.eng.SubmitOrder(ctx, o)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		symbol := fmt.Sprintf("SYM-%d", i)
		top, err := f.eng.TopOfBook(ctx, symbol)
		require.NoError(t, err)
		require.True(t, top.HasBid)
		assert.Equal(t, int64(149), top.BestBid)
	}
}

func TestLoadOpenOrdersRestoresBook(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	_, err := f.eng.SubmitOrder(ctx, order("keep", domain.Buy, domain.OrderTypeGTC, 100, 5))
	require.NoError(t, err)

	// fresh engine over the same repository
	eng2 := NewEngine(in_memory.NewJournal(), f.repo, in_memory.NewCache(), 16, nil)
	ctx2, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	eng2.Start(ctx2)

	require.NoError(t, eng2.LoadOpenOrders(ctx, []string{"BTC-USD"}))

	top, err := eng2.TopOfBook(ctx, "BTC-USD")
	require.NoError(t, err)
	require.True(t, top.HasBid)
	assert.Equal(t, int64(100), top.BestBid)

	remaining, found, err := eng2.CancelOrder(ctx, "BTC-USD", "keep")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(5), remaining)
}

func TestRestartDoesNotRestoreFilledMaker(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	_, err := f.eng.SubmitOrder(ctx, order("maker", domain.Sell, domain.OrderTypeGTC, 100, 2))
	require.NoError(t, err)
	res, err := f.eng.SubmitOrder(ctx, order("taker", domain.Buy, domain.OrderTypeIOC, 100, 2))
	require.NoError(t, err)
	require.Equal(t, domain.Filled, res.Outcome)

	// fresh engine over the same repository
	eng2 := NewEngine(in_memory.NewJournal(), f.repo, in_memory.NewCache(), 16, nil)
	ctx2, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	eng2.Start(ctx2)

	require.NoError(t, eng2.LoadOpenOrders(ctx, []string{"BTC-USD"}))

	// the maker was fully consumed before the restart; it must not come
	// back as liquidity
	top, err := eng2.TopOfBook(ctx, "BTC-USD")
	require.NoError(t, err)
	assert.False(t, top.HasAsk)

	_, found, err := eng2.CancelOrder(ctx, "BTC-USD", "maker")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRestartRestoresPartiallyFilledMakerRemaining(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	_, err := f.eng.SubmitOrder(ctx, order("maker", domain.Sell, domain.OrderTypeGTC, 100, 5))
	require.NoError(t, err)
	_, err = f.eng.SubmitOrder(ctx, order("taker", domain.Buy, domain.OrderTypeIOC, 100, 2))
	require.NoError(t, err)

	eng2 := NewEngine(in_memory.NewJournal(), f.repo, in_memory.NewCache(), 16, nil)
	ctx2, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	eng2.Start(ctx2)

	require.NoError(t, eng2.LoadOpenOrders(ctx, []string{"BTC-USD"}))

	remaining, found, err := eng2.CancelOrder(ctx, "BTC-USD", "maker")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(3), remaining)
}
