package core

import (
	"github.com/huashen/exchange-core/internal/domain"
)

// OrderBook owns the two sides of a single instrument and dispatches
// incoming orders through the matching pass. It is not safe for concurrent
// use; the engine serializes access (one writer per symbol).
type OrderBook struct {
	symbol string
	bids   *bookSide
	asks   *bookSide
}

func NewOrderBook(symbol string) *OrderBook {
	return &OrderBook{
		symbol: symbol,
		bids:   newBookSide(domain.Buy),
		asks:   newBookSide(domain.Sell),
	}
}

func (b *OrderBook) Symbol() string { return b.symbol }

func (b *OrderBook) opposing(side domain.Side) *bookSide {
	if side == domain.Buy {
		return b.asks
	}
	return b.bids
}

func (b *OrderBook) own(side domain.Side) *bookSide {
	if side == domain.Buy {
		return b.bids
	}
	return b.asks
}

// Submit runs one matching pass for an incoming order and commits its
// effects. The result is final when Submit returns: no partial state from
// the pass is visible beforehand.
func (b *OrderBook) Submit(o *domain.Order) *domain.MatchResult {
	if err := o.Validate(); err != nil {
		return &domain.MatchResult{
			Outcome:   domain.Rejected,
			Trades:    []*domain.Trade{},
			Remaining: o.Quantity,
			Reason:    err,
		}
	}
	o.Remaining = o.Quantity

	fills, remaining := b.plan(o)

	// All-or-none is decided against the planned total before any book
	// mutation, so partial fills are never visible for FOK variants.
	if o.Type.AllOrNone() && remaining > 0 {
		return &domain.MatchResult{
			Outcome:   domain.Killed,
			Trades:    []*domain.Trade{},
			Remaining: o.Quantity,
		}
	}

	trades, makers := b.commit(o, fills)

	switch {
	case o.Remaining == 0:
		return &domain.MatchResult{Outcome: domain.Filled, Trades: trades, Makers: makers}
	case o.Type.AllowsResting():
		b.own(o.Side).insert(o)
		return &domain.MatchResult{
			Outcome:   domain.PartialRested,
			Trades:    trades,
			Remaining: o.Remaining,
			Makers:    makers,
		}
	case len(trades) == 0:
		return &domain.MatchResult{
			Outcome:   domain.Killed,
			Trades:    trades,
			Remaining: o.Remaining,
		}
	default:
		return &domain.MatchResult{
			Outcome:   domain.PartialCancelled,
			Trades:    trades,
			Remaining: o.Remaining,
			Makers:    makers,
		}
	}
}

// Cancel removes a resting order from whichever side holds it and reports
// the quantity that remained at cancellation.
func (b *OrderBook) Cancel(orderID string) (int64, bool) {
	if remaining, ok := b.bids.remove(orderID); ok {
		return remaining, true
	}
	return b.asks.remove(orderID)
}

// BestBidAsk returns the top of book for quoting and reporting.
func (b *OrderBook) BestBidAsk() domain.TopOfBook {
	top := domain.TopOfBook{Symbol: b.symbol}
	top.BestBid, top.HasBid = b.bids.bestPrice()
	top.BestAsk, top.HasAsk = b.asks.bestPrice()
	return top
}

// Snapshot aggregates up to depth levels per side, best first.
func (b *OrderBook) Snapshot(depth int) *domain.BookSnapshot {
	snap := &domain.BookSnapshot{
		Symbol: b.symbol,
		Bids:   make([]domain.BookLevel, 0, depth),
		Asks:   make([]domain.BookLevel, 0, depth),
	}
	b.bids.walkLevels(func(lvl *priceLevel) bool {
		snap.Bids = append(snap.Bids, domain.BookLevel{Price: lvl.price, Quantity: lvl.totalQty()})
		return len(snap.Bids) < depth
	})
	b.asks.walkLevels(func(lvl *priceLevel) bool {
		snap.Asks = append(snap.Asks, domain.BookLevel{Price: lvl.price, Quantity: lvl.totalQty()})
		return len(snap.Asks) < depth
	})
	return snap
}

// Restore rests an order directly without a matching pass, used when
// rebuilding a book from persisted open orders. Orders must be supplied in
// original sequence order to preserve time priority.
func (b *OrderBook) Restore(o *domain.Order) {
	if o.Remaining <= 0 || !o.Type.AllowsResting() {
		return
	}
	b.own(o.Side).insert(o)
}
