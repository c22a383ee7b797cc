package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/huashen/exchange-core/internal/domain"
)

// fill is one planned execution against a resting maker order.
type fill struct {
	makerID string
	price   int64
	qty     int64
}

// plan walks the opposing side best-to-worst and computes the fill sequence
// for the incoming order without mutating any book state. The all-or-none
// policies are decided against its result before anything is committed, so
// a failed FOK never leaves partial state behind.
func (b *OrderBook) plan(o *domain.Order) ([]fill, int64) {
	opp := b.opposing(o.Side)
	remaining := o.Quantity
	var notional int64
	var fills []fill

	opp.walkLevels(func(lvl *priceLevel) bool {
		if remaining == 0 {
			return false
		}
		if o.Type.BudgetCapped() {
			// Affordable quantity at this price without over-spending the
			// budget. Integer division truncates toward zero, so the budget
			// is never exceeded by rounding. Zero affordable terminates the
			// walk rather than probing deeper levels.
			if (o.Budget-notional)/lvl.price <= 0 {
				return false
			}
		} else if !priceAcceptable(o, lvl.price) {
			return false
		}

		for e := lvl.orders.Front(); e != nil && remaining > 0; e = e.Next() {
			maker := e.Value.(*domain.Order)
			qty := remaining
			if maker.Remaining < qty {
				qty = maker.Remaining
			}
			if o.Type.BudgetCapped() {
				affordable := (o.Budget - notional) / lvl.price
				if affordable <= 0 {
					return false
				}
				if affordable < qty {
					qty = affordable
				}
			}
			fills = append(fills, fill{makerID: maker.ID, price: lvl.price, qty: qty})
			remaining -= qty
			notional += qty * lvl.price
		}
		return remaining > 0
	})
	return fills, remaining
}

// commit applies a planned fill sequence: consumes maker quantity and emits
// one trade per fill at the maker's resting price. The consumed makers are
// returned so their reduced remaining quantity can be persisted along with
// the taker.
func (b *OrderBook) commit(o *domain.Order, fills []fill) ([]*domain.Trade, []*domain.Order) {
	opp := b.opposing(o.Side)
	trades := make([]*domain.Trade, 0, len(fills))
	makers := make([]*domain.Order, 0, len(fills))
	for _, f := range fills {
		maker, consumed := opp.consume(f.makerID, f.qty)
		if consumed == 0 {
			// maker vanished between plan and commit; cannot happen under
			// the single-writer loop, tolerated as "no longer present"
			continue
		}
		o.Remaining -= consumed
		makers = append(makers, maker)
		trades = append(trades, &domain.Trade{
			ID:           uuid.NewString(),
			Symbol:       o.Symbol,
			TakerOrderID: o.ID,
			MakerOrderID: f.makerID,
			Price:        f.price,
			Quantity:     consumed,
			Timestamp:    time.Now(),
		})
	}
	return trades, makers
}

// priceAcceptable reports whether a price-capped order may trade at the
// opposing level price.
func priceAcceptable(o *domain.Order, levelPrice int64) bool {
	if o.Side == domain.Buy {
		return levelPrice <= o.Price
	}
	return levelPrice >= o.Price
}
