package core

import (
	"container/list"
	"sort"

	"github.com/huashen/exchange-core/internal/domain"
)

// priceLevel holds FIFO orders for one price, oldest first.
type priceLevel struct {
	price  int64
	orders *list.List // of *domain.Order
}

func (l *priceLevel) totalQty() int64 {
	var total int64
	for e := l.orders.Front(); e != nil; e = e.Next() {
		total += e.Value.(*domain.Order).Remaining
	}
	return total
}

// orderRef locates a resting order inside its level for O(1) removal.
type orderRef struct {
	price int64
	elem  *list.Element
}

// bookSide is one side of the book: price levels keyed by price, plus the
// price keys kept sorted best-to-worst. Bids iterate descending, asks
// ascending. Levels with no resting quantity are pruned immediately, so
// bestPrice never reports a hollow level.
type bookSide struct {
	side   domain.Side
	levels map[int64]*priceLevel
	prices []int64 // bids sorted desc, asks asc
	byID   map[string]orderRef
}

func newBookSide(side domain.Side) *bookSide {
	return &bookSide{
		side:   side,
		levels: make(map[int64]*priceLevel),
		prices: make([]int64, 0),
		byID:   make(map[string]orderRef),
	}
}

// bestPrice returns the most aggressive resting price on this side.
func (s *bookSide) bestPrice() (int64, bool) {
	if len(s.prices) == 0 {
		return 0, false
	}
	return s.prices[0], true
}

// insert rests an order at its limit price, appended after existing orders
// at that price so FIFO time priority is preserved.
func (s *bookSide) insert(o *domain.Order) {
	lvl, ok := s.levels[o.Price]
	if !ok {
		lvl = &priceLevel{price: o.Price, orders: list.New()}
		s.levels[o.Price] = lvl
		s.insertPrice(o.Price)
	}
	elem := lvl.orders.PushBack(o)
	s.byID[o.ID] = orderRef{price: o.Price, elem: elem}
}

// consume reduces a resting order's remaining quantity, unlinking it once
// exhausted. Returns the order and the quantity actually consumed; a
// missing order consumes nothing.
func (s *bookSide) consume(orderID string, qty int64) (*domain.Order, int64) {
	ref, ok := s.byID[orderID]
	if !ok {
		return nil, 0
	}
	o := ref.elem.Value.(*domain.Order)
	if qty > o.Remaining {
		qty = o.Remaining
	}
	o.Remaining -= qty
	if o.Remaining == 0 {
		s.unlink(orderID, ref)
	}
	return o, qty
}

// remove deletes a resting order outright, reporting its remaining quantity.
func (s *bookSide) remove(orderID string) (int64, bool) {
	ref, ok := s.byID[orderID]
	if !ok {
		return 0, false
	}
	o := ref.elem.Value.(*domain.Order)
	remaining := o.Remaining
	s.unlink(orderID, ref)
	return remaining, true
}

func (s *bookSide) unlink(orderID string, ref orderRef) {
	lvl := s.levels[ref.price]
	lvl.orders.Remove(ref.elem)
	delete(s.byID, orderID)
	if lvl.orders.Len() == 0 {
		delete(s.levels, ref.price)
		s.removePrice(ref.price)
	}
}

// walkLevels visits price levels best-to-worst until fn returns false.
func (s *bookSide) walkLevels(fn func(lvl *priceLevel) bool) {
	for _, price := range s.prices {
		if !fn(s.levels[price]) {
			return
		}
	}
}

func (s *bookSide) insertPrice(price int64) {
	i := sort.Search(len(s.prices), func(i int) bool {
		if s.side == domain.Buy {
			return s.prices[i] < price
		}
		return s.prices[i] > price
	})
	s.prices = append(s.prices, 0)
	copy(s.prices[i+1:], s.prices[i:])
	s.prices[i] = price
}

func (s *bookSide) removePrice(price int64) {
	for i, p := range s.prices {
		if p == price {
			s.prices = append(s.prices[:i], s.prices[i+1:]...)
			return
		}
	}
}
