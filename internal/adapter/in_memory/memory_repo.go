package in_memory

import (
	"context"
	"sort"
	"sync"

	"github.com/huashen/exchange-core/internal/domain"
	"github.com/huashen/exchange-core/internal/port"
)

var _ port.Repository = (*MemoryRepo)(nil)

type MemoryRepo struct {
	mu        sync.Mutex
	orders    map[string]*domain.Order
	cancelled map[string]int64
	trades    map[string][]*domain.Trade
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		orders:    make(map[string]*domain.Order),
		cancelled: make(map[string]int64),
		trades:    make(map[string][]*domain.Trade),
	}
}

func (r *MemoryRepo) SaveOrder(ctx context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *MemoryRepo) SaveTrade(ctx context.Context, t *domain.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trades[t.TakerOrderID] = append(r.trades[t.TakerOrderID], t)
	r.trades[t.MakerOrderID] = append(r.trades[t.MakerOrderID], t)
	return nil
}

func (r *MemoryRepo) LoadOpenOrders(ctx context.Context, symbol string) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*domain.Order
	for _, o := range r.orders {
		if _, gone := r.cancelled[o.ID]; gone {
			continue
		}
		if o.Symbol == symbol && o.Remaining > 0 && o.Type.AllowsResting() {
			cp := *o
			res = append(res, &cp)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].SeqID < res[j].SeqID })
	return res, nil
}

func (r *MemoryRepo) MarkCancelled(ctx context.Context, orderID string, remaining int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[orderID]; !ok {
		return domain.ErrOrderNotFound
	}
	r.cancelled[orderID] = remaining
	return nil
}

func (r *MemoryRepo) LoadTradesForOrder(ctx context.Context, orderID string) ([]*domain.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.Trade(nil), r.trades[orderID]...), nil
}

func (r *MemoryRepo) BeginTx(ctx context.Context) (port.Tx, error) {
	return &memoryTx{repo: r}, nil
}

// memoryTx buffers writes and applies them on Commit.
type memoryTx struct {
	repo   *MemoryRepo
	orders []*domain.Order
	trades []*domain.Trade
}

func (t *memoryTx) SaveOrder(ctx context.Context, o *domain.Order) error {
	t.orders = append(t.orders, o)
	return nil
}

func (t *memoryTx) SaveTrade(ctx context.Context, tr *domain.Trade) error {
	t.trades = append(t.trades, tr)
	return nil
}

func (t *memoryTx) Commit(ctx context.Context) error {
	for _, o := range t.orders {
		if err := t.repo.SaveOrder(ctx, o); err != nil {
			return err
		}
	}
	for _, tr := range t.trades {
		if err := t.repo.SaveTrade(ctx, tr); err != nil {
			return err
		}
	}
	return nil
}

func (t *memoryTx) Rollback(ctx context.Context) error {
	t.orders, t.trades = nil, nil
	return nil
}
