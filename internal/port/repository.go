package port

import (
	"context"

	"github.com/huashen/exchange-core/internal/domain"
)

type Repository interface {
	SaveOrder(ctx context.Context, o *domain.Order) error
	SaveTrade(ctx context.Context, t *domain.Trade) error
	// LoadOpenOrders returns resting orders for a symbol in sequence order,
	// used to rebuild a book on startup.
	LoadOpenOrders(ctx context.Context, symbol string) ([]*domain.Order, error)
	MarkCancelled(ctx context.Context, orderID string, remaining int64) error
	LoadTradesForOrder(ctx context.Context, orderID string) ([]*domain.Trade, error)
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx batches order and trade writes for one committed matching pass.
type Tx interface {
	SaveOrder(ctx context.Context, o *domain.Order) error
	SaveTrade(ctx context.Context, t *domain.Trade) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
